package repositories

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/models"
)

// IGuestRepository is the guest persistence boundary.
type IGuestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	CreateBatch(ctx context.Context, guests []models.Guest) error
	FindByID(ctx context.Context, id uint) (*models.Guest, error)
	FindByLinkKey(ctx context.Context, key string) (*models.Guest, error)
	FindByToken(ctx context.Context, token string) (*models.Guest, error)
	FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.Guest, error)
	Update(ctx context.Context, guest *models.Guest) error
	DeleteByIDs(ctx context.Context, invitationID uint, ids []uint, deletedByUserID uint) (int64, error)
}

// GuestRepository implements IGuestRepository on GORM.
type GuestRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Guest]
}

// NewGuestRepository builds a repository on the shared connection.
func NewGuestRepository() IGuestRepository {
	return NewGuestRepositoryTx(configsdatabase.GetDB())
}

// NewGuestRepositoryTx binds the repository to an open transaction.
func NewGuestRepositoryTx(tx *gorm.DB) IGuestRepository {
	return &GuestRepository{db: tx, base: NewBaseRepository[models.Guest](tx)}
}

func (r *GuestRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create inserts one guest.
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	if guest == nil || guest.InvitationID == 0 {
		return errors.New("guest without an invitation cannot be created")
	}
	return r.getDB(ctx).Create(guest).Error
}

// CreateBatch inserts imported guests in one statement.
func (r *GuestRepository) CreateBatch(ctx context.Context, guests []models.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	return r.getDB(ctx).Create(&guests).Error
}

// FindByID loads one guest.
func (r *GuestRepository) FindByID(ctx context.Context, id uint) (*models.Guest, error) {
	return r.base.FindByID(ctx, id)
}

// FindByLinkKey loads the guest behind a personal /i/<key> link.
func (r *GuestRepository) FindByLinkKey(ctx context.Context, key string) (*models.Guest, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var guest models.Guest
	err := r.getDB(ctx).Where("link_key = ?", key).First(&guest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("GuestRepository.FindByLinkKey: db error", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &guest, nil
}

// FindByToken loads the guest behind a ?guest=<token> preview parameter.
func (r *GuestRepository) FindByToken(ctx context.Context, token string) (*models.Guest, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var guest models.Guest
	err := r.getDB(ctx).Where("token = ?", token).First(&guest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("GuestRepository.FindByToken: db error", zap.Error(err))
		return nil, err
	}
	return &guest, nil
}

// FindAllByInvitation returns the full guest collection of one invitation;
// filtering/search/stats are linear scans in the service.
func (r *GuestRepository) FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.Guest, error) {
	if invitationID == 0 {
		return nil, errors.New("invalid invitation id")
	}
	var guests []models.Guest
	err := r.getDB(ctx).
		Where("invitation_id = ?", invitationID).
		Order("name asc").
		Find(&guests).Error
	if err != nil {
		configslog.Log.Error("GuestRepository.FindAllByInvitation: db error", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return guests, nil
}

// Update saves all guest fields.
func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	if guest == nil || guest.ID == 0 {
		return errors.New("invalid guest for update")
	}
	return r.getDB(ctx).Save(guest).Error
}

// DeleteByIDs soft-deletes a selection of guests scoped to one invitation
// and returns how many rows were affected.
func (r *GuestRepository) DeleteByIDs(ctx context.Context, invitationID uint, ids []uint, deletedByUserID uint) (int64, error) {
	if invitationID == 0 || len(ids) == 0 {
		return 0, nil
	}
	result := r.getDB(ctx).Model(&models.Guest{}).
		Where("invitation_id = ? AND id IN ? AND deleted_at IS NULL", invitationID, ids).
		Updates(map[string]interface{}{"deleted_at": gorm.Expr("NOW()"), "deleted_by": &deletedByUserID})
	if result.Error != nil {
		configslog.Log.Error("GuestRepository.DeleteByIDs: db error", zap.Uint("invitationID", invitationID), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var _ IGuestRepository = (*GuestRepository)(nil)
