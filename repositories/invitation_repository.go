package repositories

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/pkg/queryparams"
)

// IInvitationRepository is the invitation persistence boundary.
type IInvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, id uint) (*models.Invitation, error)
	FindByKey(ctx context.Context, key string) (*models.Invitation, error)
	FindAllByOwnerPaginated(ctx context.Context, ownerUserID uint, params queryparams.ListParams) ([]models.Invitation, int64, error)
	Update(ctx context.Context, invitation *models.Invitation) error
	UpdateDetail(ctx context.Context, detail *models.InvitationDetail) error
	UpdateDesign(ctx context.Context, id uint, settings models.DesignSettings) error
	Delete(ctx context.Context, invitation *models.Invitation, deletedByUserID uint) error
	CountByOwner(ctx context.Context, ownerUserID uint) (int64, error)
}

// InvitationRepository implements IInvitationRepository on GORM.
type InvitationRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Invitation]
}

// NewInvitationRepository builds a repository on the shared connection.
func NewInvitationRepository() IInvitationRepository {
	return NewInvitationRepositoryTx(configsdatabase.GetDB())
}

// NewInvitationRepositoryTx builds a repository bound to an open transaction.
func NewInvitationRepositoryTx(tx *gorm.DB) IInvitationRepository {
	base := NewBaseRepository[models.Invitation](tx)
	base.SetAllowedSortColumns(map[string]string{
		"id":              "invitations.id",
		"created_at":      "invitations.created_at",
		"status":          "invitations.status",
		"is_enabled":      "invitations.is_enabled",
		"title":           "invitation_details.title",
		"event_date_time": "invitation_details.event_date_time",
	})
	return &InvitationRepository{db: tx, base: base}
}

func (r *InvitationRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create inserts an invitation along with its detail row.
func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.Key == "" {
		return errors.New("invitation without a link key cannot be created")
	}
	return r.getDB(ctx).Create(invitation).Error
}

// FindByID loads one invitation with its detail.
func (r *InvitationRepository) FindByID(ctx context.Context, id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, errors.New("invalid invitation id")
	}
	var invitation models.Invitation
	err := r.getDB(ctx).Preload("Detail").First(&invitation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InvitationRepository.FindByID: db error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &invitation, nil
}

// FindByKey loads one invitation by its public link key.
func (r *InvitationRepository) FindByKey(ctx context.Context, key string) (*models.Invitation, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var invitation models.Invitation
	err := r.getDB(ctx).Preload("Detail").Where("key = ?", key).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InvitationRepository.FindByKey: db error", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &invitation, nil
}

func (r *InvitationRepository) applyFilters(query *gorm.DB, params queryparams.ListParams) *gorm.DB {
	if params.Name != "" {
		query = query.
			Joins("JOIN invitation_details ON invitation_details.invitation_id = invitations.id").
			Where("invitation_details.title ILIKE ?", "%"+params.Name+"%")
	}
	if params.Status != "" {
		query = query.Where("invitations.status = ?", params.Status)
	}
	orderColumn := r.base.SortColumn(params.SortBy, "invitations.created_at")
	return query.Order(orderColumn + " " + params.OrderBy)
}

// FindAllByOwnerPaginated lists one owner's invitations.
func (r *InvitationRepository) FindAllByOwnerPaginated(ctx context.Context, ownerUserID uint, params queryparams.ListParams) ([]models.Invitation, int64, error) {
	if ownerUserID == 0 {
		return nil, 0, errors.New("invalid owner id")
	}
	var invitations []models.Invitation
	var totalCount int64

	query := r.getDB(ctx).Model(&models.Invitation{}).Where("invitations.owner_user_id = ?", ownerUserID)
	query = r.applyFilters(query, params)

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("InvitationRepository.FindAllByOwnerPaginated: count error", zap.Uint("ownerUserID", ownerUserID), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return invitations, 0, nil
	}

	query = query.Preload("Detail").Limit(params.PerPage).Offset(params.CalculateOffset())
	if params.Name != "" {
		query = query.Select("invitations.*")
	}
	if err := query.Find(&invitations).Error; err != nil {
		configslog.Log.Error("InvitationRepository.FindAllByOwnerPaginated: find error", zap.Uint("ownerUserID", ownerUserID), zap.Error(err))
		return nil, totalCount, err
	}
	return invitations, totalCount, nil
}

// Update saves the root invitation record.
func (r *InvitationRepository) Update(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.ID == 0 {
		return errors.New("invalid invitation for update")
	}
	return r.getDB(ctx).Save(invitation).Error
}

// UpdateDetail saves the detail side-record.
func (r *InvitationRepository) UpdateDetail(ctx context.Context, detail *models.InvitationDetail) error {
	if detail == nil || detail.ID == 0 {
		return errors.New("invalid invitation detail for update")
	}
	return r.getDB(ctx).Save(detail).Error
}

// UpdateDesign replaces the design settings JSONB column wholesale.
func (r *InvitationRepository) UpdateDesign(ctx context.Context, id uint, settings models.DesignSettings) error {
	if id == 0 {
		return errors.New("invalid invitation id")
	}
	var inv models.Invitation
	inv.SetDesignSettings(settings)
	result := r.getDB(ctx).Model(&models.Invitation{}).Where("id = ?", id).Update("design", inv.Design)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes the invitation and stamps DeletedBy.
func (r *InvitationRepository) Delete(ctx context.Context, invitation *models.Invitation, deletedByUserID uint) error {
	if invitation == nil || invitation.ID == 0 {
		return errors.New("invalid invitation for delete")
	}
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(invitation).
		Where("id = ? AND deleted_at IS NULL", invitation.ID).
		Updates(map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID})
	if result.Error != nil {
		configslog.Log.Error("InvitationRepository.Delete: db error", zap.Uint("id", invitation.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOwner returns how many invitations one owner has.
func (r *InvitationRepository) CountByOwner(ctx context.Context, ownerUserID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Invitation{}).Where("owner_user_id = ?", ownerUserID).Count(&count).Error
	return count, err
}

var _ IInvitationRepository = (*InvitationRepository)(nil)
