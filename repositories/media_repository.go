package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/models"
)

// IMediaRepository is the media asset persistence boundary.
type IMediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
	FindByMediaID(ctx context.Context, mediaID uuid.UUID) (*models.MediaAsset, error)
	FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.MediaAsset, error)
	Delete(ctx context.Context, asset *models.MediaAsset, deletedByUserID uint) error
}

// MediaRepository implements IMediaRepository on GORM.
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository builds a repository on the shared connection.
func NewMediaRepository() IMediaRepository {
	return NewMediaRepositoryTx(configsdatabase.GetDB())
}

// NewMediaRepositoryTx binds the repository to an open transaction.
func NewMediaRepositoryTx(tx *gorm.DB) IMediaRepository {
	return &MediaRepository{db: tx}
}

func (r *MediaRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create inserts one asset row.
func (r *MediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	if asset == nil || asset.InvitationID == 0 {
		return errors.New("asset without an invitation cannot be created")
	}
	return r.getDB(ctx).Create(asset).Error
}

// FindByMediaID loads one asset by its public media identifier.
func (r *MediaRepository) FindByMediaID(ctx context.Context, mediaID uuid.UUID) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	err := r.getDB(ctx).Where("media_id = ?", mediaID).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindAllByInvitation lists one invitation's uploads.
func (r *MediaRepository) FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.MediaAsset, error) {
	if invitationID == 0 {
		return nil, errors.New("invalid invitation id")
	}
	var assets []models.MediaAsset
	err := r.getDB(ctx).Where("invitation_id = ?", invitationID).Order("created_at desc").Find(&assets).Error
	return assets, err
}

// Delete soft-deletes the asset row; object removal is the media service's
// responsibility.
func (r *MediaRepository) Delete(ctx context.Context, asset *models.MediaAsset, deletedByUserID uint) error {
	if asset == nil || asset.ID == 0 {
		return errors.New("invalid asset for delete")
	}
	result := r.getDB(ctx).Model(asset).
		Where("id = ? AND deleted_at IS NULL", asset.ID).
		Updates(map[string]interface{}{"deleted_at": gorm.Expr("NOW()"), "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IMediaRepository = (*MediaRepository)(nil)
