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

// ISocialWallRepository is the social wall persistence boundary.
type ISocialWallRepository interface {
	CreatePost(ctx context.Context, post *models.SocialWallPost) error
	FindPostByID(ctx context.Context, id uint) (*models.SocialWallPost, error)
	FindPostsByInvitation(ctx context.Context, invitationID uint, approvedOnly bool) ([]models.SocialWallPost, error)
	UpdatePost(ctx context.Context, post *models.SocialWallPost) error
	DeletePost(ctx context.Context, post *models.SocialWallPost, deletedByUserID uint) error
	CreateComment(ctx context.Context, comment *models.SocialWallComment) error
	FindCommentByID(ctx context.Context, id uint) (*models.SocialWallComment, error)
	UpdateComment(ctx context.Context, comment *models.SocialWallComment) error
}

// SocialWallRepository implements ISocialWallRepository on GORM.
type SocialWallRepository struct {
	db *gorm.DB
}

// NewSocialWallRepository builds a repository on the shared connection.
func NewSocialWallRepository() ISocialWallRepository {
	return NewSocialWallRepositoryTx(configsdatabase.GetDB())
}

// NewSocialWallRepositoryTx binds the repository to an open transaction.
func NewSocialWallRepositoryTx(tx *gorm.DB) ISocialWallRepository {
	return &SocialWallRepository{db: tx}
}

func (r *SocialWallRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// CreatePost inserts one wall post.
func (r *SocialWallRepository) CreatePost(ctx context.Context, post *models.SocialWallPost) error {
	if post == nil || post.InvitationID == 0 {
		return errors.New("post without an invitation cannot be created")
	}
	return r.getDB(ctx).Create(post).Error
}

// FindPostByID loads one post with its comments.
func (r *SocialWallRepository) FindPostByID(ctx context.Context, id uint) (*models.SocialWallPost, error) {
	if id == 0 {
		return nil, errors.New("invalid post id")
	}
	var post models.SocialWallPost
	err := r.getDB(ctx).Preload("Comments").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindPostsByInvitation lists posts, optionally restricted to approved ones
// (the public moderated view).
func (r *SocialWallRepository) FindPostsByInvitation(ctx context.Context, invitationID uint, approvedOnly bool) ([]models.SocialWallPost, error) {
	if invitationID == 0 {
		return nil, errors.New("invalid invitation id")
	}
	query := r.getDB(ctx).
		Preload("Comments").
		Where("invitation_id = ?", invitationID).
		Order("created_at desc")
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}
	var posts []models.SocialWallPost
	if err := query.Find(&posts).Error; err != nil {
		configslog.Log.Error("SocialWallRepository.FindPostsByInvitation: db error", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return posts, nil
}

// UpdatePost saves all post fields.
func (r *SocialWallRepository) UpdatePost(ctx context.Context, post *models.SocialWallPost) error {
	if post == nil || post.ID == 0 {
		return errors.New("invalid post for update")
	}
	return r.getDB(ctx).Omit("Comments").Save(post).Error
}

// DeletePost soft-deletes one post.
func (r *SocialWallRepository) DeletePost(ctx context.Context, post *models.SocialWallPost, deletedByUserID uint) error {
	if post == nil || post.ID == 0 {
		return errors.New("invalid post for delete")
	}
	result := r.getDB(ctx).Model(post).
		Where("id = ? AND deleted_at IS NULL", post.ID).
		Updates(map[string]interface{}{"deleted_at": gorm.Expr("NOW()"), "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateComment inserts one comment.
func (r *SocialWallRepository) CreateComment(ctx context.Context, comment *models.SocialWallComment) error {
	if comment == nil || comment.PostID == 0 {
		return errors.New("comment without a post cannot be created")
	}
	return r.getDB(ctx).Create(comment).Error
}

// FindCommentByID loads one comment.
func (r *SocialWallRepository) FindCommentByID(ctx context.Context, id uint) (*models.SocialWallComment, error) {
	if id == 0 {
		return nil, errors.New("invalid comment id")
	}
	var comment models.SocialWallComment
	err := r.getDB(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// UpdateComment saves all comment fields.
func (r *SocialWallRepository) UpdateComment(ctx context.Context, comment *models.SocialWallComment) error {
	if comment == nil || comment.ID == 0 {
		return errors.New("invalid comment for update")
	}
	return r.getDB(ctx).Save(comment).Error
}

var _ ISocialWallRepository = (*SocialWallRepository)(nil)
