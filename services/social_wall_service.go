package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/repositories"
)

// SocialWallServiceError is the typed error family of this service.
type SocialWallServiceError string

func (e SocialWallServiceError) Error() string { return string(e) }

const (
	ErrPostNotFound        SocialWallServiceError = "wall post not found"
	ErrCommentNotFound     SocialWallServiceError = "wall comment not found"
	ErrPostContentRequired SocialWallServiceError = "the post needs some content"
	ErrAuthorNameRequired  SocialWallServiceError = "the post needs an author name"
	ErrWallDisabled        SocialWallServiceError = "the social wall is not enabled"
)

// ISocialWallService manages guest posts and comments on one invitation's
// wall, including the host's moderation actions.
type ISocialWallService interface {
	CreatePost(ctx context.Context, invitationID uint, detail models.InvitationDetail, guestID *uint, authorName, content, photoURL string) (*models.SocialWallPost, error)
	CreateComment(ctx context.Context, postID uint, moderated bool, guestID *uint, authorName, content string) (*models.SocialWallComment, error)
	VisiblePosts(ctx context.Context, invitationID uint, moderated bool) ([]models.SocialWallPost, error)
	AllPosts(ctx context.Context, invitationID uint) ([]models.SocialWallPost, error)
	ApprovePost(ctx context.Context, postID, userID uint, approved bool) error
	ApproveComment(ctx context.Context, commentID, userID uint, approved bool) error
	DeletePost(ctx context.Context, postID, userID uint) error
}

// SocialWallService implements ISocialWallService.
type SocialWallService struct {
	repo repositories.ISocialWallRepository
}

// NewSocialWallService wires the service against the shared database.
func NewSocialWallService() ISocialWallService {
	return &SocialWallService{repo: repositories.NewSocialWallRepository()}
}

// NewSocialWallServiceWith injects the dependencies, for tests.
func NewSocialWallServiceWith(repo repositories.ISocialWallRepository) *SocialWallService {
	return &SocialWallService{repo: repo}
}

// CreatePost records a guest's wall post. In moderated mode the post starts
// unapproved and only the author and the hosts see it until approval; on an
// open wall it is approved immediately.
func (s *SocialWallService) CreatePost(ctx context.Context, invitationID uint, detail models.InvitationDetail, guestID *uint, authorName, content, photoURL string) (*models.SocialWallPost, error) {
	if !detail.SocialWallEnabled {
		return nil, ErrWallDisabled
	}
	if strings.TrimSpace(authorName) == "" {
		return nil, ErrAuthorNameRequired
	}
	if strings.TrimSpace(content) == "" && photoURL == "" {
		return nil, ErrPostContentRequired
	}

	post := &models.SocialWallPost{
		InvitationID: invitationID,
		GuestID:      guestID,
		AuthorName:   authorName,
		Content:      content,
		PhotoURL:     photoURL,
		IsApproved:   !detail.SocialWallModerated,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		configslog.Log.Error("CreatePost failed", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// CreateComment records a reply, moderated the same way as posts.
func (s *SocialWallService) CreateComment(ctx context.Context, postID uint, moderated bool, guestID *uint, authorName, content string) (*models.SocialWallComment, error) {
	if strings.TrimSpace(authorName) == "" {
		return nil, ErrAuthorNameRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrPostContentRequired
	}
	if _, err := s.repo.FindPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &models.SocialWallComment{
		PostID:     postID,
		GuestID:    guestID,
		AuthorName: authorName,
		Content:    content,
		IsApproved: !moderated,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		configslog.Log.Error("CreateComment failed", zap.Uint("postID", postID), zap.Error(err))
		return nil, err
	}
	return comment, nil
}

// VisiblePosts returns what guests see: everything on an open wall, only
// approved posts and comments on a moderated one.
func (s *SocialWallService) VisiblePosts(ctx context.Context, invitationID uint, moderated bool) ([]models.SocialWallPost, error) {
	posts, err := s.repo.FindPostsByInvitation(ctx, invitationID, moderated)
	if err != nil {
		return nil, err
	}
	if !moderated {
		return posts, nil
	}
	for i := range posts {
		kept := posts[i].Comments[:0]
		for _, c := range posts[i].Comments {
			if c.IsApproved {
				kept = append(kept, c)
			}
		}
		posts[i].Comments = kept
	}
	return posts, nil
}

// AllPosts returns every post including pending ones, for the moderation
// screen of the panel.
func (s *SocialWallService) AllPosts(ctx context.Context, invitationID uint) ([]models.SocialWallPost, error) {
	return s.repo.FindPostsByInvitation(ctx, invitationID, false)
}

// ApprovePost flips a post's moderation flag.
func (s *SocialWallService) ApprovePost(ctx context.Context, postID, userID uint, approved bool) error {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	post.IsApproved = approved
	post.UpdatedBy = &userID
	return s.repo.UpdatePost(ctx, post)
}

// ApproveComment flips a comment's moderation flag.
func (s *SocialWallService) ApproveComment(ctx context.Context, commentID, userID uint, approved bool) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	comment.IsApproved = approved
	comment.UpdatedBy = &userID
	return s.repo.UpdateComment(ctx, comment)
}

// DeletePost removes a rejected post entirely.
func (s *SocialWallService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return s.repo.DeletePost(ctx, post, userID)
}

var _ ISocialWallService = (*SocialWallService)(nil)
