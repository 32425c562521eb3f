package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
	"loventy.org/repositories"
)

// fakeWallRepo is an in-memory ISocialWallRepository.
type fakeWallRepo struct {
	nextID   uint
	posts    map[uint]models.SocialWallPost
	comments map[uint]models.SocialWallComment
}

func newFakeWallRepo() *fakeWallRepo {
	return &fakeWallRepo{
		nextID:   1,
		posts:    make(map[uint]models.SocialWallPost),
		comments: make(map[uint]models.SocialWallComment),
	}
}

func (r *fakeWallRepo) CreatePost(_ context.Context, post *models.SocialWallPost) error {
	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = *post
	return nil
}

func (r *fakeWallRepo) FindPostByID(_ context.Context, id uint) (*models.SocialWallPost, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *fakeWallRepo) FindPostsByInvitation(_ context.Context, invitationID uint, approvedOnly bool) ([]models.SocialWallPost, error) {
	var out []models.SocialWallPost
	for id := uint(1); id < r.nextID; id++ {
		p, ok := r.posts[id]
		if !ok || p.InvitationID != invitationID {
			continue
		}
		if approvedOnly && !p.IsApproved {
			continue
		}
		for cid := uint(1); cid < r.nextID; cid++ {
			if c, ok := r.comments[cid]; ok && c.PostID == p.ID {
				p.Comments = append(p.Comments, c)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeWallRepo) UpdatePost(_ context.Context, post *models.SocialWallPost) error {
	if _, ok := r.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *post
	stored.Comments = nil
	r.posts[post.ID] = stored
	return nil
}

func (r *fakeWallRepo) DeletePost(_ context.Context, post *models.SocialWallPost, _ uint) error {
	if _, ok := r.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, post.ID)
	return nil
}

func (r *fakeWallRepo) CreateComment(_ context.Context, comment *models.SocialWallComment) error {
	comment.ID = r.nextID
	r.nextID++
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeWallRepo) FindCommentByID(_ context.Context, id uint) (*models.SocialWallComment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *fakeWallRepo) UpdateComment(_ context.Context, comment *models.SocialWallComment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.comments[comment.ID] = *comment
	return nil
}

var _ repositories.ISocialWallRepository = (*fakeWallRepo)(nil)

func enabledWall(moderated bool) models.InvitationDetail {
	return models.InvitationDetail{SocialWallEnabled: true, SocialWallModerated: moderated}
}

func TestCreatePostModerationDefaults(t *testing.T) {
	svc := NewSocialWallServiceWith(newFakeWallRepo())
	ctx := context.Background()

	open, err := svc.CreatePost(ctx, 7, enabledWall(false), nil, "Marie", "Félicitations !", "")
	require.NoError(t, err)
	assert.True(t, open.IsApproved)

	moderated, err := svc.CreatePost(ctx, 7, enabledWall(true), nil, "Paul", "Bravo !", "")
	require.NoError(t, err)
	assert.False(t, moderated.IsApproved)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewSocialWallServiceWith(newFakeWallRepo())
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, 7, models.InvitationDetail{}, nil, "Marie", "Coucou", "")
	assert.ErrorIs(t, err, ErrWallDisabled)

	_, err = svc.CreatePost(ctx, 7, enabledWall(false), nil, "  ", "Coucou", "")
	assert.ErrorIs(t, err, ErrAuthorNameRequired)

	_, err = svc.CreatePost(ctx, 7, enabledWall(false), nil, "Marie", "  ", "")
	assert.ErrorIs(t, err, ErrPostContentRequired)

	// a photo alone is enough
	post, err := svc.CreatePost(ctx, 7, enabledWall(false), nil, "Marie", "", "/media/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/media/photo.jpg", post.PhotoURL)
}

func TestCreateCommentRequiresPost(t *testing.T) {
	svc := NewSocialWallServiceWith(newFakeWallRepo())
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, 42, false, nil, "Marie", "Si beau !")
	assert.ErrorIs(t, err, ErrPostNotFound)

	post, err := svc.CreatePost(ctx, 7, enabledWall(true), nil, "Paul", "Bravo", "")
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, post.ID, true, nil, "Marie", "Si beau !")
	require.NoError(t, err)
	assert.False(t, comment.IsApproved)
}

func TestVisiblePostsModerated(t *testing.T) {
	repo := newFakeWallRepo()
	svc := NewSocialWallServiceWith(repo)
	ctx := context.Background()

	approved, err := svc.CreatePost(ctx, 7, enabledWall(false), nil, "Marie", "Visible", "")
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, 7, enabledWall(true), nil, "Paul", "En attente", "")
	require.NoError(t, err)

	ok, err := svc.CreateComment(ctx, approved.ID, false, nil, "Léa", "approuvé")
	require.NoError(t, err)
	assert.True(t, ok.IsApproved)
	_, err = svc.CreateComment(ctx, approved.ID, true, nil, "Léa", "en attente")
	require.NoError(t, err)

	visible, err := svc.VisiblePosts(ctx, 7, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Visible", visible[0].Content)
	require.Len(t, visible[0].Comments, 1)
	assert.Equal(t, "approuvé", visible[0].Comments[0].Content)

	all, err := svc.AllPosts(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApprovePostAndComment(t *testing.T) {
	repo := newFakeWallRepo()
	svc := NewSocialWallServiceWith(repo)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 7, enabledWall(true), nil, "Paul", "Bravo", "")
	require.NoError(t, err)
	comment, err := svc.CreateComment(ctx, post.ID, true, nil, "Marie", "Oui !")
	require.NoError(t, err)

	require.NoError(t, svc.ApprovePost(ctx, post.ID, 1, true))
	require.NoError(t, svc.ApproveComment(ctx, comment.ID, 1, true))

	visible, err := svc.VisiblePosts(ctx, 7, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Len(t, visible[0].Comments, 1)

	// rejection flips the flag back off
	require.NoError(t, svc.ApprovePost(ctx, post.ID, 1, false))
	visible, err = svc.VisiblePosts(ctx, 7, true)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestDeletePost(t *testing.T) {
	svc := NewSocialWallServiceWith(newFakeWallRepo())
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, 7, enabledWall(false), nil, "Marie", "À supprimer", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID, 1))
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID, 1), ErrPostNotFound)
	assert.ErrorIs(t, svc.ApprovePost(ctx, post.ID, 1, true), ErrPostNotFound)
}
