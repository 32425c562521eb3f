package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
	"loventy.org/repositories"
)

// fakeMediaRepo is an in-memory IMediaRepository.
type fakeMediaRepo struct {
	nextID     uint
	assets     map[uuid.UUID]models.MediaAsset
	failCreate bool
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{nextID: 1, assets: make(map[uuid.UUID]models.MediaAsset)}
}

func (r *fakeMediaRepo) Create(_ context.Context, asset *models.MediaAsset) error {
	if r.failCreate {
		return assert.AnError
	}
	asset.ID = r.nextID
	r.nextID++
	r.assets[asset.MediaID] = *asset
	return nil
}

func (r *fakeMediaRepo) FindByMediaID(_ context.Context, mediaID uuid.UUID) (*models.MediaAsset, error) {
	a, ok := r.assets[mediaID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *fakeMediaRepo) FindAllByInvitation(_ context.Context, invitationID uint) ([]models.MediaAsset, error) {
	var out []models.MediaAsset
	for _, a := range r.assets {
		if a.InvitationID == invitationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) Delete(_ context.Context, asset *models.MediaAsset, _ uint) error {
	if _, ok := r.assets[asset.MediaID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.assets, asset.MediaID)
	return nil
}

var _ repositories.IMediaRepository = (*fakeMediaRepo)(nil)

// fakeObjectStore records put/removed keys.
type fakeObjectStore struct {
	objects map[string]bool
	failPut bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]bool)}
}

func (s *fakeObjectStore) Put(_ context.Context, objectKey, _ string, r io.Reader, _ int64) error {
	if s.failPut {
		return assert.AnError
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	s.objects[objectKey] = true
	return nil
}

func (s *fakeObjectStore) Remove(_ context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	return nil
}

func (s *fakeObjectStore) PublicURL(objectKey string) string {
	return "https://media.loventy.org/" + objectKey
}

var _ ObjectStore = (*fakeObjectStore)(nil)

func TestMediaUpload(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeObjectStore()
	svc := NewMediaServiceWith(repo, store)

	body := strings.NewReader("fake image bytes")
	asset, err := svc.Upload(context.Background(), 7, 1, models.SectionHero, models.MediaBackground,
		"photo.JPG", "image/jpeg", body, int64(body.Len()))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, asset.MediaID)
	assert.True(t, strings.HasPrefix(asset.ObjectKey, "invitations/7/hero/"))
	assert.True(t, strings.HasSuffix(asset.ObjectKey, ".jpg"))
	assert.Equal(t, "https://media.loventy.org/"+asset.ObjectKey, asset.URL)
	assert.True(t, store.objects[asset.ObjectKey])

	listed, err := svc.ListByInvitation(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestMediaUploadValidation(t *testing.T) {
	svc := NewMediaServiceWith(newFakeMediaRepo(), newFakeObjectStore())
	ctx := context.Background()
	body := strings.NewReader("x")

	_, err := svc.Upload(ctx, 7, 1, models.SectionKey("footer"), models.MediaBackground, "a.png", "image/png", body, 1)
	assert.ErrorIs(t, err, ErrMediaBadSection)

	_, err = svc.Upload(ctx, 7, 1, models.SectionHero, models.MediaImageType("banner"), "a.png", "image/png", body, 1)
	assert.ErrorIs(t, err, ErrMediaBadImageType)

	_, err = svc.Upload(ctx, 7, 1, models.SectionHero, models.MediaBackground, "a.png", "image/png", body, maxUploadBytes+1)
	assert.ErrorIs(t, err, ErrMediaTooLarge)
}

func TestMediaUploadStoreFailure(t *testing.T) {
	store := newFakeObjectStore()
	store.failPut = true
	svc := NewMediaServiceWith(newFakeMediaRepo(), store)

	body := strings.NewReader("x")
	_, err := svc.Upload(context.Background(), 7, 1, models.SectionHero, models.MediaBackground, "a.png", "image/png", body, 1)
	assert.ErrorIs(t, err, ErrMediaUploadFailed)
}

func TestMediaUploadRowFailureRemovesObject(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.failCreate = true
	store := newFakeObjectStore()
	svc := NewMediaServiceWith(repo, store)

	body := strings.NewReader("x")
	_, err := svc.Upload(context.Background(), 7, 1, models.SectionHero, models.MediaBackground, "a.png", "image/png", body, 1)
	require.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestMediaDelete(t *testing.T) {
	repo := newFakeMediaRepo()
	store := newFakeObjectStore()
	svc := NewMediaServiceWith(repo, store)
	ctx := context.Background()

	body := strings.NewReader("x")
	asset, err := svc.Upload(ctx, 7, 1, models.SectionHero, models.MediaCouple, "a.png", "image/png", body, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, asset.MediaID, 1))
	assert.Empty(t, store.objects)
	assert.ErrorIs(t, svc.Delete(ctx, asset.MediaID, 1), ErrMediaNotFound)
}
