package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"loventy.org/configs/configsapp"
	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/repositories"
)

// MediaServiceError is the typed error family of this service.
type MediaServiceError string

func (e MediaServiceError) Error() string { return string(e) }

const (
	ErrMediaNotFound     MediaServiceError = "uploaded image not found"
	ErrMediaBadImageType MediaServiceError = "unknown image slot"
	ErrMediaBadSection   MediaServiceError = "unknown section"
	ErrMediaTooLarge     MediaServiceError = "the image is too large"
	ErrMediaUploadFailed MediaServiceError = "the image could not be stored"
)

// maxUploadBytes caps one uploaded image at 10 MiB.
const maxUploadBytes int64 = 10 << 20

// ObjectStore is the bucket collaborator behind the media service.
type ObjectStore interface {
	Put(ctx context.Context, objectKey, contentType string, r io.Reader, size int64) error
	Remove(ctx context.Context, objectKey string) error
	PublicURL(objectKey string) string
}

// MinioStore implements ObjectStore on a MinIO / S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	base   string
}

// NewMinioStore connects to the configured bucket.
func NewMinioStore(cfg configsapp.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MediaEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: cfg.MediaUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media store connection failed: %w", err)
	}
	scheme := "http"
	if cfg.MediaUseSSL {
		scheme = "https"
	}
	return &MinioStore{
		client: client,
		bucket: cfg.MediaBucket,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.MediaEndpoint, cfg.MediaBucket),
	}, nil
}

// Put stores one object.
func (s *MinioStore) Put(ctx context.Context, objectKey, contentType string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Remove deletes one object.
func (s *MinioStore) Remove(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// PublicURL returns the direct object URL.
func (s *MinioStore) PublicURL(objectKey string) string {
	return s.base + "/" + objectKey
}

// IMediaService stores and removes uploaded section images.
type IMediaService interface {
	Upload(ctx context.Context, invitationID, userID uint, section models.SectionKey, imageType models.MediaImageType, filename, contentType string, r io.Reader, size int64) (*models.MediaAsset, error)
	Delete(ctx context.Context, mediaID uuid.UUID, userID uint) error
	ListByInvitation(ctx context.Context, invitationID uint) ([]models.MediaAsset, error)
}

// MediaService implements IMediaService.
type MediaService struct {
	repo  repositories.IMediaRepository
	store ObjectStore
}

// NewMediaService wires the service against the shared database and bucket.
func NewMediaService(store ObjectStore) IMediaService {
	return &MediaService{repo: repositories.NewMediaRepository(), store: store}
}

// NewMediaServiceWith injects the dependencies, for tests.
func NewMediaServiceWith(repo repositories.IMediaRepository, store ObjectStore) *MediaService {
	return &MediaService{repo: repo, store: store}
}

var knownSections = func() map[models.SectionKey]bool {
	m := make(map[models.SectionKey]bool, len(models.AllSectionKeys))
	for _, k := range models.AllSectionKeys {
		m[k] = true
	}
	return m
}()

// Upload stores the image in the bucket under a fresh uuid-based key and
// records the asset row. The returned asset carries the public URL the
// design setters then point the section at.
func (s *MediaService) Upload(ctx context.Context, invitationID, userID uint, section models.SectionKey, imageType models.MediaImageType, filename, contentType string, r io.Reader, size int64) (*models.MediaAsset, error) {
	if !knownSections[section] {
		return nil, ErrMediaBadSection
	}
	if !models.ValidMediaImageType(imageType) {
		return nil, ErrMediaBadImageType
	}
	if size > maxUploadBytes {
		return nil, ErrMediaTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	mediaID := uuid.New()
	ext := strings.ToLower(path.Ext(filename))
	objectKey := fmt.Sprintf("invitations/%d/%s/%s%s", invitationID, section, mediaID, ext)

	if err := s.store.Put(ctx, objectKey, contentType, r, size); err != nil {
		configslog.Log.Error("media upload failed", zap.Uint("invitationID", invitationID), zap.String("objectKey", objectKey), zap.Error(err))
		return nil, ErrMediaUploadFailed
	}

	asset := &models.MediaAsset{
		MediaID:      mediaID,
		InvitationID: invitationID,
		SectionKey:   section,
		ImageType:    imageType,
		ObjectKey:    objectKey,
		URL:          s.store.PublicURL(objectKey),
		ContentType:  contentType,
		SizeBytes:    size,
		BaseModel:    models.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		// Best effort: do not leave an orphaned object behind the failed row.
		if rmErr := s.store.Remove(ctx, objectKey); rmErr != nil {
			configslog.Log.Warn("orphaned media object left in bucket", zap.String("objectKey", objectKey), zap.Error(rmErr))
		}
		return nil, err
	}
	return asset, nil
}

// Delete removes the asset row and its stored object.
func (s *MediaService) Delete(ctx context.Context, mediaID uuid.UUID, userID uint) error {
	asset, err := s.repo.FindByMediaID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMediaNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, asset, userID); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, asset.ObjectKey); err != nil {
		configslog.Log.Warn("media object removal failed", zap.String("objectKey", asset.ObjectKey), zap.Error(err))
	}
	return nil
}

// ListByInvitation returns one invitation's uploads, newest first.
func (s *MediaService) ListByInvitation(ctx context.Context, invitationID uint) ([]models.MediaAsset, error) {
	return s.repo.FindAllByInvitation(ctx, invitationID)
}

var _ IMediaService = (*MediaService)(nil)
