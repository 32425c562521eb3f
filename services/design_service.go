package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/models"
	"loventy.org/repositories"
)

// DesignServiceError is the typed error family of this service.
type DesignServiceError string

func (e DesignServiceError) Error() string { return string(e) }

const (
	ErrDesignNotFound     DesignServiceError = "invitation design not found"
	ErrDesignUpdateFailed DesignServiceError = "design settings could not be saved"
	ErrDesignForbidden    DesignServiceError = "you are not allowed to change this design"
)

// IDesignService mutates an invitation's design settings through the typed
// field setters and persists the full replacement tree.
type IDesignService interface {
	GetSettings(ctx context.Context, invitationID, userID uint) (models.DesignSettings, error)
	SetSectionField(ctx context.Context, invitationID, userID uint, section models.SectionKey, field design.SectionField, value any) (models.DesignSettings, error)
	SetGlobalField(ctx context.Context, invitationID, userID uint, field design.GlobalField, value any) (models.DesignSettings, error)
	ReplaceSettings(ctx context.Context, invitationID, userID uint, settings models.DesignSettings) error
}

// DesignService implements IDesignService.
type DesignService struct {
	repo    repositories.IInvitationRepository
	catalog *design.Catalog
	db      *gorm.DB
	saves   *SaveQueue
}

// NewDesignService wires the service against the shared database.
func NewDesignService(catalog *design.Catalog) IDesignService {
	return &DesignService{
		repo:    repositories.NewInvitationRepository(),
		catalog: catalog,
		db:      configsdatabase.GetDB(),
		saves:   NewSaveQueue(),
	}
}

// NewDesignServiceWith injects the dependencies, for tests.
func NewDesignServiceWith(repo repositories.IInvitationRepository, catalog *design.Catalog, db *gorm.DB) *DesignService {
	return &DesignService{repo: repo, catalog: catalog, db: db, saves: NewSaveQueue()}
}

func (s *DesignService) ownedInvitation(ctx context.Context, invitationID, userID uint) (*models.Invitation, error) {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}
	if invitation.OwnerUserID != userID {
		return nil, ErrDesignForbidden
	}
	return invitation, nil
}

// GetSettings returns the normalized settings tree.
func (s *DesignService) GetSettings(ctx context.Context, invitationID, userID uint) (models.DesignSettings, error) {
	invitation, err := s.ownedInvitation(ctx, invitationID, userID)
	if err != nil {
		return models.DesignSettings{}, err
	}
	return s.catalog.Normalize(invitation.DesignSettings()), nil
}

// SetSectionField applies one typed per-section change and saves the whole
// tree, returning the replacement settings the caller should now hold.
func (s *DesignService) SetSectionField(ctx context.Context, invitationID, userID uint, section models.SectionKey, field design.SectionField, value any) (models.DesignSettings, error) {
	invitation, err := s.ownedInvitation(ctx, invitationID, userID)
	if err != nil {
		return models.DesignSettings{}, err
	}
	settings := s.catalog.Normalize(invitation.DesignSettings())
	updated, err := design.ApplySectionField(settings, section, field, value)
	if err != nil {
		return models.DesignSettings{}, fmt.Errorf("%w: %v", ErrDesignUpdateFailed, err)
	}
	if err := s.persist(ctx, invitationID, updated); err != nil {
		return models.DesignSettings{}, err
	}
	return updated, nil
}

// SetGlobalField applies one typed top-level change and saves the tree.
func (s *DesignService) SetGlobalField(ctx context.Context, invitationID, userID uint, field design.GlobalField, value any) (models.DesignSettings, error) {
	invitation, err := s.ownedInvitation(ctx, invitationID, userID)
	if err != nil {
		return models.DesignSettings{}, err
	}
	settings := s.catalog.Normalize(invitation.DesignSettings())
	updated, err := design.ApplyGlobalField(settings, field, value)
	if err != nil {
		return models.DesignSettings{}, fmt.Errorf("%w: %v", ErrDesignUpdateFailed, err)
	}
	if err := s.persist(ctx, invitationID, updated); err != nil {
		return models.DesignSettings{}, err
	}
	return updated, nil
}

// ReplaceSettings stores a caller-provided complete tree, normalized first.
// Used by the theme picker which swaps palette, font and section styles in
// one step.
func (s *DesignService) ReplaceSettings(ctx context.Context, invitationID, userID uint, settings models.DesignSettings) error {
	if _, err := s.ownedInvitation(ctx, invitationID, userID); err != nil {
		return err
	}
	return s.persist(ctx, invitationID, s.catalog.Normalize(settings))
}

// persist writes the settings through the per-invitation save queue.
func (s *DesignService) persist(ctx context.Context, invitationID uint, settings models.DesignSettings) error {
	return s.saves.Run(invitationID, func() error {
		if err := s.repo.UpdateDesign(ctx, invitationID, settings); err != nil {
			configslog.Log.Error("design settings save failed", zap.Uint("invitationID", invitationID), zap.Error(err))
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDesignNotFound
			}
			return ErrDesignUpdateFailed
		}
		return nil
	})
}

var _ IDesignService = (*DesignService)(nil)
