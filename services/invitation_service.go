package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teris-io/shortid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/models"
	"loventy.org/pkg/queryparams"
	"loventy.org/repositories"
)

// InvitationServiceError is the typed error family of this service.
type InvitationServiceError string

func (e InvitationServiceError) Error() string { return string(e) }

const (
	ErrInvitationNotFound       InvitationServiceError = "invitation not found"
	ErrInvitationCreationFailed InvitationServiceError = "invitation could not be created"
	ErrInvitationUpdateFailed   InvitationServiceError = "invitation could not be updated"
	ErrInvitationDeletionFailed InvitationServiceError = "invitation could not be deleted"
	ErrInvitationForbidden      InvitationServiceError = "you are not allowed to do this"
	ErrInvInvalidInput          InvitationServiceError = "invalid invitation data"
	ErrCoupleNamesRequired      InvitationServiceError = "both partner names are required"
	ErrEventTimeRequired        InvitationServiceError = "the event date and time are required"
	ErrInvKeyGenerationFailed   InvitationServiceError = "invitation link key could not be generated"
	ErrPasswordHashingFailed    InvitationServiceError = "invitation password could not be hashed"
	ErrStatusTransitionDenied   InvitationServiceError = "this action is not available in the current status"
)

// IInvitationService is the invitation domain boundary.
type IInvitationService interface {
	CreateInvitation(ctx context.Context, ownerUserID uint, detail models.InvitationDetail, password string) (*models.Invitation, error)
	GetInvitationByID(ctx context.Context, id uint, requestingUserID uint) (*models.Invitation, error)
	GetPublicInvitationByKey(ctx context.Context, key string) (*models.Invitation, error)
	GetPublicInvitationByID(ctx context.Context, id uint) (*models.Invitation, error)
	GetInvitationsForOwner(ctx context.Context, ownerUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateInvitationDetail(ctx context.Context, id uint, updatingUserID uint, detail models.InvitationDetail) error
	Publish(ctx context.Context, id uint, userID uint) error
	MarkSent(ctx context.Context, id uint, userID uint) error
	Archive(ctx context.Context, id uint, userID uint) error
	DeleteInvitation(ctx context.Context, id uint, deletingUserID uint) error
	CheckPassword(invitation *models.Invitation, password string) bool
}

// InvitationService implements IInvitationService.
type InvitationService struct {
	repo    repositories.IInvitationRepository
	catalog *design.Catalog
	db      *gorm.DB
	saves   *SaveQueue
}

// NewInvitationService wires the service against the shared database.
func NewInvitationService(catalog *design.Catalog) IInvitationService {
	return &InvitationService{
		repo:    repositories.NewInvitationRepository(),
		catalog: catalog,
		db:      configsdatabase.GetDB(),
		saves:   NewSaveQueue(),
	}
}

// NewInvitationServiceWith injects the dependencies, for tests.
func NewInvitationServiceWith(repo repositories.IInvitationRepository, catalog *design.Catalog, db *gorm.DB) *InvitationService {
	return &InvitationService{repo: repo, catalog: catalog, db: db, saves: NewSaveQueue()}
}

// ValidateInvitationDetail checks the fields a draft cannot live without.
func ValidateInvitationDetail(detail models.InvitationDetail) error {
	if detail.PartnerOneName == "" || detail.PartnerTwoName == "" {
		return ErrCoupleNamesRequired
	}
	if detail.EventDateTime.IsZero() {
		return ErrEventTimeRequired
	}
	if detail.RSVPDeadline != nil && detail.RSVPDeadline.After(detail.EventDateTime) {
		return fmt.Errorf("%w: the RSVP deadline cannot be after the event", ErrInvInvalidInput)
	}
	if detail.MaxPlusOnes < 0 {
		return fmt.Errorf("%w: max plus-ones cannot be negative", ErrInvInvalidInput)
	}
	return nil
}

// CreateInvitation creates a draft invitation with a fresh short link key and
// the catalog's default design settings.
func (s *InvitationService) CreateInvitation(ctx context.Context, ownerUserID uint, detail models.InvitationDetail, password string) (*models.Invitation, error) {
	if err := ValidateInvitationDetail(detail); err != nil {
		return nil, err
	}
	if ownerUserID == 0 {
		return nil, fmt.Errorf("%w: missing owner", ErrInvInvalidInput)
	}

	key, err := shortid.Generate()
	if err != nil {
		configslog.Log.Error("invitation key generation failed", zap.Error(err))
		return nil, ErrInvKeyGenerationFailed
	}

	var passwordHash string
	if password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, ErrPasswordHashingFailed
		}
		passwordHash = string(hashed)
	}

	invitation := &models.Invitation{
		Key:          key,
		OwnerUserID:  ownerUserID,
		Status:       models.StatusDraft,
		IsEnabled:    true,
		PasswordHash: passwordHash,
		Detail:       detail,
	}
	invitation.SetDesignSettings(s.catalog.DefaultSettings())

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewInvitationRepositoryTx(tx)
		if err := repoTx.Create(ctx, invitation); err != nil {
			return ErrInvitationCreationFailed
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	configslog.SLog.Infof("invitation created: id=%d key=%s owner=%d", invitation.ID, invitation.Key, ownerUserID)
	return invitation, nil
}

// GetInvitationByID loads one invitation for its owner.
func (s *InvitationService) GetInvitationByID(ctx context.Context, id uint, requestingUserID uint) (*models.Invitation, error) {
	invitation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if invitation.OwnerUserID != requestingUserID {
		return nil, ErrInvitationForbidden
	}
	// Repair settings trees written before new sections existed.
	invitation.SetDesignSettings(s.catalog.Normalize(invitation.DesignSettings()))
	return invitation, nil
}

// GetPublicInvitationByKey loads the invitation behind a public /i/<key>
// URL. Disabled and archived invitations are indistinguishable from missing
// ones on purpose.
func (s *InvitationService) GetPublicInvitationByKey(ctx context.Context, key string) (*models.Invitation, error) {
	if key == "" {
		return nil, ErrInvitationNotFound
	}
	invitation, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if !invitation.IsEnabled || invitation.Status == models.StatusArchived || invitation.Status == models.StatusDraft {
		return nil, ErrInvitationNotFound
	}
	invitation.SetDesignSettings(s.catalog.Normalize(invitation.DesignSettings()))
	return invitation, nil
}

// GetPublicInvitationByID is the by-id variant used when a guest's personal
// link resolves to its invitation. Same visibility rules as the key lookup.
func (s *InvitationService) GetPublicInvitationByID(ctx context.Context, id uint) (*models.Invitation, error) {
	if id == 0 {
		return nil, ErrInvitationNotFound
	}
	invitation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if !invitation.IsEnabled || invitation.Status == models.StatusArchived || invitation.Status == models.StatusDraft {
		return nil, ErrInvitationNotFound
	}
	invitation.SetDesignSettings(s.catalog.Normalize(invitation.DesignSettings()))
	return invitation, nil
}

// GetInvitationsForOwner pages through one owner's invitations.
func (s *InvitationService) GetInvitationsForOwner(ctx context.Context, ownerUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if ownerUserID == 0 {
		return nil, fmt.Errorf("%w: missing owner", ErrInvInvalidInput)
	}
	params.Validate()

	invitations, totalCount, err := s.repo.FindAllByOwnerPaginated(ctx, ownerUserID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: invitations,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// UpdateInvitationDetail replaces the editable content. Saves are serialized
// per invitation through the save queue so an autosave racing a manual save
// cannot interleave two writes.
func (s *InvitationService) UpdateInvitationDetail(ctx context.Context, id uint, updatingUserID uint, detail models.InvitationDetail) error {
	if err := ValidateInvitationDetail(detail); err != nil {
		return err
	}
	if id == 0 || updatingUserID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvInvalidInput)
	}

	return s.saves.Run(id, func() error {
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			repoTx := repositories.NewInvitationRepositoryTx(tx)

			var existing models.Invitation
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Detail").First(&existing, id).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvitationNotFound
				}
				return err
			}
			if existing.OwnerUserID != updatingUserID {
				return ErrInvitationForbidden
			}

			updated := detail
			updated.BaseModel = existing.Detail.BaseModel
			updated.InvitationID = existing.ID
			updated.UpdatedBy = &updatingUserID
			if err := repoTx.UpdateDetail(ctx, &updated); err != nil {
				return ErrInvitationUpdateFailed
			}
			return nil
		})
		if txErr != nil {
			configslog.Log.Error("UpdateInvitationDetail failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	})
}

// transitionStatus applies one gated status move.
func (s *InvitationService) transitionStatus(ctx context.Context, id, userID uint, to models.InvitationStatus, allowed func(models.InvitationStatus) bool) error {
	if id == 0 || userID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvInvalidInput)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewInvitationRepositoryTx(tx)

		var existing models.Invitation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if existing.OwnerUserID != userID {
			return ErrInvitationForbidden
		}
		if !allowed(existing.Status) {
			return ErrStatusTransitionDenied
		}
		existing.Status = to
		existing.UpdatedBy = &userID
		if err := repoTx.Update(ctx, &existing); err != nil {
			return ErrInvitationUpdateFailed
		}
		configslog.SLog.Infof("invitation %d moved to %s by user %d", id, to, userID)
		return nil
	})
}

// Publish moves a draft to published.
func (s *InvitationService) Publish(ctx context.Context, id uint, userID uint) error {
	return s.transitionStatus(ctx, id, userID, models.StatusPublished, models.InvitationStatus.CanPublish)
}

// MarkSent records that guest emails went out.
func (s *InvitationService) MarkSent(ctx context.Context, id uint, userID uint) error {
	return s.transitionStatus(ctx, id, userID, models.StatusSent, models.InvitationStatus.CanSend)
}

// Archive retires an invitation from the public site.
func (s *InvitationService) Archive(ctx context.Context, id uint, userID uint) error {
	return s.transitionStatus(ctx, id, userID, models.StatusArchived, func(from models.InvitationStatus) bool {
		return from != models.StatusArchived
	})
}

// DeleteInvitation soft-deletes the invitation after an ownership check.
func (s *InvitationService) DeleteInvitation(ctx context.Context, id uint, deletingUserID uint) error {
	if id == 0 || deletingUserID == 0 {
		return fmt.Errorf("%w: missing id", ErrInvInvalidInput)
	}
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repoTx := repositories.NewInvitationRepositoryTx(tx)

		var existing models.Invitation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if existing.OwnerUserID != deletingUserID {
			return ErrInvitationForbidden
		}
		if err := repoTx.Delete(ctx, &existing, deletingUserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return ErrInvitationDeletionFailed
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteInvitation failed", zap.Uint("id", id), zap.Error(txErr))
		return txErr
	}
	configslog.SLog.Infof("invitation deleted: id=%d by user %d", id, deletingUserID)
	return nil
}

// CheckPassword verifies a visitor's password against a protected
// invitation. Unprotected invitations always pass.
func (s *InvitationService) CheckPassword(invitation *models.Invitation, password string) bool {
	if invitation.PasswordHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(invitation.PasswordHash), []byte(password)) == nil
}

var _ IInvitationService = (*InvitationService)(nil)
