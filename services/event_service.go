package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/repositories"
)

// EventServiceError is the typed error family of this service.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound      EventServiceError = "program entry not found"
	ErrEventInvalidInput  EventServiceError = "invalid program entry"
	ErrEventTitleRequired EventServiceError = "the program entry needs a title"
	ErrEventBadType       EventServiceError = "unknown program entry type"
)

// ReorderDirection moves a list item one step.
type ReorderDirection string

const (
	ReorderUp   ReorderDirection = "up"
	ReorderDown ReorderDirection = "down"
)

// IEventService manages the wedding program of one invitation.
type IEventService interface {
	AddEvent(ctx context.Context, invitationID, userID uint, event models.Event) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID, userID uint, event models.Event) error
	DeleteEvent(ctx context.Context, eventID, userID uint) error
	ListEvents(ctx context.Context, invitationID uint) ([]models.Event, error)
	ReorderEvent(ctx context.Context, eventID, userID uint, direction ReorderDirection) error
}

// EventService implements IEventService.
type EventService struct {
	repo repositories.IEventRepository
	db   *gorm.DB
}

// NewEventService wires the service against the shared database.
func NewEventService() IEventService {
	return &EventService{repo: repositories.NewEventRepository(), db: configsdatabase.GetDB()}
}

// NewEventServiceWith injects the dependencies, for tests.
func NewEventServiceWith(repo repositories.IEventRepository, db *gorm.DB) *EventService {
	return &EventService{repo: repo, db: db}
}

func validateEvent(event models.Event) error {
	if event.Title == "" {
		return ErrEventTitleRequired
	}
	if !models.ValidEventType(event.Type) {
		return ErrEventBadType
	}
	return nil
}

// AddEvent appends a program entry at the end of the display order.
func (s *EventService) AddEvent(ctx context.Context, invitationID, userID uint, event models.Event) (*models.Event, error) {
	if invitationID == 0 {
		return nil, fmt.Errorf("%w: missing invitation", ErrEventInvalidInput)
	}
	if event.Type == "" {
		event.Type = models.EventOther
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxDisplayOrder(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	event.InvitationID = invitationID
	event.DisplayOrder = maxOrder + 1
	event.CreatedBy = &userID

	if err := s.repo.Create(ctx, &event); err != nil {
		configslog.Log.Error("AddEvent failed", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// UpdateEvent replaces the editable fields of one entry; DisplayOrder is
// only ever changed through ReorderEvent.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, userID uint, event models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	existing.Type = event.Type
	existing.Title = event.Title
	existing.StartTime = event.StartTime
	existing.Location = event.Location
	existing.Address = event.Address
	existing.PlanBLocation = event.PlanBLocation
	existing.PlanBAddress = event.PlanBAddress
	existing.UpdatedBy = &userID

	return s.repo.Update(ctx, existing)
}

// DeleteEvent removes one entry. Remaining orders keep their values; gaps
// are harmless because ordering is relative.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID uint) error {
	existing, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, existing, userID)
}

// ListEvents returns the program in display order.
func (s *EventService) ListEvents(ctx context.Context, invitationID uint) ([]models.Event, error) {
	return s.repo.FindAllByInvitation(ctx, invitationID)
}

// ReorderEvent swaps the entry's display_order with its immediate neighbor.
// Moving the first entry up or the last entry down is a no-op, not an
// error, and no other entry's order ever changes.
func (s *EventService) ReorderEvent(ctx context.Context, eventID, userID uint, direction ReorderDirection) error {
	target, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	siblings, err := s.repo.FindAllByInvitation(ctx, target.InvitationID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range siblings {
		if siblings[i].ID == target.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEventNotFound
	}

	var neighborIdx int
	switch direction {
	case ReorderUp:
		if idx == 0 {
			return nil
		}
		neighborIdx = idx - 1
	case ReorderDown:
		if idx == len(siblings)-1 {
			return nil
		}
		neighborIdx = idx + 1
	default:
		return fmt.Errorf("%w: direction %q", ErrEventInvalidInput, direction)
	}

	a, b := siblings[idx], siblings[neighborIdx]
	a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
	a.UpdatedBy = &userID
	b.UpdatedBy = &userID

	return s.repo.UpdateDisplayOrders(ctx, &a, &b)
}

var _ IEventService = (*EventService)(nil)
