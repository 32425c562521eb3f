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

// IEventRepository is the program-event persistence boundary.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateDisplayOrders(ctx context.Context, a, b *models.Event) error
	Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error
	MaxDisplayOrder(ctx context.Context, invitationID uint) (int, error)
}

// EventRepository implements IEventRepository on GORM.
type EventRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Event]
}

// NewEventRepository builds a repository on the shared connection.
func NewEventRepository() IEventRepository {
	return NewEventRepositoryTx(configsdatabase.GetDB())
}

// NewEventRepositoryTx binds the repository to an open transaction.
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return &EventRepository{db: tx, base: NewBaseRepository[models.Event](tx)}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create inserts one program entry.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.InvitationID == 0 {
		return errors.New("event without an invitation cannot be created")
	}
	return r.getDB(ctx).Create(event).Error
}

// FindByID loads one program entry.
func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	return r.base.FindByID(ctx, id)
}

// FindAllByInvitation returns the program ordered by display_order.
func (r *EventRepository) FindAllByInvitation(ctx context.Context, invitationID uint) ([]models.Event, error) {
	if invitationID == 0 {
		return nil, errors.New("invalid invitation id")
	}
	var events []models.Event
	err := r.getDB(ctx).
		Where("invitation_id = ?", invitationID).
		Order("display_order asc").
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindAllByInvitation: db error", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// Update saves all event fields.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return errors.New("invalid event for update")
	}
	return r.getDB(ctx).Save(event).Error
}

// UpdateDisplayOrders persists an adjacent swap: exactly the two given rows
// change, nothing else.
func (r *EventRepository) UpdateDisplayOrders(ctx context.Context, a, b *models.Event) error {
	if a == nil || b == nil {
		return errors.New("both events of a swap must be set")
	}
	db := r.getDB(ctx)
	if err := db.Model(a).Update("display_order", a.DisplayOrder).Error; err != nil {
		return err
	}
	return db.Model(b).Update("display_order", b.DisplayOrder).Error
}

// Delete soft-deletes one program entry.
func (r *EventRepository) Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error {
	if event == nil || event.ID == 0 {
		return errors.New("invalid event for delete")
	}
	result := r.getDB(ctx).Model(event).
		Where("id = ? AND deleted_at IS NULL", event.ID).
		Updates(map[string]interface{}{"deleted_at": gorm.Expr("NOW()"), "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxDisplayOrder returns the highest display_order of one invitation's
// program, 0 when the program is empty.
func (r *EventRepository) MaxDisplayOrder(ctx context.Context, invitationID uint) (int, error) {
	var max *int
	err := r.getDB(ctx).Model(&models.Event{}).
		Where("invitation_id = ?", invitationID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

var _ IEventRepository = (*EventRepository)(nil)
