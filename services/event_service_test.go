package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
	"loventy.org/repositories"
)

// fakeEventRepo is an in-memory IEventRepository.
type fakeEventRepo struct {
	nextID uint
	events map[uint]models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: make(map[uint]models.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	event.ID = r.nextID
	r.nextID++
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uint) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEventRepo) FindAllByInvitation(_ context.Context, invitationID uint) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if e.InvitationID == invitationID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) UpdateDisplayOrders(_ context.Context, a, b *models.Event) error {
	for _, e := range []*models.Event{a, b} {
		stored, ok := r.events[e.ID]
		if !ok {
			return repositories.ErrNotFound
		}
		stored.DisplayOrder = e.DisplayOrder
		r.events[e.ID] = stored
	}
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, event *models.Event, _ uint) error {
	if _, ok := r.events[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.events, event.ID)
	return nil
}

func (r *fakeEventRepo) MaxDisplayOrder(_ context.Context, invitationID uint) (int, error) {
	max := 0
	for _, e := range r.events {
		if e.InvitationID == invitationID && e.DisplayOrder > max {
			max = e.DisplayOrder
		}
	}
	return max, nil
}

var _ repositories.IEventRepository = (*fakeEventRepo)(nil)

func seedProgram(t *testing.T, svc *EventService, titles ...string) []models.Event {
	t.Helper()
	ctx := context.Background()
	out := make([]models.Event, 0, len(titles))
	for _, title := range titles {
		e, err := svc.AddEvent(ctx, 7, 1, models.Event{Title: title, Type: models.EventCeremony})
		require.NoError(t, err)
		out = append(out, *e)
	}
	return out
}

func programTitles(t *testing.T, svc *EventService) []string {
	t.Helper()
	events, err := svc.ListEvents(context.Background(), 7)
	require.NoError(t, err)
	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	return titles
}

func TestAddEventAppendsAtEndOfOrder(t *testing.T) {
	svc := NewEventServiceWith(newFakeEventRepo(), nil)
	events := seedProgram(t, svc, "Cérémonie", "Cocktail", "Dîner")

	assert.Equal(t, 1, events[0].DisplayOrder)
	assert.Equal(t, 2, events[1].DisplayOrder)
	assert.Equal(t, 3, events[2].DisplayOrder)
}

func TestAddEventValidation(t *testing.T) {
	svc := NewEventServiceWith(newFakeEventRepo(), nil)
	ctx := context.Background()

	_, err := svc.AddEvent(ctx, 7, 1, models.Event{Type: models.EventCeremony})
	assert.ErrorIs(t, err, ErrEventTitleRequired)

	_, err = svc.AddEvent(ctx, 7, 1, models.Event{Title: "Brunch", Type: "afterparty"})
	assert.ErrorIs(t, err, ErrEventBadType)

	_, err = svc.AddEvent(ctx, 0, 1, models.Event{Title: "Brunch"})
	assert.ErrorIs(t, err, ErrEventInvalidInput)

	// an empty type defaults to other
	e, err := svc.AddEvent(ctx, 7, 1, models.Event{Title: "Brunch"})
	require.NoError(t, err)
	assert.Equal(t, models.EventOther, e.Type)
}

func TestReorderEventSwapsAdjacent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventServiceWith(repo, nil)
	events := seedProgram(t, svc, "Cérémonie", "Cocktail", "Dîner")

	require.NoError(t, svc.ReorderEvent(context.Background(), events[2].ID, 1, ReorderUp))
	assert.Equal(t, []string{"Cérémonie", "Dîner", "Cocktail"}, programTitles(t, svc))

	// the first entry never moved
	first, err := repo.FindByID(context.Background(), events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DisplayOrder)
}

func TestReorderEventEdgesAreNoOps(t *testing.T) {
	svc := NewEventServiceWith(newFakeEventRepo(), nil)
	events := seedProgram(t, svc, "Cérémonie", "Cocktail")

	require.NoError(t, svc.ReorderEvent(context.Background(), events[0].ID, 1, ReorderUp))
	assert.Equal(t, []string{"Cérémonie", "Cocktail"}, programTitles(t, svc))

	require.NoError(t, svc.ReorderEvent(context.Background(), events[1].ID, 1, ReorderDown))
	assert.Equal(t, []string{"Cérémonie", "Cocktail"}, programTitles(t, svc))
}

func TestReorderEventBadDirection(t *testing.T) {
	svc := NewEventServiceWith(newFakeEventRepo(), nil)
	events := seedProgram(t, svc, "Cérémonie")

	err := svc.ReorderEvent(context.Background(), events[0].ID, 1, ReorderDirection("sideways"))
	assert.ErrorIs(t, err, ErrEventInvalidInput)
}

func TestUpdateEventKeepsDisplayOrder(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventServiceWith(repo, nil)
	events := seedProgram(t, svc, "Cérémonie", "Cocktail")

	err := svc.UpdateEvent(context.Background(), events[1].ID, 1, models.Event{
		Title:        "Vin d'honneur",
		Type:         models.EventCocktail,
		DisplayOrder: 99, // must be ignored
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), events[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Vin d'honneur", stored.Title)
	assert.Equal(t, 2, stored.DisplayOrder)
}

func TestDeleteEventLeavesGaps(t *testing.T) {
	svc := NewEventServiceWith(newFakeEventRepo(), nil)
	events := seedProgram(t, svc, "Cérémonie", "Cocktail", "Dîner")

	require.NoError(t, svc.DeleteEvent(context.Background(), events[1].ID, 1))
	remaining, err := svc.ListEvents(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].DisplayOrder)
	assert.Equal(t, 3, remaining[1].DisplayOrder)

	err = svc.DeleteEvent(context.Background(), events[1].ID, 1)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
