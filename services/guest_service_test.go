package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loventy.org/models"
	"loventy.org/repositories"
)

// fakeGuestRepo is an in-memory IGuestRepository.
type fakeGuestRepo struct {
	mu     sync.Mutex
	nextID uint
	guests map[uint]models.Guest
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{nextID: 1, guests: make(map[uint]models.Guest)}
}

func (r *fakeGuestRepo) Create(_ context.Context, guest *models.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	guest.ID = r.nextID
	r.nextID++
	r.guests[guest.ID] = *guest
	return nil
}

func (r *fakeGuestRepo) CreateBatch(ctx context.Context, guests []models.Guest) error {
	for i := range guests {
		if err := r.Create(ctx, &guests[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeGuestRepo) FindByID(_ context.Context, id uint) (*models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &g, nil
}

func (r *fakeGuestRepo) FindByLinkKey(_ context.Context, key string) (*models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.LinkKey == key {
			return &g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeGuestRepo) FindByToken(_ context.Context, token string) (*models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.Token.String() == token {
			return &g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeGuestRepo) FindAllByInvitation(_ context.Context, invitationID uint) ([]models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Guest
	for id := uint(1); id < r.nextID; id++ {
		if g, ok := r.guests[id]; ok && g.InvitationID == invitationID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGuestRepo) Update(_ context.Context, guest *models.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[guest.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.guests[guest.ID] = *guest
	return nil
}

func (r *fakeGuestRepo) DeleteByIDs(_ context.Context, invitationID uint, ids []uint, _ uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if g, ok := r.guests[id]; ok && g.InvitationID == invitationID {
			delete(r.guests, id)
			n++
		}
	}
	return n, nil
}

var _ repositories.IGuestRepository = (*fakeGuestRepo)(nil)

// recordingMailer captures sends; failFor lists guest IDs whose send errors.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []models.Guest
	failFor map[uint]bool
}

func (m *recordingMailer) SendInvitation(_ context.Context, guest models.Guest, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[guest.ID] {
		return assert.AnError
	}
	m.sent = append(m.sent, guest)
	return nil
}

func TestAddGuestMintsIdentifiers(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "https://loventy.org")

	guest, err := svc.AddGuest(context.Background(), 7, 1, models.Guest{Name: "Marie Dupont"})
	require.NoError(t, err)
	assert.NotEmpty(t, guest.LinkKey)
	assert.NotEmpty(t, guest.Token)
	assert.Equal(t, models.RSVPPending, guest.Status)
	assert.Equal(t, models.SideBoth, guest.Side)
	assert.Equal(t, uint(7), guest.InvitationID)
}

func TestAddGuestValidation(t *testing.T) {
	svc := NewGuestServiceWith(newFakeGuestRepo(), nil, "")

	_, err := svc.AddGuest(context.Background(), 7, 1, models.Guest{Name: "  "})
	assert.ErrorIs(t, err, ErrGuestNameRequired)

	_, err = svc.AddGuest(context.Background(), 0, 1, models.Guest{Name: "Marie"})
	assert.ErrorIs(t, err, ErrGuestInvalidInput)
}

func TestSetRSVPStatus(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")
	ctx := context.Background()

	guest, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Marie"})
	require.NoError(t, err)

	reply := RSVPReply{
		Status:              models.RSVPConfirmed,
		PlusOnes:            2,
		PlusOneNames:        "Paul, Léa",
		DietaryRestrictions: "végétarien",
		Message:             "On a hâte !",
	}
	require.NoError(t, svc.SetRSVPStatus(ctx, guest.ID, reply))

	stored, err := repo.FindByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPConfirmed, stored.Status)
	assert.Equal(t, 2, stored.PlusOnes)
	assert.Equal(t, "On a hâte !", stored.Message)
	require.NotNil(t, stored.RespondedAt)

	// replies are free-form: flipping to declined is allowed
	require.NoError(t, svc.SetRSVPStatus(ctx, guest.ID, RSVPReply{Status: models.RSVPDeclined}))
	stored, err = repo.FindByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPDeclined, stored.Status)
}

func TestSetRSVPStatusValidation(t *testing.T) {
	svc := NewGuestServiceWith(newFakeGuestRepo(), nil, "")
	ctx := context.Background()

	err := svc.SetRSVPStatus(ctx, 1, RSVPReply{Status: "maybe"})
	assert.ErrorIs(t, err, ErrGuestBadStatus)

	err = svc.SetRSVPStatus(ctx, 1, RSVPReply{Status: models.RSVPConfirmed, PlusOnes: -1})
	assert.ErrorIs(t, err, ErrGuestInvalidInput)

	err = svc.SetRSVPStatus(ctx, 99, RSVPReply{Status: models.RSVPConfirmed})
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestListGuestsFilter(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")
	ctx := context.Background()

	seed := []models.Guest{
		{Name: "Marie Dupont", Email: "marie@example.org", Side: models.SidePartnerOne},
		{Name: "Paul Martin", Email: "paul@example.org", Side: models.SidePartnerTwo},
		{Name: "Léa Bernard", Side: models.SidePartnerOne},
	}
	for _, g := range seed {
		_, err := svc.AddGuest(ctx, 7, 1, g)
		require.NoError(t, err)
	}
	confirmed, err := svc.ListGuests(ctx, 7, GuestFilter{})
	require.NoError(t, err)
	require.Len(t, confirmed, 3)
	require.NoError(t, svc.SetRSVPStatus(ctx, confirmed[0].ID, RSVPReply{Status: models.RSVPConfirmed}))

	bySide, err := svc.ListGuests(ctx, 7, GuestFilter{Side: models.SidePartnerOne})
	require.NoError(t, err)
	assert.Len(t, bySide, 2)

	byStatus, err := svc.ListGuests(ctx, 7, GuestFilter{Status: models.RSVPConfirmed})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	bySearch, err := svc.ListGuests(ctx, 7, GuestFilter{Search: "PAUL"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Paul Martin", bySearch[0].Name)
}

func TestStats(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")
	ctx := context.Background()

	for i, status := range []models.RSVPStatus{
		models.RSVPConfirmed, models.RSVPConfirmed, models.RSVPDeclined, models.RSVPPending,
	} {
		side := models.SidePartnerOne
		if i%2 == 1 {
			side = models.SidePartnerTwo
		}
		guest, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Invité", Side: side})
		require.NoError(t, err)
		if status != models.RSVPPending {
			require.NoError(t, svc.SetRSVPStatus(ctx, guest.ID, RSVPReply{Status: status}))
		}
	}

	stats, err := svc.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, 1, stats.Declined)
	assert.Equal(t, 1, stats.Pending)
	assert.InDelta(t, 50.0, stats.ConfirmationRate, 1e-9)
	assert.Equal(t, 2, stats.BySide[models.SidePartnerOne])
	assert.Equal(t, 2, stats.BySide[models.SidePartnerTwo])
}

func TestStatsEmptyCollection(t *testing.T) {
	svc := NewGuestServiceWith(newFakeGuestRepo(), nil, "")
	stats, err := svc.Stats(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ConfirmationRate)
}

func TestParseGuestCSV(t *testing.T) {
	in := strings.NewReader("name,email,table_name,side\n" +
		"Marie Dupont,marie@example.org,Table 1,partner_one\n" +
		"Paul Martin,,Table 2,partner_two\n" +
		",skipped@example.org,,\n" +
		"Léa Bernard,,,inconnue\n")
	rows, err := ParseGuestCSV(in)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ImportedGuest{Name: "Marie Dupont", Email: "marie@example.org", TableName: "Table 1", Side: models.SidePartnerOne}, rows[0])
	assert.Equal(t, models.SidePartnerTwo, rows[1].Side)
	// an unknown side falls back to both
	assert.Equal(t, models.SideBoth, rows[2].Side)
}

func TestParseGuestCSVFrenchHeaders(t *testing.T) {
	in := strings.NewReader("nom,e-mail,table,côté\nMarie,marie@example.org,Honneur,partner_one\n")
	rows, err := ParseGuestCSV(in)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Marie", rows[0].Name)
	assert.Equal(t, "Honneur", rows[0].TableName)
	assert.Equal(t, models.SidePartnerOne, rows[0].Side)
}

func TestParseGuestCSVErrors(t *testing.T) {
	_, err := ParseGuestCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrImportEmpty)

	_, err = ParseGuestCSV(strings.NewReader("email,side\nmarie@example.org,both\n"))
	assert.ErrorIs(t, err, ErrImportMissingName)

	_, err = ParseGuestCSV(strings.NewReader("name\n\n"))
	assert.ErrorIs(t, err, ErrImportEmpty)
}

func TestImportCSVCreatesDistinctIdentifiers(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")

	in := strings.NewReader("name\nMarie\nPaul\nLéa\n")
	guests, err := svc.ImportCSV(context.Background(), 7, 1, in)
	require.NoError(t, err)
	require.Len(t, guests, 3)

	keys := make(map[string]bool)
	tokens := make(map[string]bool)
	for _, g := range guests {
		assert.Equal(t, uint(7), g.InvitationID)
		assert.Equal(t, models.RSVPPending, g.Status)
		keys[g.LinkKey] = true
		tokens[g.Token.String()] = true
	}
	assert.Len(t, keys, 3)
	assert.Len(t, tokens, 3)
}

func TestPersonalMessage(t *testing.T) {
	svc := NewGuestServiceWith(newFakeGuestRepo(), nil, "https://loventy.org/")

	guest := models.Guest{Name: "Marie Dupont", LinkKey: "abc123"}
	detail := models.InvitationDetail{
		PartnerOneName: "Camille",
		PartnerTwoName: "Julien",
		EventDateTime:  mustDate(t, "2027-06-12"),
	}
	msg := svc.PersonalMessage(guest, detail)
	assert.Contains(t, msg, "Cher/Chère Marie Dupont,")
	assert.Contains(t, msg, "Camille et Julien")
	assert.Contains(t, msg, "le 12/06/2027")
	assert.Contains(t, msg, "https://loventy.org/i/abc123")
}

func TestSendInvitationsSkipsGuestsWithoutEmail(t *testing.T) {
	repo := newFakeGuestRepo()
	mailer := &recordingMailer{}
	svc := NewGuestServiceWith(repo, mailer, "https://loventy.org")
	ctx := context.Background()

	withEmail, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Marie", Email: "marie@example.org"})
	require.NoError(t, err)
	noEmail, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Paul"})
	require.NoError(t, err)

	count, err := svc.SendInvitations(ctx, 7, 1, []uint{withEmail.ID, noEmail.ID}, models.InvitationDetail{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.FindByID(ctx, withEmail.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.EmailSentAt)

	stored, err = repo.FindByID(ctx, noEmail.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EmailSentAt)
}

func TestSendInvitationsOneFailureDoesNotCancelBatch(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")
	ctx := context.Background()

	a, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Marie", Email: "marie@example.org"})
	require.NoError(t, err)
	b, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Paul", Email: "paul@example.org"})
	require.NoError(t, err)

	mailer := &recordingMailer{failFor: map[uint]bool{a.ID: true}}
	svc = NewGuestServiceWith(repo, mailer, "")

	count, err := svc.SendInvitations(ctx, 7, 1, []uint{a.ID, b.ID}, models.InvitationDetail{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EmailSentAt)
}

func TestDeleteGuests(t *testing.T) {
	repo := newFakeGuestRepo()
	svc := NewGuestServiceWith(repo, nil, "")
	ctx := context.Background()

	a, err := svc.AddGuest(ctx, 7, 1, models.Guest{Name: "Marie"})
	require.NoError(t, err)
	other, err := svc.AddGuest(ctx, 8, 1, models.Guest{Name: "Autre"})
	require.NoError(t, err)

	// the other invitation's guest is out of scope for invitation 7
	n, err := svc.DeleteGuests(ctx, 7, 1, []uint{a.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
