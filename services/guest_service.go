package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/repositories"
)

// GuestServiceError is the typed error family of this service.
type GuestServiceError string

func (e GuestServiceError) Error() string { return string(e) }

const (
	ErrGuestNotFound      GuestServiceError = "guest not found"
	ErrGuestNameRequired  GuestServiceError = "the guest needs a name"
	ErrGuestInvalidInput  GuestServiceError = "invalid guest data"
	ErrGuestBadStatus     GuestServiceError = "unknown RSVP status"
	ErrImportEmpty        GuestServiceError = "the import file has no guest rows"
	ErrImportMissingName  GuestServiceError = "the import file needs a name column"
)

// GuestStats is the aggregate card above the guest list, computed by one
// linear scan over the collection.
type GuestStats struct {
	Total            int                        `json:"total"`
	Confirmed        int                        `json:"confirmed"`
	Pending          int                        `json:"pending"`
	Declined         int                        `json:"declined"`
	ConfirmationRate float64                    `json:"confirmation_rate"`
	BySide           map[models.GuestSide]int   `json:"by_side"`
}

// GuestFilter narrows the list screen.
type GuestFilter struct {
	Search string
	Status models.RSVPStatus
	Side   models.GuestSide
}

// ImportedGuest is one parsed CSV row.
type ImportedGuest struct {
	Name      string
	Email     string
	TableName string
	Side      models.GuestSide
}

// Mailer is the email delivery collaborator. Delivery itself is outside this
// codebase; the default implementation only logs.
type Mailer interface {
	SendInvitation(ctx context.Context, guest models.Guest, message string) error
}

// LogMailer is the default Mailer: it records the send without delivering.
type LogMailer struct{}

// SendInvitation logs the outgoing message.
func (LogMailer) SendInvitation(_ context.Context, guest models.Guest, _ string) error {
	configslog.SLog.Infof("invitation email queued for %s <%s>", guest.Name, guest.Email)
	return nil
}

// IGuestService manages the guest collection of one invitation.
type IGuestService interface {
	AddGuest(ctx context.Context, invitationID, userID uint, guest models.Guest) (*models.Guest, error)
	UpdateGuest(ctx context.Context, guestID, userID uint, guest models.Guest) error
	SetRSVPStatus(ctx context.Context, guestID uint, reply RSVPReply) error
	ListGuests(ctx context.Context, invitationID uint, filter GuestFilter) ([]models.Guest, error)
	Stats(ctx context.Context, invitationID uint) (GuestStats, error)
	DeleteGuests(ctx context.Context, invitationID, userID uint, guestIDs []uint) (int64, error)
	ImportCSV(ctx context.Context, invitationID, userID uint, r io.Reader) ([]models.Guest, error)
	PersonalMessage(guest models.Guest, detail models.InvitationDetail) string
	SendInvitations(ctx context.Context, invitationID, userID uint, guestIDs []uint, detail models.InvitationDetail) (int, error)
	GetByLinkKey(ctx context.Context, key string) (*models.Guest, error)
	GetByToken(ctx context.Context, token string) (*models.Guest, error)
}

// GuestService implements IGuestService.
type GuestService struct {
	repo    repositories.IGuestRepository
	mailer  Mailer
	baseURL string
}

// NewGuestService wires the service against the shared database.
func NewGuestService(baseURL string, mailer Mailer) IGuestService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &GuestService{repo: repositories.NewGuestRepository(), mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewGuestServiceWith injects the dependencies, for tests.
func NewGuestServiceWith(repo repositories.IGuestRepository, mailer Mailer, baseURL string) *GuestService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &GuestService{repo: repo, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

// newGuestIdentifiers mints the per-guest short link key and opaque token.
func newGuestIdentifiers() (string, uuid.UUID, error) {
	key, err := shortid.Generate()
	if err != nil {
		return "", uuid.Nil, err
	}
	return key, uuid.New(), nil
}

// AddGuest creates one guest with fresh identifiers.
func (s *GuestService) AddGuest(ctx context.Context, invitationID, userID uint, guest models.Guest) (*models.Guest, error) {
	if invitationID == 0 {
		return nil, fmt.Errorf("%w: missing invitation", ErrGuestInvalidInput)
	}
	if strings.TrimSpace(guest.Name) == "" {
		return nil, ErrGuestNameRequired
	}

	key, token, err := newGuestIdentifiers()
	if err != nil {
		configslog.Log.Error("guest identifier generation failed", zap.Error(err))
		return nil, err
	}
	guest.InvitationID = invitationID
	guest.LinkKey = key
	guest.Token = token
	guest.Status = models.RSVPPending
	if guest.Side == "" {
		guest.Side = models.SideBoth
	}
	guest.CreatedBy = &userID

	if err := s.repo.Create(ctx, &guest); err != nil {
		configslog.Log.Error("AddGuest failed", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return &guest, nil
}

// UpdateGuest replaces the editable identity/seating fields. RSVP fields
// move through SetRSVPStatus.
func (s *GuestService) UpdateGuest(ctx context.Context, guestID, userID uint, guest models.Guest) error {
	if strings.TrimSpace(guest.Name) == "" {
		return ErrGuestNameRequired
	}
	existing, err := s.repo.FindByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuestNotFound
		}
		return err
	}
	existing.Name = guest.Name
	existing.Email = guest.Email
	existing.Phone = guest.Phone
	existing.Side = guest.Side
	existing.TableName = guest.TableName
	existing.PlusOneNames = guest.PlusOneNames
	existing.DietaryRestrictions = guest.DietaryRestrictions
	existing.UpdatedBy = &userID
	return s.repo.Update(ctx, existing)
}

// RSVPReply is what a guest submits from the public page.
type RSVPReply struct {
	Status              models.RSVPStatus
	PlusOnes            int
	PlusOneNames        string
	DietaryRestrictions string
	Message             string
}

// SetRSVPStatus records a reply. Transitions are deliberately free-form: a
// guest may flip between confirmed and declined at any time, and the RSVP
// deadline is never enforced here.
func (s *GuestService) SetRSVPStatus(ctx context.Context, guestID uint, reply RSVPReply) error {
	if !models.ValidRSVPStatus(reply.Status) {
		return ErrGuestBadStatus
	}
	if reply.PlusOnes < 0 {
		return fmt.Errorf("%w: negative plus-ones", ErrGuestInvalidInput)
	}
	existing, err := s.repo.FindByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrGuestNotFound
		}
		return err
	}
	now := time.Now().UTC()
	existing.Status = reply.Status
	existing.PlusOnes = reply.PlusOnes
	existing.PlusOneNames = reply.PlusOneNames
	existing.DietaryRestrictions = reply.DietaryRestrictions
	existing.Message = reply.Message
	existing.RespondedAt = &now
	return s.repo.Update(ctx, existing)
}

// ListGuests returns the filtered collection. Search matches name or email,
// case-insensitively.
func (s *GuestService) ListGuests(ctx context.Context, invitationID uint, filter GuestFilter) ([]models.Guest, error) {
	guests, err := s.repo.FindAllByInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if filter.Search == "" && filter.Status == "" && filter.Side == "" {
		return guests, nil
	}
	needle := strings.ToLower(filter.Search)
	out := guests[:0]
	for _, g := range guests {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.Side != "" && g.Side != filter.Side {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(g.Name), needle) &&
			!strings.Contains(strings.ToLower(g.Email), needle) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// Stats aggregates the collection in one pass.
func (s *GuestService) Stats(ctx context.Context, invitationID uint) (GuestStats, error) {
	guests, err := s.repo.FindAllByInvitation(ctx, invitationID)
	if err != nil {
		return GuestStats{}, err
	}
	stats := GuestStats{BySide: make(map[models.GuestSide]int)}
	for _, g := range guests {
		stats.Total++
		switch g.Status {
		case models.RSVPConfirmed:
			stats.Confirmed++
		case models.RSVPDeclined:
			stats.Declined++
		default:
			stats.Pending++
		}
		stats.BySide[g.Side]++
	}
	if stats.Total > 0 {
		stats.ConfirmationRate = float64(stats.Confirmed) / float64(stats.Total) * 100
	}
	return stats, nil
}

// DeleteGuests removes the current selection and reports how many rows went.
func (s *GuestService) DeleteGuests(ctx context.Context, invitationID, userID uint, guestIDs []uint) (int64, error) {
	return s.repo.DeleteByIDs(ctx, invitationID, guestIDs, userID)
}

// csvColumn finds a header column under any of the given names.
func csvColumn(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// ParseGuestCSV reads the unified import schema: a required name column
// (accepted under "name" or "nom") plus optional email, table_name and side
// columns. The two import entry points of the editor share this parser.
func ParseGuestCSV(r io.Reader) ([]ImportedGuest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrImportEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrGuestInvalidInput, err)
	}

	nameCol := csvColumn(header, "name", "nom")
	if nameCol < 0 {
		return nil, ErrImportMissingName
	}
	emailCol := csvColumn(header, "email", "e-mail")
	tableCol := csvColumn(header, "table_name", "table")
	sideCol := csvColumn(header, "side", "cote", "côté")

	var rows []ImportedGuest
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGuestInvalidInput, err)
		}
		pick := func(col int) string {
			if col < 0 || col >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[col])
		}
		name := pick(nameCol)
		if name == "" {
			continue
		}
		side := models.GuestSide(pick(sideCol))
		if side != models.SidePartnerOne && side != models.SidePartnerTwo {
			side = models.SideBoth
		}
		rows = append(rows, ImportedGuest{
			Name:      name,
			Email:     pick(emailCol),
			TableName: pick(tableCol),
			Side:      side,
		})
	}
	if len(rows) == 0 {
		return nil, ErrImportEmpty
	}
	return rows, nil
}

// ImportCSV parses the file and creates one guest per row, each with a
// distinct generated link key and token.
func (s *GuestService) ImportCSV(ctx context.Context, invitationID, userID uint, r io.Reader) ([]models.Guest, error) {
	if invitationID == 0 {
		return nil, fmt.Errorf("%w: missing invitation", ErrGuestInvalidInput)
	}
	rows, err := ParseGuestCSV(r)
	if err != nil {
		return nil, err
	}

	guests := make([]models.Guest, 0, len(rows))
	for _, row := range rows {
		key, token, err := newGuestIdentifiers()
		if err != nil {
			configslog.Log.Error("guest identifier generation failed during import", zap.Error(err))
			return nil, err
		}
		guests = append(guests, models.Guest{
			InvitationID: invitationID,
			LinkKey:      key,
			Token:        token,
			Name:         row.Name,
			Email:        row.Email,
			TableName:    row.TableName,
			Side:         row.Side,
			Status:       models.RSVPPending,
			BaseModel:    models.BaseModel{CreatedBy: &userID},
		})
	}

	if err := s.repo.CreateBatch(ctx, guests); err != nil {
		configslog.Log.Error("guest import failed", zap.Uint("invitationID", invitationID), zap.Int("rows", len(guests)), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("imported %d guests into invitation %d", len(guests), invitationID)
	return guests, nil
}

// PersonalMessage renders the templated invitation message for one guest:
// the business copy is French and carries the guest's name and the full
// personal link.
func (s *GuestService) PersonalMessage(guest models.Guest, detail models.InvitationDetail) string {
	link := s.baseURL + guest.InvitationPath()
	date := ""
	if !detail.EventDateTime.IsZero() {
		date = detail.EventDateTime.Format("02/01/2006")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Cher/Chère %s,\n\n", guest.Name)
	fmt.Fprintf(&b, "%s et %s ont le plaisir de vous inviter à leur mariage", detail.PartnerOneName, detail.PartnerTwoName)
	if date != "" {
		fmt.Fprintf(&b, " le %s", date)
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Découvrez votre invitation personnelle et confirmez votre présence ici : %s\n\n", link)
	b.WriteString("Avec tout notre amour,\nLes futurs mariés")
	return b.String()
}

// SendInvitations delivers the personal message to every selected guest
// that has an email address, a few at a time, and stamps EmailSentAt. The
// returned count is how many sends succeeded.
func (s *GuestService) SendInvitations(ctx context.Context, invitationID, userID uint, guestIDs []uint, detail models.InvitationDetail) (int, error) {
	guests, err := s.repo.FindAllByInvitation(ctx, invitationID)
	if err != nil {
		return 0, err
	}
	selected := make(map[uint]bool, len(guestIDs))
	for _, id := range guestIDs {
		selected[id] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	sent := make(chan uint, len(guests))

	for i := range guests {
		guest := guests[i]
		if !selected[guest.ID] || guest.Email == "" {
			continue
		}
		g.Go(func() error {
			if err := s.mailer.SendInvitation(gctx, guest, s.PersonalMessage(guest, detail)); err != nil {
				configslog.Log.Warn("invitation email failed", zap.Uint("guestID", guest.ID), zap.Error(err))
				return nil // one failed send must not cancel the batch
			}
			sent <- guest.ID
			return nil
		})
	}
	_ = g.Wait()
	close(sent)

	count := 0
	now := time.Now().UTC()
	for id := range sent {
		count++
		for i := range guests {
			if guests[i].ID == id {
				guests[i].EmailSentAt = &now
				guests[i].UpdatedBy = &userID
				if err := s.repo.Update(ctx, &guests[i]); err != nil {
					configslog.Log.Warn("EmailSentAt update failed", zap.Uint("guestID", id), zap.Error(err))
				}
				break
			}
		}
	}
	return count, nil
}

// GetByLinkKey resolves a personal /i/<key> link.
func (s *GuestService) GetByLinkKey(ctx context.Context, key string) (*models.Guest, error) {
	guest, err := s.repo.FindByLinkKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return guest, nil
}

// GetByToken resolves a ?guest=<token> preview parameter.
func (s *GuestService) GetByToken(ctx context.Context, token string) (*models.Guest, error) {
	guest, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return guest, nil
}

var _ IGuestService = (*GuestService)(nil)
