package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/models"
	"loventy.org/services"
)

// LinkHandler serves the public invitation pages under /i/<key>. The key is
// either the invitation's own key or one guest's personal link key; a
// personal key renders the same page with the guest's name woven in.
type LinkHandler struct {
	invitationService services.IInvitationService
	guestService      services.IGuestService
	eventService      services.IEventService
	quizService       services.IQuizService
	wallService       services.ISocialWallService
	catalog           *design.Catalog
}

// NewLinkHandler builds the handler.
func NewLinkHandler(
	invitationService services.IInvitationService,
	guestService services.IGuestService,
	eventService services.IEventService,
	quizService services.IQuizService,
	wallService services.ISocialWallService,
	catalog *design.Catalog,
) *LinkHandler {
	return &LinkHandler{
		invitationService: invitationService,
		guestService:      guestService,
		eventService:      eventService,
		quizService:       quizService,
		wallService:       wallService,
		catalog:           catalog,
	}
}

// resolve finds the invitation behind a public key, and the guest when the
// key is a personal one.
func (h *LinkHandler) resolve(c *fiber.Ctx, key string) (*models.Invitation, *models.Guest, error) {
	ctx := c.UserContext()

	guest, err := h.guestService.GetByLinkKey(ctx, key)
	if err == nil {
		invitation, invErr := h.invitationService.GetPublicInvitationByID(ctx, guest.InvitationID)
		if invErr != nil {
			return nil, nil, invErr
		}
		return invitation, guest, nil
	}
	if !errors.Is(err, services.ErrGuestNotFound) {
		return nil, nil, err
	}

	invitation, err := h.invitationService.GetPublicInvitationByKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	// A direct invitation link can still be personalized with ?guest=<token>.
	if token := c.Query("guest"); token != "" {
		if g, gErr := h.guestService.GetByToken(ctx, token); gErr == nil && g.InvitationID == invitation.ID {
			guest = g
		}
	}
	return invitation, guest, nil
}

const unlockSessionPrefix = "unlocked:"

func sessionStore(c *fiber.Ctx) *session.Store {
	st, _ := c.Locals("session_store").(*session.Store)
	return st
}

func isUnlocked(c *fiber.Ctx, key string) bool {
	st := sessionStore(c)
	if st == nil {
		return false
	}
	sess, err := st.Get(c)
	if err != nil {
		return false
	}
	v, _ := sess.Get(unlockSessionPrefix + key).(bool)
	return v
}

func markUnlocked(c *fiber.Ctx, key string) {
	st := sessionStore(c)
	if st == nil {
		return
	}
	sess, err := st.Get(c)
	if err != nil {
		return
	}
	sess.Set(unlockSessionPrefix+key, true)
	_ = sess.Save()
}

// ShowInvitation renders the composed invitation page, behind the password
// gate when one is set.
func (h *LinkHandler) ShowInvitation(c *fiber.Ctx) error {
	key := c.Params("key")
	invitation, guest, err := h.resolve(c, key)
	if err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			return h.renderNotFound(c)
		}
		configslog.Log.Error("public invitation load failed", zap.String("key", key), zap.Error(err))
		return h.renderError(c)
	}

	if invitation.PasswordHash != "" && !isUnlocked(c, key) {
		return c.Render("public/password", fiber.Map{
			"Title": "Invitation protégée",
			"Key":   key,
		}, "layouts/public_layout")
	}

	return h.renderInvitation(c, invitation, guest)
}

// Unlock checks the visitor's password and remembers the unlock in session.
func (h *LinkHandler) Unlock(c *fiber.Ctx) error {
	key := c.Params("key")
	invitation, _, err := h.resolve(c, key)
	if err != nil {
		return h.renderNotFound(c)
	}

	if !h.invitationService.CheckPassword(invitation, c.FormValue("password")) {
		return c.Status(fiber.StatusUnauthorized).Render("public/password", fiber.Map{
			"Title": "Invitation protégée",
			"Key":   key,
			"Error": "Mot de passe incorrect.",
		}, "layouts/public_layout")
	}
	markUnlocked(c, key)
	return c.Redirect("/i/"+key, fiber.StatusSeeOther)
}

func (h *LinkHandler) renderInvitation(c *fiber.Ctx, invitation *models.Invitation, guest *models.Guest) error {
	ctx := c.UserContext()

	events, err := h.eventService.ListEvents(ctx, invitation.ID)
	if err != nil {
		events = nil
	}
	quiz, err := h.quizService.GetQuiz(ctx, invitation.ID)
	if err != nil {
		quiz = nil
	}
	var posts []models.SocialWallPost
	if invitation.Detail.SocialWallEnabled {
		posts, err = h.wallService.VisiblePosts(ctx, invitation.ID, invitation.Detail.SocialWallModerated)
		if err != nil {
			posts = nil
		}
	}

	settings := invitation.DesignSettings()
	sections := h.catalog.Compose(settings, design.PreviewInput{
		Detail: invitation.Detail,
		Events: events,
		Quiz:   quiz,
		Guest:  guest,
		Posts:  posts,
	})

	pager := design.NewPager(len(sections))
	if page := c.QueryInt("page", 0); page > 0 {
		pager = pager.JumpTo(page)
	}

	return c.Render("public/invitation", fiber.Map{
		"Title":    invitation.Detail.Title,
		"Detail":   invitation.Detail,
		"Guest":    guest,
		"Layout":   settings.Layout,
		"Sections": sections,
		"Pager":    pager,
		"Key":      c.Params("key"),
	}, "layouts/public_layout")
}

func (h *LinkHandler) renderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title": "Invitation introuvable",
	}, "layouts/error_layout")
}

func (h *LinkHandler) renderError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
		"Title": "Une erreur est survenue",
	}, "layouts/error_layout")
}
