package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/design"
	"loventy.org/models"
	"loventy.org/pkg/renderer"
	"loventy.org/services"
)

// PanelDesignHandler serves the design editor: a JSON API the editor UI
// calls on every control change, plus the HTML preview pane.
type PanelDesignHandler struct {
	designService     services.IDesignService
	invitationService services.IInvitationService
	eventService      services.IEventService
	quizService       services.IQuizService
	wallService       services.ISocialWallService
	catalog           *design.Catalog
}

// NewPanelDesignHandler builds the handler.
func NewPanelDesignHandler(
	designService services.IDesignService,
	invitationService services.IInvitationService,
	eventService services.IEventService,
	quizService services.IQuizService,
	wallService services.ISocialWallService,
	catalog *design.Catalog,
) *PanelDesignHandler {
	return &PanelDesignHandler{
		designService:     designService,
		invitationService: invitationService,
		eventService:      eventService,
		quizService:       quizService,
		wallService:       wallService,
		catalog:           catalog,
	}
}

func designErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrDesignNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDesignForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrDesignUpdateFailed):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// GetSettings returns the full normalized settings tree.
func (h *PanelDesignHandler) GetSettings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	settings, err := h.designService.GetSettings(c.UserContext(), uint(id), userID)
	if err != nil {
		return c.Status(designErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

type sectionFieldRequest struct {
	Section models.SectionKey   `json:"section"`
	Field   design.SectionField `json:"field"`
	Value   any                 `json:"value"`
}

// SetSectionField applies one per-section change and returns the replacement
// tree; the editor swaps its whole local copy for it.
func (h *PanelDesignHandler) SetSectionField(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	var req sectionFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requête invalide"})
	}

	settings, err := h.designService.SetSectionField(c.UserContext(), uint(id), userID, req.Section, req.Field, req.Value)
	if err != nil {
		return c.Status(designErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

type globalFieldRequest struct {
	Field design.GlobalField `json:"field"`
	Value any                `json:"value"`
}

// SetGlobalField applies one top-level change and returns the replacement
// tree.
func (h *PanelDesignHandler) SetGlobalField(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	var req globalFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requête invalide"})
	}

	settings, err := h.designService.SetGlobalField(c.UserContext(), uint(id), userID, req.Field, req.Value)
	if err != nil {
		return c.Status(designErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// GetCatalog lists the palettes, font pairs, patterns and style presets the
// editor's pickers offer.
func (h *PanelDesignHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"palettes": h.catalog.Palettes,
		"fonts":    h.catalog.Fonts,
		"patterns": h.catalog.Patterns,
	})
}

// Preview renders the composed invitation the way a guest would see it,
// inside the editor's preview pane. Draft invitations render here even
// though the public route refuses them.
func (h *PanelDesignHandler) Preview(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	invitationID := uint(id)

	invitation, err := h.invitationService.GetInvitationByID(c.UserContext(), invitationID, userID)
	if err != nil {
		configslog.Log.Warn("Panel - Preview load failed", zap.Uint("id", invitationID), zap.Error(err))
		return c.SendStatus(fiber.StatusNotFound)
	}

	events, err := h.eventService.ListEvents(c.UserContext(), invitationID)
	if err != nil {
		events = nil
	}
	quiz, err := h.quizService.GetQuiz(c.UserContext(), invitationID)
	if err != nil {
		quiz = nil
	}
	posts, err := h.wallService.VisiblePosts(c.UserContext(), invitationID, invitation.Detail.SocialWallModerated)
	if err != nil {
		posts = nil
	}

	settings := invitation.DesignSettings()
	sections := h.catalog.Compose(settings, design.PreviewInput{
		Detail: invitation.Detail,
		Events: events,
		Quiz:   quiz,
		Posts:  posts,
	})

	pager := design.NewPager(len(sections))
	if page := c.QueryInt("page", 0); page > 0 {
		pager = pager.JumpTo(page)
	}

	return renderer.Render(c, "public/invitation", "layouts/public_layout", fiber.Map{
		"Title":    invitation.Detail.Title,
		"Detail":   invitation.Detail,
		"Layout":   settings.Layout,
		"Sections": sections,
		"Pager":    pager,
		"Preview":  true,
	})
}
