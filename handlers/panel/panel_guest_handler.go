package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/pkg/flashmessages"
	"loventy.org/pkg/renderer"
	"loventy.org/services"
)

// PanelGuestHandler serves the guest list screens of one invitation.
type PanelGuestHandler struct {
	guestService      services.IGuestService
	invitationService services.IInvitationService
}

// NewPanelGuestHandler builds the handler.
func NewPanelGuestHandler(guestService services.IGuestService, invitationService services.IInvitationService) *PanelGuestHandler {
	return &PanelGuestHandler{guestService: guestService, invitationService: invitationService}
}

// ownedInvitation resolves the :id parameter and enforces ownership before
// any guest operation runs.
func (h *PanelGuestHandler) ownedInvitation(c *fiber.Ctx) (*models.Invitation, uint, error) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, 0, services.ErrInvitationForbidden
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, userID, services.ErrInvitationNotFound
	}
	invitation, err := h.invitationService.GetInvitationByID(c.UserContext(), uint(id), userID)
	if err != nil {
		return nil, userID, err
	}
	return invitation, userID, nil
}

func guestListPath(invitationID uint) string {
	return fmt.Sprintf("/panel/invitations/%d/guests", invitationID)
}

// ListGuests shows the guest list with its stats card and filters.
func (h *PanelGuestHandler) ListGuests(c *fiber.Ctx) error {
	invitation, _, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	filter := services.GuestFilter{
		Search: c.Query("search"),
		Status: models.RSVPStatus(c.Query("status")),
		Side:   models.GuestSide(c.Query("side")),
	}
	guests, err := h.guestService.ListGuests(c.UserContext(), invitation.ID, filter)
	if err != nil {
		configslog.Log.Error("Panel - ListGuests error", zap.Uint("invitationID", invitation.ID), zap.Error(err))
		guests = nil
	}
	stats, err := h.guestService.Stats(c.UserContext(), invitation.ID)
	if err != nil {
		stats = services.GuestStats{}
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":      "Liste des invités",
		"Invitation": invitation,
		"Guests":     guests,
		"Stats":      stats,
		"Filter":     filter,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/guests/list", "layouts/panel_layout", renderData)
}

// CreateGuest adds one guest from the inline form.
func (h *PanelGuestHandler) CreateGuest(c *fiber.Ctx) error {
	invitation, userID, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	var guest models.Guest
	if err := c.BodyParser(&guest); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	if _, err := h.guestService.AddGuest(c.UserContext(), invitation.ID, userID, guest); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Invité ajouté.")
	}
	return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
}

// UpdateGuest saves one guest's identity and seating fields.
func (h *PanelGuestHandler) UpdateGuest(c *fiber.Ctx) error {
	invitation, userID, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	guestID, err := c.ParamsInt("guestID")
	if err != nil || guestID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	var guest models.Guest
	if err := c.BodyParser(&guest); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	if err := h.guestService.UpdateGuest(c.UserContext(), uint(guestID), userID, guest); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Invité mis à jour.")
	}
	return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
}

type guestSelectionRequest struct {
	GuestIDs []uint `json:"guest_ids" form:"guest_ids"`
}

// DeleteGuests removes the checked selection.
func (h *PanelGuestHandler) DeleteGuests(c *fiber.Ctx) error {
	invitation, userID, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	var req guestSelectionRequest
	if err := c.BodyParser(&req); err != nil || len(req.GuestIDs) == 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Aucun invité sélectionné.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	removed, err := h.guestService.DeleteGuests(c.UserContext(), invitation.ID, userID, req.GuestIDs)
	if err != nil {
		configslog.Log.Error("Panel - DeleteGuests error", zap.Uint("invitationID", invitation.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "La suppression a échoué.")
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, fmt.Sprintf("%d invité(s) supprimé(s).", removed))
	}
	return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
}

// ImportGuests parses the uploaded CSV and creates one guest per row.
func (h *PanelGuestHandler) ImportGuests(c *fiber.Ctx) error {
	invitation, userID, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Aucun fichier reçu.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}
	file, err := fileHeader.Open()
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le fichier n'a pas pu être lu.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}
	defer file.Close()

	guests, err := h.guestService.ImportCSV(c.UserContext(), invitation.ID, userID, file)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, fmt.Sprintf("%d invité(s) importé(s).", len(guests)))
	}
	return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
}

// SendInvitations emails the personal invitation message to the selected
// guests and moves the invitation to the sent status on first success.
func (h *PanelGuestHandler) SendInvitations(c *fiber.Ctx) error {
	invitation, userID, err := h.ownedInvitation(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	var req guestSelectionRequest
	if err := c.BodyParser(&req); err != nil || len(req.GuestIDs) == 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Aucun invité sélectionné.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	sent, err := h.guestService.SendInvitations(c.UserContext(), invitation.ID, userID, req.GuestIDs, invitation.Detail)
	if err != nil {
		configslog.Log.Error("Panel - SendInvitations error", zap.Uint("invitationID", invitation.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "L'envoi a échoué.")
		return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
	}

	if sent > 0 {
		if err := h.invitationService.MarkSent(c.UserContext(), invitation.ID, userID); err != nil {
			// Sends already happened; a refused status move is not worth failing the request.
			configslog.Log.Warn("Panel - MarkSent refused", zap.Uint("invitationID", invitation.ID), zap.Error(err))
		}
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, fmt.Sprintf("%d invitation(s) envoyée(s).", sent))
	return c.Redirect(guestListPath(invitation.ID), fiber.StatusSeeOther)
}

// PreviewMessage returns the personal message of one guest, for the
// "copy message" button next to each row.
func (h *PanelGuestHandler) PreviewMessage(c *fiber.Ctx) error {
	invitation, _, err := h.ownedInvitation(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	guestID, err := c.ParamsInt("guestID")
	if err != nil || guestID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	guests, err := h.guestService.ListGuests(c.UserContext(), invitation.ID, services.GuestFilter{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "chargement impossible"})
	}
	for _, g := range guests {
		if g.ID == uint(guestID) {
			return c.JSON(fiber.Map{
				"message": h.guestService.PersonalMessage(g, invitation.Detail),
				"link":    g.InvitationPath(),
			})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invité introuvable"})
}
