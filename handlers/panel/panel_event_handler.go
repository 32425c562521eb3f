package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"loventy.org/models"
	"loventy.org/pkg/flashmessages"
	"loventy.org/services"
)

// PanelEventHandler serves the wedding program editor.
type PanelEventHandler struct {
	eventService      services.IEventService
	invitationService services.IInvitationService
}

// NewPanelEventHandler builds the handler.
func NewPanelEventHandler(eventService services.IEventService, invitationService services.IInvitationService) *PanelEventHandler {
	return &PanelEventHandler{eventService: eventService, invitationService: invitationService}
}

func (h *PanelEventHandler) ownedInvitationID(c *fiber.Ctx) (uint, uint, error) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, services.ErrInvitationForbidden
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, userID, services.ErrInvitationNotFound
	}
	if _, err := h.invitationService.GetInvitationByID(c.UserContext(), uint(id), userID); err != nil {
		return 0, userID, err
	}
	return uint(id), userID, nil
}

func editorPath(invitationID uint) string {
	return fmt.Sprintf("/panel/invitations/update/%d", invitationID)
}

// CreateEvent appends a program entry.
func (h *PanelEventHandler) CreateEvent(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	var event models.Event
	if err := c.BodyParser(&event); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
	}

	if _, err := h.eventService.AddEvent(c.UserContext(), invitationID, userID, event); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Étape ajoutée au programme.")
	}
	return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
}

// UpdateEvent saves one program entry.
func (h *PanelEventHandler) UpdateEvent(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	eventID, err := c.ParamsInt("eventID")
	if err != nil || eventID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
	}

	var event models.Event
	if err := c.BodyParser(&event); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
	}

	if err := h.eventService.UpdateEvent(c.UserContext(), uint(eventID), userID, event); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Programme mis à jour.")
	}
	return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
}

// DeleteEvent removes one program entry.
func (h *PanelEventHandler) DeleteEvent(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	eventID, err := c.ParamsInt("eventID")
	if err != nil || eventID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
	}

	if err := h.eventService.DeleteEvent(c.UserContext(), uint(eventID), userID); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Étape supprimée.")
	}
	return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
}

// ReorderEvent moves one entry up or down by one step.
func (h *PanelEventHandler) ReorderEvent(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	eventID, err := c.ParamsInt("eventID")
	if err != nil || eventID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	direction := services.ReorderDirection(c.FormValue("direction", c.Query("direction")))

	if err := h.eventService.ReorderEvent(c.UserContext(), uint(eventID), userID, direction); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	events, err := h.eventService.ListEvents(c.UserContext(), invitationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "chargement impossible"})
	}
	return c.JSON(fiber.Map{"events": events})
}
