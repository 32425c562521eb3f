package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/pkg/flashmessages"
	"loventy.org/pkg/queryparams"
	"loventy.org/pkg/renderer"
	"loventy.org/services"
)

// PanelInvitationHandler serves the owner's invitation screens.
type PanelInvitationHandler struct {
	service services.IInvitationService
}

// NewPanelInvitationHandler builds the handler with its default services.
func NewPanelInvitationHandler(service services.IInvitationService) *PanelInvitationHandler {
	return &PanelInvitationHandler{service: service}
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok && userID != 0
}

// ListInvitations shows the owner's invitations, paginated.
func (h *PanelInvitationHandler) ListInvitations(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetInvitationsForOwner(c.UserContext(), userID, params)
	renderData := fiber.Map{
		"Title":  "Mes invitations",
		"Result": result,
		"Params": params,
	}
	renderer.SetFlashMessages(renderData, flashData)
	if err != nil {
		configslog.Log.Error("Panel - ListInvitations error", zap.Uint("userID", userID), zap.Error(err))
		renderData[renderer.FlashErrorKeyView] = "Vos invitations n'ont pas pu être chargées."
		renderData["Result"] = &queryparams.PaginatedResult{Data: []models.Invitation{}, Meta: queryparams.PaginationMeta{}}
	}
	return renderer.Render(c, "panel/invitations/list", "layouts/panel_layout", renderData, http.StatusOK)
}

// ShowCreateInvitation shows the creation form.
func (h *PanelInvitationHandler) ShowCreateInvitation(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{"Title": "Nouvelle invitation"}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/invitations/create", "layouts/panel_layout", renderData)
}

// CreateInvitation creates a draft from the form and opens its editor.
func (h *PanelInvitationHandler) CreateInvitation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}

	var detail models.InvitationDetail
	if err := c.BodyParser(&detail); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect("/panel/invitations/create", fiber.StatusSeeOther)
	}
	password := c.FormValue("password")

	invitation, err := h.service.CreateInvitation(c.UserContext(), userID, detail, password)
	if err != nil {
		configslog.Log.Error("Panel - CreateInvitation error", zap.Uint("userID", userID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations/create", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Votre invitation a été créée.")
	return c.Redirect(fmt.Sprintf("/panel/invitations/update/%d", invitation.ID), fiber.StatusSeeOther)
}

// ShowUpdateInvitation shows the content editor of one invitation.
func (h *PanelInvitationHandler) ShowUpdateInvitation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect("/panel/invitations")
	}

	invitation, err := h.service.GetInvitationByID(c.UserContext(), uint(id), userID)
	if err != nil {
		errMsg := "Invitation introuvable."
		if !errors.Is(err, services.ErrInvitationNotFound) && !errors.Is(err, services.ErrInvitationForbidden) {
			errMsg = "L'invitation n'a pas pu être chargée."
			configslog.Log.Error("Panel - ShowUpdateInvitation error", zap.Int("id", id), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, errMsg)
		return c.Redirect("/panel/invitations")
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":      "Modifier l'invitation",
		"Invitation": invitation,
		"Detail":     invitation.Detail,
		"PublicPath": "/i/" + invitation.Key,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/invitations/update", "layouts/panel_layout", renderData)
}

// UpdateInvitation saves the content form. Autosave posts the same form with
// autosave=1 and gets a JSON reply instead of a redirect.
func (h *PanelInvitationHandler) UpdateInvitation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect("/panel/invitations")
	}
	invitationID := uint(id)
	autosave := c.FormValue("autosave") == "1"
	redirectPath := fmt.Sprintf("/panel/invitations/update/%d", invitationID)

	var detail models.InvitationDetail
	if err := c.BodyParser(&detail); err != nil {
		if autosave {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "formulaire invalide"})
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le formulaire est invalide.")
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	err = h.service.UpdateInvitationDetail(c.UserContext(), invitationID, userID, detail)
	if err != nil {
		if autosave {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Panel - UpdateInvitation error", zap.Uint("id", invitationID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if autosave {
		return c.JSON(fiber.Map{"saved": true})
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Invitation enregistrée.")
	return c.Redirect(redirectPath, fiber.StatusFound)
}

// statusAction runs one gated status move and redirects back to the editor.
func (h *PanelInvitationHandler) statusAction(c *fiber.Ctx, action func(ctx *fiber.Ctx, id, userID uint) error, successMsg string) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect("/panel/invitations")
	}
	invitationID := uint(id)

	if err := action(c, invitationID, userID); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, successMsg)
	}
	return c.Redirect(fmt.Sprintf("/panel/invitations/update/%d", invitationID), fiber.StatusSeeOther)
}

// PublishInvitation moves a draft to published.
func (h *PanelInvitationHandler) PublishInvitation(c *fiber.Ctx) error {
	return h.statusAction(c, func(ctx *fiber.Ctx, id, userID uint) error {
		return h.service.Publish(ctx.UserContext(), id, userID)
	}, "Votre invitation est en ligne.")
}

// ArchiveInvitation retires the invitation from the public site.
func (h *PanelInvitationHandler) ArchiveInvitation(c *fiber.Ctx) error {
	return h.statusAction(c, func(ctx *fiber.Ctx, id, userID uint) error {
		return h.service.Archive(ctx.UserContext(), id, userID)
	}, "Invitation archivée.")
}

// DeleteInvitation soft-deletes the invitation.
func (h *PanelInvitationHandler) DeleteInvitation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Redirect("/")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect("/panel/invitations")
	}

	if err := h.service.DeleteInvitation(c.UserContext(), uint(id), userID); err != nil {
		if !errors.Is(err, services.ErrInvitationNotFound) {
			configslog.Log.Error("Panel - DeleteInvitation error", zap.Int("id", id), zap.Uint("userID", userID), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Invitation supprimée.")
	}
	return c.Redirect("/panel/invitations", fiber.StatusSeeOther)
}
