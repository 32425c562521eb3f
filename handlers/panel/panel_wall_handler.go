package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"loventy.org/pkg/flashmessages"
	"loventy.org/pkg/renderer"
	"loventy.org/services"
)

// PanelWallHandler serves the social wall moderation screen.
type PanelWallHandler struct {
	wallService       services.ISocialWallService
	invitationService services.IInvitationService
}

// NewPanelWallHandler builds the handler.
func NewPanelWallHandler(wallService services.ISocialWallService, invitationService services.IInvitationService) *PanelWallHandler {
	return &PanelWallHandler{wallService: wallService, invitationService: invitationService}
}

func (h *PanelWallHandler) ownedInvitationID(c *fiber.Ctx) (uint, uint, error) {
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

func wallPath(invitationID uint) string {
	return fmt.Sprintf("/panel/invitations/%d/wall", invitationID)
}

// ShowWall lists every post, pending ones included, for moderation.
func (h *PanelWallHandler) ShowWall(c *fiber.Ctx) error {
	invitationID, _, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	posts, err := h.wallService.AllPosts(c.UserContext(), invitationID)
	if err != nil {
		posts = nil
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":        "Mur social",
		"InvitationID": invitationID,
		"Posts":        posts,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/wall/moderate", "layouts/panel_layout", renderData)
}

// ModeratePost approves or rejects one post.
func (h *PanelWallHandler) ModeratePost(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	postID, err := c.ParamsInt("postID")
	if err != nil || postID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
	}
	approved := c.FormValue("action") == "approve"

	if err := h.wallService.ApprovePost(c.UserContext(), uint(postID), userID, approved); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else if approved {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Message approuvé.")
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Message masqué.")
	}
	return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
}

// ModerateComment approves or rejects one comment.
func (h *PanelWallHandler) ModerateComment(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	commentID, err := c.ParamsInt("commentID")
	if err != nil || commentID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
	}
	approved := c.FormValue("action") == "approve"

	if err := h.wallService.ApproveComment(c.UserContext(), uint(commentID), userID, approved); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Commentaire modéré.")
	}
	return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
}

// DeletePost removes one post entirely.
func (h *PanelWallHandler) DeletePost(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	postID, err := c.ParamsInt("postID")
	if err != nil || postID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
	}

	if err := h.wallService.DeletePost(c.UserContext(), uint(postID), userID); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Message supprimé.")
	}
	return c.Redirect(wallPath(invitationID), fiber.StatusSeeOther)
}
