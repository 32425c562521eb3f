package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/services"
)

// PanelMediaHandler serves section image uploads. The editor calls it with
// multipart forms and expects JSON back.
type PanelMediaHandler struct {
	mediaService      services.IMediaService
	invitationService services.IInvitationService
}

// NewPanelMediaHandler builds the handler.
func NewPanelMediaHandler(mediaService services.IMediaService, invitationService services.IInvitationService) *PanelMediaHandler {
	return &PanelMediaHandler{mediaService: mediaService, invitationService: invitationService}
}

// Upload stores one image and returns the asset with its public URL.
func (h *PanelMediaHandler) Upload(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	invitationID := uint(id)

	if _, err := h.invitationService.GetInvitationByID(c.UserContext(), invitationID, userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "aucun fichier reçu"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "le fichier n'a pas pu être lu"})
	}
	defer file.Close()

	section := models.SectionKey(c.FormValue("section"))
	imageType := models.MediaImageType(c.FormValue("image_type"))

	asset, err := h.mediaService.Upload(c.UserContext(), invitationID, userID, section, imageType,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		configslog.Log.Warn("Panel - media upload refused", zap.Uint("invitationID", invitationID), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"asset": asset})
}

// Delete removes one uploaded image and its stored object.
func (h *PanelMediaHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	if _, err := h.invitationService.GetInvitationByID(c.UserContext(), uint(id), userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	mediaID, err := uuid.Parse(c.Params("mediaID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant média invalide"})
	}

	if err := h.mediaService.Delete(c.UserContext(), mediaID, userID); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
