package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/services"
)

// RSVPHandler processes guest replies and the other public interactions
// (wall posts, quiz answers) posted from the invitation page.
type RSVPHandler struct {
	invitationService services.IInvitationService
	guestService      services.IGuestService
	quizService       services.IQuizService
	wallService       services.ISocialWallService
}

// NewRSVPHandler builds the handler.
func NewRSVPHandler(
	invitationService services.IInvitationService,
	guestService services.IGuestService,
	quizService services.IQuizService,
	wallService services.ISocialWallService,
) *RSVPHandler {
	return &RSVPHandler{
		invitationService: invitationService,
		guestService:      guestService,
		quizService:       quizService,
		wallService:       wallService,
	}
}

// resolveGuest finds the guest behind a reply: the personal link key, or the
// token a shared link carries in the form.
func (h *RSVPHandler) resolveGuest(c *fiber.Ctx, invitation *models.Invitation) (*models.Guest, error) {
	key := c.Params("key")
	if guest, err := h.guestService.GetByLinkKey(c.UserContext(), key); err == nil {
		if guest.InvitationID != invitation.ID {
			return nil, services.ErrGuestNotFound
		}
		return guest, nil
	}
	token := c.FormValue("guest_token", c.Query("guest"))
	if token == "" {
		return nil, services.ErrGuestNotFound
	}
	guest, err := h.guestService.GetByToken(c.UserContext(), token)
	if err != nil {
		return nil, err
	}
	if guest.InvitationID != invitation.ID {
		return nil, services.ErrGuestNotFound
	}
	return guest, nil
}

func (h *RSVPHandler) resolveInvitation(c *fiber.Ctx) (*models.Invitation, error) {
	key := c.Params("key")
	if guest, err := h.guestService.GetByLinkKey(c.UserContext(), key); err == nil {
		return h.invitationService.GetPublicInvitationByID(c.UserContext(), guest.InvitationID)
	}
	return h.invitationService.GetPublicInvitationByKey(c.UserContext(), key)
}

// SubmitRSVP records a guest's reply. Replies stay editable: a guest can
// re-submit and flip between confirmed and declined at any time, and a past
// RSVP deadline is shown on the page but never enforced here.
func (h *RSVPHandler) SubmitRSVP(c *fiber.Ctx) error {
	invitation, err := h.resolveInvitation(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invitation introuvable"})
	}
	guest, err := h.resolveGuest(c, invitation)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invité introuvable"})
	}

	status := models.RSVPStatus(c.FormValue("status"))
	plusOnes, _ := strconv.Atoi(c.FormValue("plus_ones", "0"))
	message := c.FormValue("message")

	if !invitation.Detail.AllowPlusOnes {
		plusOnes = 0
	} else if invitation.Detail.MaxPlusOnes > 0 && plusOnes > invitation.Detail.MaxPlusOnes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "nombre d'accompagnants trop élevé",
		})
	}
	if !invitation.Detail.CollectGuestNotes {
		message = ""
	}

	reply := services.RSVPReply{
		Status:              status,
		PlusOnes:            plusOnes,
		PlusOneNames:        c.FormValue("plus_one_names"),
		DietaryRestrictions: c.FormValue("dietary_restrictions"),
		Message:             message,
	}
	if err := h.guestService.SetRSVPStatus(c.UserContext(), guest.ID, reply); err != nil {
		configslog.Log.Warn("public RSVP refused", zap.Uint("guestID", guest.ID), zap.Error(err))
		statusCode := fiber.StatusUnprocessableEntity
		if errors.Is(err, services.ErrGuestNotFound) {
			statusCode = fiber.StatusNotFound
		}
		return c.Status(statusCode).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Merci, votre réponse a bien été enregistrée."})
}

// SubmitWallPost adds a guest message to the social wall.
func (h *RSVPHandler) SubmitWallPost(c *fiber.Ctx) error {
	invitation, err := h.resolveInvitation(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invitation introuvable"})
	}

	var guestID *uint
	authorName := strings.TrimSpace(c.FormValue("author_name"))
	if guest, gErr := h.resolveGuest(c, invitation); gErr == nil {
		guestID = &guest.ID
		if authorName == "" {
			authorName = guest.Name
		}
	}

	post, err := h.wallService.CreatePost(c.UserContext(), invitation.ID, invitation.Detail,
		guestID, authorName, c.FormValue("content"), c.FormValue("photo_url"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	reply := fiber.Map{"post": post}
	if invitation.Detail.SocialWallModerated && !post.IsApproved {
		reply["message"] = "Votre message sera visible après validation par les mariés."
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// SubmitWallComment adds a reply under one wall post.
func (h *RSVPHandler) SubmitWallComment(c *fiber.Ctx) error {
	invitation, err := h.resolveInvitation(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invitation introuvable"})
	}
	postID, err := c.ParamsInt("postID")
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}

	var guestID *uint
	authorName := strings.TrimSpace(c.FormValue("author_name"))
	if guest, gErr := h.resolveGuest(c, invitation); gErr == nil {
		guestID = &guest.ID
		if authorName == "" {
			authorName = guest.Name
		}
	}

	comment, err := h.wallService.CreateComment(c.UserContext(), uint(postID),
		invitation.Detail.SocialWallModerated, guestID, authorName, c.FormValue("content"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// SubmitQuiz scores a guest's quiz answers server-side. Answers are matched
// case-insensitively for text questions; nothing is persisted.
func (h *RSVPHandler) SubmitQuiz(c *fiber.Ctx) error {
	invitation, err := h.resolveInvitation(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invitation introuvable"})
	}
	quiz, err := h.quizService.GetQuiz(c.UserContext(), invitation.ID)
	if err != nil || !quiz.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quiz indisponible"})
	}

	var answers map[string]string
	if err := c.BodyParser(&answers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "réponses invalides"})
	}

	score, total := 0, 0
	for _, q := range quiz.Questions {
		if q.CorrectAnswer == "" {
			continue
		}
		total++
		given := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if q.Type == models.QuestionText {
			if strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(q.CorrectAnswer)) {
				score++
			}
		} else if given == q.CorrectAnswer {
			score++
		}
	}

	reply := fiber.Map{"score": score, "total": total}
	if total > 0 && score == total && quiz.RewardMessage != "" {
		reply["reward"] = quiz.RewardMessage
	}
	return c.JSON(reply)
}
