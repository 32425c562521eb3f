package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"loventy.org/models"
	"loventy.org/pkg/flashmessages"
	"loventy.org/pkg/renderer"
	"loventy.org/services"
)

// PanelQuizHandler serves the quiz editor.
type PanelQuizHandler struct {
	quizService       services.IQuizService
	invitationService services.IInvitationService
}

// NewPanelQuizHandler builds the handler.
func NewPanelQuizHandler(quizService services.IQuizService, invitationService services.IInvitationService) *PanelQuizHandler {
	return &PanelQuizHandler{quizService: quizService, invitationService: invitationService}
}

func (h *PanelQuizHandler) ownedInvitationID(c *fiber.Ctx) (uint, uint, error) {
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

func quizPath(invitationID uint) string {
	return fmt.Sprintf("/panel/invitations/%d/quiz", invitationID)
}

// ShowQuiz shows the quiz editor, creating the quiz record on first visit.
func (h *PanelQuizHandler) ShowQuiz(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	quiz, err := h.quizService.EnsureQuiz(c.UserContext(), invitationID, userID)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Le quiz n'a pas pu être chargé.")
		return c.Redirect(editorPath(invitationID), fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	renderData := fiber.Map{
		"Title":        "Quiz des mariés",
		"InvitationID": invitationID,
		"Quiz":         quiz,
	}
	renderer.SetFlashMessages(renderData, flashData)
	return renderer.Render(c, "panel/quiz/edit", "layouts/panel_layout", renderData)
}

// UpdateQuiz saves the quiz title, description, reward and activation.
func (h *PanelQuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	isActive := c.FormValue("is_active") == "true" || c.FormValue("is_active") == "on"
	err = h.quizService.UpdateQuiz(c.UserContext(), invitationID, userID,
		c.FormValue("title"), c.FormValue("description"), c.FormValue("reward_message"), isActive)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Quiz enregistré.")
	}
	return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
}

// parseQuestionForm reads the question fields shared by create and update.
func parseQuestionForm(c *fiber.Ctx) models.QuizQuestion {
	form, _ := c.MultipartForm()
	var options []string
	if form != nil {
		for _, opt := range form.Value["options"] {
			if opt != "" {
				options = append(options, opt)
			}
		}
	}
	return models.QuizQuestion{
		Text:          c.FormValue("text"),
		Type:          models.QuestionType(c.FormValue("type")),
		Options:       datatypes.JSONSlice[string](options),
		CorrectAnswer: c.FormValue("correct_answer"),
	}
}

// CreateQuestion validates and appends one question.
func (h *PanelQuizHandler) CreateQuestion(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}

	if _, err := h.quizService.AddQuestion(c.UserContext(), invitationID, userID, parseQuestionForm(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Question ajoutée.")
	}
	return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
}

// UpdateQuestion saves one question after the same validation as creation.
func (h *PanelQuizHandler) UpdateQuestion(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	questionID, err := c.ParamsInt("questionID")
	if err != nil || questionID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
	}

	if err := h.quizService.UpdateQuestion(c.UserContext(), uint(questionID), userID, parseQuestionForm(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Question enregistrée.")
	}
	return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
}

// DeleteQuestion removes one question.
func (h *PanelQuizHandler) DeleteQuestion(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/invitations")
	}
	questionID, err := c.ParamsInt("questionID")
	if err != nil || questionID <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Identifiant invalide.")
		return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
	}

	if err := h.quizService.DeleteQuestion(c.UserContext(), uint(questionID), userID); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Question supprimée.")
	}
	return c.Redirect(quizPath(invitationID), fiber.StatusSeeOther)
}

// ReorderQuestion moves one question up or down by one step.
func (h *PanelQuizHandler) ReorderQuestion(c *fiber.Ctx) error {
	invitationID, userID, err := h.ownedInvitationID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	questionID, err := c.ParamsInt("questionID")
	if err != nil || questionID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	direction := services.ReorderDirection(c.FormValue("direction", c.Query("direction")))

	if err := h.quizService.ReorderQuestion(c.UserContext(), uint(questionID), userID, direction); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	quiz, err := h.quizService.GetQuiz(c.UserContext(), invitationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "chargement impossible"})
	}
	return c.JSON(fiber.Map{"questions": quiz.Questions})
}
