package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"loventy.org/configs/configslog"
	"loventy.org/models"
	"loventy.org/repositories"
)

// QuizServiceError is the typed error family of this service.
type QuizServiceError string

func (e QuizServiceError) Error() string { return string(e) }

const (
	ErrQuizNotFound         QuizServiceError = "quiz not found"
	ErrQuizInvalidInput     QuizServiceError = "invalid quiz data"
	ErrQuizTitleRequired    QuizServiceError = "the quiz needs a title"
	ErrQuestionNotFound     QuizServiceError = "quiz question not found"
	ErrQuestionTextRequired QuizServiceError = "the question needs a text"
	ErrQuestionBadType      QuizServiceError = "unknown question type"
	ErrQuestionFewOptions   QuizServiceError = "a multiple choice question needs at least two options"
	ErrQuestionBadAnswer    QuizServiceError = "the correct answer must be one of the options"
)

// IQuizService manages the quiz of one invitation.
type IQuizService interface {
	EnsureQuiz(ctx context.Context, invitationID, userID uint) (*models.Quiz, error)
	GetQuiz(ctx context.Context, invitationID uint) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, invitationID, userID uint, title, description, rewardMessage string, isActive bool) error
	AddQuestion(ctx context.Context, invitationID, userID uint, question models.QuizQuestion) (*models.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, questionID, userID uint, question models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, questionID, userID uint) error
	ReorderQuestion(ctx context.Context, questionID, userID uint, direction ReorderDirection) error
}

// QuizService implements IQuizService.
type QuizService struct {
	repo repositories.IQuizRepository
}

// NewQuizService wires the service against the shared database.
func NewQuizService() IQuizService {
	return &QuizService{repo: repositories.NewQuizRepository()}
}

// NewQuizServiceWith injects the dependencies, for tests.
func NewQuizServiceWith(repo repositories.IQuizRepository) *QuizService {
	return &QuizService{repo: repo}
}

// ValidateQuizQuestion checks one question before it is stored. A multiple
// choice question needs at least two options and its correct answer must be
// one of them; other types carry no options.
func ValidateQuizQuestion(q models.QuizQuestion) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrQuestionTextRequired
	}
	if !models.ValidQuestionType(q.Type) {
		return ErrQuestionBadType
	}
	if q.Type != models.QuestionMultipleChoice {
		return nil
	}
	if len(q.Options) < 2 {
		return ErrQuestionFewOptions
	}
	if q.CorrectAnswer != "" {
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return ErrQuestionBadAnswer
		}
	}
	return nil
}

// EnsureQuiz returns the invitation's quiz, creating an empty inactive one
// the first time the editor is opened.
func (s *QuizService) EnsureQuiz(ctx context.Context, invitationID, userID uint) (*models.Quiz, error) {
	quiz, err := s.repo.FindQuizByInvitation(ctx, invitationID)
	if err == nil {
		return quiz, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	quiz = &models.Quiz{
		InvitationID: invitationID,
		Title:        "Connaissez-vous les mariés ?",
		IsActive:     false,
		BaseModel:    models.BaseModel{CreatedBy: &userID},
	}
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		configslog.Log.Error("EnsureQuiz create failed", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return quiz, nil
}

// GetQuiz loads the quiz with its questions in display order.
func (s *QuizService) GetQuiz(ctx context.Context, invitationID uint) (*models.Quiz, error) {
	quiz, err := s.repo.FindQuizByInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz saves the quiz metadata and activation flag.
func (s *QuizService) UpdateQuiz(ctx context.Context, invitationID, userID uint, title, description, rewardMessage string, isActive bool) error {
	if strings.TrimSpace(title) == "" {
		return ErrQuizTitleRequired
	}
	quiz, err := s.repo.FindQuizByInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuizNotFound
		}
		return err
	}
	quiz.Title = title
	quiz.Description = description
	quiz.RewardMessage = rewardMessage
	quiz.IsActive = isActive
	quiz.UpdatedBy = &userID
	return s.repo.UpdateQuiz(ctx, quiz)
}

// AddQuestion validates and appends a question at the end of the order.
func (s *QuizService) AddQuestion(ctx context.Context, invitationID, userID uint, question models.QuizQuestion) (*models.QuizQuestion, error) {
	quiz, err := s.EnsureQuiz(ctx, invitationID, userID)
	if err != nil {
		return nil, err
	}
	if question.Type != models.QuestionMultipleChoice {
		question.Options = nil
	}
	if err := ValidateQuizQuestion(question); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxQuestionOrder(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	question.QuizID = quiz.ID
	question.DisplayOrder = maxOrder + 1
	question.CreatedBy = &userID

	if err := s.repo.CreateQuestion(ctx, &question); err != nil {
		configslog.Log.Error("AddQuestion failed", zap.Uint("quizID", quiz.ID), zap.Error(err))
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion replaces the editable fields of one question after the
// same validation as creation. DisplayOrder is only changed by reordering.
func (s *QuizService) UpdateQuestion(ctx context.Context, questionID, userID uint, question models.QuizQuestion) error {
	if question.Type != models.QuestionMultipleChoice {
		question.Options = nil
	}
	if err := ValidateQuizQuestion(question); err != nil {
		return err
	}
	existing, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	existing.Text = question.Text
	existing.Type = question.Type
	existing.Options = question.Options
	existing.CorrectAnswer = question.CorrectAnswer
	existing.UpdatedBy = &userID
	return s.repo.UpdateQuestion(ctx, existing)
}

// DeleteQuestion removes one question. Gaps in the remaining orders are
// harmless because ordering is relative.
func (s *QuizService) DeleteQuestion(ctx context.Context, questionID, userID uint) error {
	existing, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return s.repo.DeleteQuestion(ctx, existing, userID)
}

// ReorderQuestion swaps the question's display_order with its immediate
// neighbor. Moving the first question up or the last one down is a no-op.
func (s *QuizService) ReorderQuestion(ctx context.Context, questionID, userID uint, direction ReorderDirection) error {
	target, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	siblings, err := s.repo.FindQuestionsByQuiz(ctx, target.QuizID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range siblings {
		if siblings[i].ID == target.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrQuestionNotFound
	}

	var neighborIdx int
	switch direction {
	case ReorderUp:
		if idx == 0 {
			return nil
		}
		neighborIdx = idx - 1
	case ReorderDown:
		if idx == len(siblings)-1 {
			return nil
		}
		neighborIdx = idx + 1
	default:
		return fmt.Errorf("%w: direction %q", ErrQuizInvalidInput, direction)
	}

	a, b := siblings[idx], siblings[neighborIdx]
	a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
	a.UpdatedBy = &userID
	b.UpdatedBy = &userID

	return s.repo.UpdateQuestionOrders(ctx, &a, &b)
}

var _ IQuizService = (*QuizService)(nil)
