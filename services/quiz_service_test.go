package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"loventy.org/models"
	"loventy.org/repositories"
)

// fakeQuizRepo is an in-memory IQuizRepository.
type fakeQuizRepo struct {
	nextID    uint
	quizzes   map[uint]models.Quiz // keyed by invitation ID
	questions map[uint]models.QuizQuestion
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		nextID:    1,
		quizzes:   make(map[uint]models.Quiz),
		questions: make(map[uint]models.QuizQuestion),
	}
}

func (r *fakeQuizRepo) CreateQuiz(_ context.Context, quiz *models.Quiz) error {
	quiz.ID = r.nextID
	r.nextID++
	r.quizzes[quiz.InvitationID] = *quiz
	return nil
}

func (r *fakeQuizRepo) FindQuizByInvitation(_ context.Context, invitationID uint) (*models.Quiz, error) {
	q, ok := r.quizzes[invitationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	questions, _ := r.FindQuestionsByQuiz(context.Background(), q.ID)
	q.Questions = questions
	return &q, nil
}

func (r *fakeQuizRepo) UpdateQuiz(_ context.Context, quiz *models.Quiz) error {
	if _, ok := r.quizzes[quiz.InvitationID]; !ok {
		return repositories.ErrNotFound
	}
	r.quizzes[quiz.InvitationID] = *quiz
	return nil
}

func (r *fakeQuizRepo) CreateQuestion(_ context.Context, question *models.QuizQuestion) error {
	question.ID = r.nextID
	r.nextID++
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuizRepo) FindQuestionByID(_ context.Context, id uint) (*models.QuizQuestion, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &q, nil
}

func (r *fakeQuizRepo) FindQuestionsByQuiz(_ context.Context, quizID uint) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	for _, q := range r.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *fakeQuizRepo) UpdateQuestion(_ context.Context, question *models.QuizQuestion) error {
	if _, ok := r.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuizRepo) UpdateQuestionOrders(_ context.Context, a, b *models.QuizQuestion) error {
	for _, q := range []*models.QuizQuestion{a, b} {
		stored, ok := r.questions[q.ID]
		if !ok {
			return repositories.ErrNotFound
		}
		stored.DisplayOrder = q.DisplayOrder
		r.questions[q.ID] = stored
	}
	return nil
}

func (r *fakeQuizRepo) DeleteQuestion(_ context.Context, question *models.QuizQuestion, _ uint) error {
	if _, ok := r.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.questions, question.ID)
	return nil
}

func (r *fakeQuizRepo) MaxQuestionOrder(_ context.Context, quizID uint) (int, error) {
	max := 0
	for _, q := range r.questions {
		if q.QuizID == quizID && q.DisplayOrder > max {
			max = q.DisplayOrder
		}
	}
	return max, nil
}

var _ repositories.IQuizRepository = (*fakeQuizRepo)(nil)

func options(values ...string) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(values)
}

func TestValidateQuizQuestion(t *testing.T) {
	cases := []struct {
		name     string
		question models.QuizQuestion
		wantErr  error
	}{
		{"text ok", models.QuizQuestion{Text: "Où se sont-ils rencontrés ?", Type: models.QuestionText}, nil},
		{"true/false ok", models.QuizQuestion{Text: "Julien cuisine ?", Type: models.QuestionTrueFalse}, nil},
		{"blank text", models.QuizQuestion{Text: "   ", Type: models.QuestionText}, ErrQuestionTextRequired},
		{"bad type", models.QuizQuestion{Text: "?", Type: "essay"}, ErrQuestionBadType},
		{
			"multiple choice needs two options",
			models.QuizQuestion{Text: "?", Type: models.QuestionMultipleChoice, Options: options("Paris")},
			ErrQuestionFewOptions,
		},
		{
			"answer outside options",
			models.QuizQuestion{Text: "?", Type: models.QuestionMultipleChoice, Options: options("Paris", "Lyon"), CorrectAnswer: "Nice"},
			ErrQuestionBadAnswer,
		},
		{
			"answer among options",
			models.QuizQuestion{Text: "?", Type: models.QuestionMultipleChoice, Options: options("Paris", "Lyon"), CorrectAnswer: "Lyon"},
			nil,
		},
		{
			"no answer yet is fine",
			models.QuizQuestion{Text: "?", Type: models.QuestionMultipleChoice, Options: options("Paris", "Lyon")},
			nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuizQuestion(tc.question)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestEnsureQuizCreatesOnce(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizServiceWith(repo)
	ctx := context.Background()

	first, err := svc.EnsureQuiz(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Connaissez-vous les mariés ?", first.Title)
	assert.False(t, first.IsActive)

	again, err := svc.EnsureQuiz(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestUpdateQuiz(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizServiceWith(repo)
	ctx := context.Background()

	_, err := svc.EnsureQuiz(ctx, 7, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuiz(ctx, 7, 1, "Notre quiz", "Dix questions", "Bravo !", true))
	quiz, err := svc.GetQuiz(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Notre quiz", quiz.Title)
	assert.Equal(t, "Bravo !", quiz.RewardMessage)
	assert.True(t, quiz.IsActive)

	assert.ErrorIs(t, svc.UpdateQuiz(ctx, 7, 1, "  ", "", "", true), ErrQuizTitleRequired)
	assert.ErrorIs(t, svc.UpdateQuiz(ctx, 99, 1, "Titre", "", "", true), ErrQuizNotFound)
}

func TestAddQuestionAppendsAndStripsOptions(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizServiceWith(repo)
	ctx := context.Background()

	q1, err := svc.AddQuestion(ctx, 7, 1, models.QuizQuestion{
		Text: "Où ?", Type: models.QuestionMultipleChoice, Options: options("Paris", "Lyon"), CorrectAnswer: "Paris",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q1.DisplayOrder)

	// a text question carries no options even when the form sent some
	q2, err := svc.AddQuestion(ctx, 7, 1, models.QuizQuestion{
		Text: "Quand ?", Type: models.QuestionText, Options: options("2020", "2021"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, q2.DisplayOrder)
	assert.Nil(t, q2.Options)

	_, err = svc.AddQuestion(ctx, 7, 1, models.QuizQuestion{
		Text: "?", Type: models.QuestionMultipleChoice, Options: options("seule"),
	})
	assert.ErrorIs(t, err, ErrQuestionFewOptions)
}

func TestReorderQuestion(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizServiceWith(repo)
	ctx := context.Background()

	var ids []uint
	for _, text := range []string{"Un", "Deux", "Trois"} {
		q, err := svc.AddQuestion(ctx, 7, 1, models.QuizQuestion{Text: text, Type: models.QuestionText})
		require.NoError(t, err)
		ids = append(ids, q.ID)
	}

	require.NoError(t, svc.ReorderQuestion(ctx, ids[0], 1, ReorderDown))
	quiz, err := svc.GetQuiz(ctx, 7)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, "Deux", quiz.Questions[0].Text)
	assert.Equal(t, "Un", quiz.Questions[1].Text)
	assert.Equal(t, "Trois", quiz.Questions[2].Text)

	// edges are no-ops
	require.NoError(t, svc.ReorderQuestion(ctx, ids[1], 1, ReorderUp)) // "Deux" is first now
	quiz, err = svc.GetQuiz(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Deux", quiz.Questions[0].Text)

	assert.ErrorIs(t, svc.ReorderQuestion(ctx, ids[0], 1, ReorderDirection("left")), ErrQuizInvalidInput)
	assert.ErrorIs(t, svc.ReorderQuestion(ctx, 999, 1, ReorderUp), ErrQuestionNotFound)
}

func TestDeleteQuestion(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizServiceWith(repo)
	ctx := context.Background()

	q, err := svc.AddQuestion(ctx, 7, 1, models.QuizQuestion{Text: "Un", Type: models.QuestionText})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID, 1))
	assert.ErrorIs(t, svc.DeleteQuestion(ctx, q.ID, 1), ErrQuestionNotFound)
}
