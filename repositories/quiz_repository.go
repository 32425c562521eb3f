package repositories

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configsdatabase"
	"loventy.org/configs/configslog"
	"loventy.org/models"
)

// IQuizRepository is the quiz persistence boundary.
type IQuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	FindQuizByInvitation(ctx context.Context, invitationID uint) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *models.Quiz) error
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	FindQuestionByID(ctx context.Context, id uint) (*models.QuizQuestion, error)
	FindQuestionsByQuiz(ctx context.Context, quizID uint) ([]models.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error
	UpdateQuestionOrders(ctx context.Context, a, b *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, question *models.QuizQuestion, deletedByUserID uint) error
	MaxQuestionOrder(ctx context.Context, quizID uint) (int, error)
}

// QuizRepository implements IQuizRepository on GORM.
type QuizRepository struct {
	db *gorm.DB
}

// NewQuizRepository builds a repository on the shared connection.
func NewQuizRepository() IQuizRepository {
	return NewQuizRepositoryTx(configsdatabase.GetDB())
}

// NewQuizRepositoryTx binds the repository to an open transaction.
func NewQuizRepositoryTx(tx *gorm.DB) IQuizRepository {
	return &QuizRepository{db: tx}
}

func (r *QuizRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// CreateQuiz inserts the quiz record.
func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if quiz == nil || quiz.InvitationID == 0 {
		return errors.New("quiz without an invitation cannot be created")
	}
	return r.getDB(ctx).Create(quiz).Error
}

// FindQuizByInvitation loads the quiz and its questions ordered for display.
func (r *QuizRepository) FindQuizByInvitation(ctx context.Context, invitationID uint) (*models.Quiz, error) {
	if invitationID == 0 {
		return nil, errors.New("invalid invitation id")
	}
	var quiz models.Quiz
	err := r.getDB(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order asc")
		}).
		Where("invitation_id = ?", invitationID).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("QuizRepository.FindQuizByInvitation: db error", zap.Uint("invitationID", invitationID), zap.Error(err))
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz saves quiz metadata.
func (r *QuizRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if quiz == nil || quiz.ID == 0 {
		return errors.New("invalid quiz for update")
	}
	return r.getDB(ctx).Omit("Questions").Save(quiz).Error
}

// CreateQuestion inserts one question.
func (r *QuizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	if question == nil || question.QuizID == 0 {
		return errors.New("question without a quiz cannot be created")
	}
	return r.getDB(ctx).Create(question).Error
}

// FindQuestionByID loads one question.
func (r *QuizRepository) FindQuestionByID(ctx context.Context, id uint) (*models.QuizQuestion, error) {
	if id == 0 {
		return nil, errors.New("invalid question id")
	}
	var q models.QuizQuestion
	err := r.getDB(ctx).First(&q, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindQuestionsByQuiz lists the questions of one quiz in display order.
func (r *QuizRepository) FindQuestionsByQuiz(ctx context.Context, quizID uint) ([]models.QuizQuestion, error) {
	if quizID == 0 {
		return nil, errors.New("invalid quiz id")
	}
	var questions []models.QuizQuestion
	err := r.getDB(ctx).
		Where("quiz_id = ?", quizID).
		Order("display_order asc").
		Find(&questions).Error
	if err != nil {
		configslog.Log.Error("QuizRepository.FindQuestionsByQuiz: db error", zap.Uint("quizID", quizID), zap.Error(err))
		return nil, err
	}
	return questions, nil
}

// UpdateQuestion saves all question fields.
func (r *QuizRepository) UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	if question == nil || question.ID == 0 {
		return errors.New("invalid question for update")
	}
	return r.getDB(ctx).Save(question).Error
}

// UpdateQuestionOrders persists an adjacent swap of two questions.
func (r *QuizRepository) UpdateQuestionOrders(ctx context.Context, a, b *models.QuizQuestion) error {
	if a == nil || b == nil {
		return errors.New("both questions of a swap must be set")
	}
	db := r.getDB(ctx)
	if err := db.Model(a).Update("display_order", a.DisplayOrder).Error; err != nil {
		return err
	}
	return db.Model(b).Update("display_order", b.DisplayOrder).Error
}

// DeleteQuestion soft-deletes one question.
func (r *QuizRepository) DeleteQuestion(ctx context.Context, question *models.QuizQuestion, deletedByUserID uint) error {
	if question == nil || question.ID == 0 {
		return errors.New("invalid question for delete")
	}
	result := r.getDB(ctx).Model(question).
		Where("id = ? AND deleted_at IS NULL", question.ID).
		Updates(map[string]interface{}{"deleted_at": gorm.Expr("NOW()"), "deleted_by": &deletedByUserID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxQuestionOrder returns the highest display_order in one quiz.
func (r *QuizRepository) MaxQuestionOrder(ctx context.Context, quizID uint) (int, error) {
	var max *int
	err := r.getDB(ctx).Model(&models.QuizQuestion{}).
		Where("quiz_id = ?", quizID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

var _ IQuizRepository = (*QuizRepository)(nil)
