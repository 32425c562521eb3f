package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configslog"
	"loventy.org/models"
)

func MigrateQuizTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating quizzes & quiz_questions tables...")
	if err := db.AutoMigrate(&models.Quiz{}, &models.QuizQuestion{}); err != nil {
		configslog.Log.Error("Failed to migrate quizzes & quiz_questions tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Quizzes & quiz_questions tables migrated successfully")
	return nil
}
