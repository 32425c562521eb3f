package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configslog"
	"loventy.org/models"
)

func MigrateSocialWallTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating social_wall_posts & social_wall_comments tables...")
	if err := db.AutoMigrate(&models.SocialWallPost{}, &models.SocialWallComment{}); err != nil {
		configslog.Log.Error("Failed to migrate social wall tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Social wall tables migrated successfully")
	return nil
}
