package migrations

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configslog"
	"loventy.org/models"
)

func MigrateMediaTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating media_assets table...")
	if err := db.AutoMigrate(&models.MediaAsset{}); err != nil {
		configslog.Log.Error("Failed to migrate media_assets table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Media assets table migrated successfully")
	return nil
}
