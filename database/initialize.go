package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"loventy.org/configs/configslog"
	"loventy.org/database/migrations"
	"loventy.org/database/seeders"
)

// Initialize runs migrations and seeders inside one transaction, so a failed
// step leaves the schema untouched.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Could not start database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization panicked", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Rolling back after initialization error.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback itself failed", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		configslog.SLog.Info("Running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrations finished.")
	} else {
		configslog.SLog.Info("Migrate flag not set, skipping migrations.")
	}

	if seed {
		configslog.SLog.Info("Running seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders finished.")
	} else {
		configslog.SLog.Info("Seed flag not set, skipping seeders.")
	}

	configslog.SLog.Info("Committing...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("Database initialization completed successfully")
}

// RunMigrationsInOrder migrates parents before children so the foreign keys
// resolve.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info(" -> Invitation migrations...")
	if err := migrations.MigrateInvitationsTables(db); err != nil {
		return err
	}
	configslog.SLog.Info(" -> Event migrations...")
	if err := migrations.MigrateEventsTable(db); err != nil {
		return err
	}
	configslog.SLog.Info(" -> Guest migrations...")
	if err := migrations.MigrateGuestsTable(db); err != nil {
		return err
	}
	configslog.SLog.Info(" -> Quiz migrations...")
	if err := migrations.MigrateQuizTables(db); err != nil {
		return err
	}
	configslog.SLog.Info(" -> Social wall migrations...")
	if err := migrations.MigrateSocialWallTables(db); err != nil {
		return err
	}
	configslog.SLog.Info(" -> Media migrations...")
	if err := migrations.MigrateMediaTable(db); err != nil {
		return err
	}
	configslog.SLog.Info("All migrations ran successfully.")
	return nil
}

// CheckAndRunSeeders runs the idempotent seeders.
func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info(" -> Demo invitation seeder...")
	if err := seeders.SeedDemoInvitation(db); err != nil {
		return err
	}
	configslog.SLog.Info("All seeders ran successfully.")
	return nil
}
