package configsdatabase

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"loventy.org/configs/configslog"
)

var db *gorm.DB

// InitDB opens the Postgres connection pool. Fatal on failure: the
// application cannot serve anything without its database.
func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_USER", "loventy"),
			getenv("DB_PASSWORD", "loventy"),
			getenv("DB_NAME", "loventy"),
			getenv("DB_SSLMODE", "disable"),
		)
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	conn, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		configslog.Log.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("database pool handle unavailable", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Info("database connection established")
}

// GetDB returns the shared *gorm.DB. InitDB must have been called.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB called before InitDB")
	}
	return db
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("database close: pool handle unavailable", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("database close failed", zap.Error(err))
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
