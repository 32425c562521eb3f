package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger, SLog the sugared variant. Both are set by
// InitLogger and safe for concurrent use afterwards.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// InitLogger builds the process-wide zap logger. APP_ENV=production switches
// to the JSON production encoder, anything else gets the console encoder.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered log entries. Call from a defer in main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
