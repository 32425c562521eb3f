package configsapp

import (
	"os"

	"github.com/joho/godotenv"

	"loventy.org/configs/configslog"
)

// Config holds process-level settings read once at startup.
type Config struct {
	Env        string
	ListenAddr string
	// BaseURL is the public origin used when building guest invitation
	// links, e.g. https://loventy.org
	BaseURL string

	// Media storage (MinIO / S3-compatible).
	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaBucket    string
	MediaUseSSL    bool
}

// Load reads .env (if present) and resolves the application config from the
// environment. Missing values fall back to development defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info("no .env file found, using process environment")
	}
	return Config{
		Env:            getenv("APP_ENV", "development"),
		ListenAddr:     getenv("LISTEN_ADDR", ":3000"),
		BaseURL:        getenv("BASE_URL", "https://loventy.org"),
		MediaEndpoint:  getenv("MEDIA_ENDPOINT", "localhost:9000"),
		MediaAccessKey: getenv("MEDIA_ACCESS_KEY", "minioadmin"),
		MediaSecretKey: getenv("MEDIA_SECRET_KEY", "minioadmin"),
		MediaBucket:    getenv("MEDIA_BUCKET", "loventy-media"),
		MediaUseSSL:    getenv("MEDIA_USE_SSL", "false") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
