package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	AppOrigin       string
	RequestTimeout  time.Duration
	DBPath          string
	LogLevel        string
	InitData        string
	BundleDir       string
	BundleBaseURL   string
	AssetTimeout    time.Duration
	ScanInterval    time.Duration
	AssetHostAddr   string
	PrefetchWorkers int
	PrefetchQueue   int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:      strings.TrimRight(envOr("API_BASE_URL", "https://tou-event.ddns.net/api"), "/"),
		AppOrigin:       strings.TrimRight(envOr("APP_ORIGIN", "https://tou-event.ddns.net"), "/"),
		RequestTimeout:  envDurOr("REQUEST_TIMEOUT", 15*time.Second),
		DBPath:          envOr("DB_PATH", "file:digitalfest.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		InitData:        envOr("TELEGRAM_INIT_DATA", ""),
		BundleDir:       envOr("BUNDLE_DIR", "web"),
		BundleBaseURL:   strings.TrimRight(envOr("BUNDLE_BASE_URL", "http://localhost:8090"), "/"),
		AssetTimeout:    envDurOr("ASSET_TIMEOUT", 8*time.Second),
		ScanInterval:    envDurOr("SCAN_INTERVAL", 80*time.Millisecond),
		AssetHostAddr:   envOr("ASSET_HOST_ADDR", ":8090"),
		PrefetchWorkers: envIntOr("PREFETCH_WORKER_COUNT", 2),
		PrefetchQueue:   envIntOr("PREFETCH_QUEUE_SIZE", 16),
	}
}

// APIV1 returns the versioned API root, e.g. https://host/api/v1.
func (c Config) APIV1() string {
	return c.APIBaseURL + "/v1"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
