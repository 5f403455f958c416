package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config reads a key from the environment, loading .env on first use.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment only")
		}
	})
	return os.Getenv(key)
}

func configOr(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := Config(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func floatOr(key string, fallback float64) float64 {
	if v := Config(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// HTTPTimeout bounds every external provider request.
func HTTPTimeout() time.Duration {
	return time.Duration(intOr("HTTP_TIMEOUT_MS", 8000)) * time.Millisecond
}

// DBHitThreshold is the minimum local row count for a query to be
// considered already served without touching a provider.
func DBHitThreshold() int {
	return intOr("DB_HIT_THRESHOLD", 1)
}

// AllowExternal gates all outbound provider calls. Disable with
// ALLOW_EXTERNAL=0 or ALLOW_EXTERNAL=false to avoid rate limits.
func AllowExternal() bool {
	v := Config("ALLOW_EXTERNAL")
	return v != "0" && v != "false"
}

func MaxBBoxSpanDegrees() float64 {
	return floatOr("MAX_BBOX_DEGREES", 5)
}

func MaxZipRadiusMiles() float64 {
	return floatOr("ZIP_RADIUS_MI_MAX", 20)
}

// CacheTTLSeconds is the TTL for whole-response cache entries.
func CacheTTLSeconds() int {
	return intOr("CACHE_TTL_SECONDS", 600)
}

func RedisURL() string {
	return configOr("REDIS_URL", "redis://localhost:6379")
}

func Port() string {
	return configOr("PORT", "3000")
}
