package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	GeminiAPIKey string
	GeminiModel  string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryURL          string
	CloudinaryUploadFolder string

	RateLimitAI            time.Duration
	PendingVerificationTTL time.Duration
	CatalogReindexSchedule string

	// Location used to decide whether two timestamps fall on the same
	// calendar day for the daily challenge quota.
	Location *time.Location
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "vxrank"),

		CatalogReindexSchedule: getEnv("CATALOG_REINDEX_SCHEDULE", "0 4 * * *"),
	}

	// Parsing durations
	var err error
	cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.RateLimitAI, err = parseDuration(getEnv("RATE_LIMIT_AI", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AI: %w", err)
	}
	cfg.PendingVerificationTTL, err = parseDuration(getEnv("PENDING_VERIFICATION_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PENDING_VERIFICATION_TTL: %w", err)
	}

	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

// MediaConfigured reports whether cloudinary credentials are present.
func (c *Config) MediaConfigured() bool {
	return c.CloudinaryURL != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
