package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret  string
	JWTTTL     time.Duration
	AuthCookie bool

	LecturesFolder    string
	AssignmentsFolder string
	SubmissionsFolder string

	RateLimitWindow time.Duration
	RateLimitMax    int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret:  getEnv("JWT_SECRET", "dev_secret_change_me"),
		AuthCookie: getEnv("AUTH_COOKIE", "false") == "true",

		LecturesFolder:    getEnv("CLOUDINARY_LECTURES_FOLDER", "edunexus/lectures"),
		AssignmentsFolder: getEnv("CLOUDINARY_ASSIGNMENTS_FOLDER", "edunexus/assignments"),
		SubmissionsFolder: getEnv("CLOUDINARY_SUBMISSIONS_FOLDER", "edunexus/submissions"),
	}

	var err error
	cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_WINDOW: %w", err)
	}
	cfg.RateLimitMax, err = strconv.Atoi(getEnv("RATE_MAX", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_MAX: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
