package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Dosada05/bracket-engine/models"
)

const (
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether every credential needed for archiving is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// Config holds every setting of the service.
type Config struct {
	ServerPort int
	LogLevel   slog.Level

	StorageBackend string
	DatabaseURL    string
	BoltPath       string

	JWTSecretKey          string
	OrganizerEmail        string
	OrganizerPasswordHash string

	PublicBaseURL   string
	AllowedOrigins  []string
	ArchiveSchedule string
	R2              R2Config

	Defaults models.GenerationSettings
}

// Load reads the configuration from the environment. A .env file is picked
// up when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:            port,
		LogLevel:              level,
		StorageBackend:        strings.ToLower(envOr("STORAGE_BACKEND", BackendBolt)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		BoltPath:              envOr("BOLT_PATH", "data/brackets.db"),
		JWTSecretKey:          jwtKey,
		OrganizerEmail:        os.Getenv("ORGANIZER_EMAIL"),
		OrganizerPasswordHash: os.Getenv("ORGANIZER_PASSWORD_HASH"),
		PublicBaseURL:         strings.TrimRight(envOr("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		AllowedOrigins:        splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ArchiveSchedule:       envOr("ARCHIVE_SCHEDULE", "@every 5m"),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	switch cfg.StorageBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case BackendBolt:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendBolt, cfg.StorageBackend)
	}

	defaults := models.DefaultSettings()
	if s := os.Getenv("DEFAULT_SEEDING"); s != "" {
		defaults.Seeding = models.SeedingMethod(strings.ToLower(s))
	}
	if defaults.BestOf, err = intEnv("DEFAULT_BEST_OF", defaults.BestOf); err != nil {
		return nil, err
	}
	if defaults.FinalsBestOf, err = intEnv("DEFAULT_FINALS_BEST_OF", defaults.BestOf); err != nil {
		return nil, err
	}
	cfg.Defaults = defaults.WithDefaults()

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
