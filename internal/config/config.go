package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Watchlist persistence backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the discovery client.
type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	TMDB      TMDBConfig
	Watchlist WatchlistConfig
	Browse    BrowseConfig
	RateLimit RateLimitConfig
	Port      string
	LogLevel  slog.Level

	// OTLPEndpoint enables tracing when set.
	OTLPEndpoint string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey            string
	BaseURL           string
	ImageBaseURL      string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	CacheTTL          time.Duration
}

// WatchlistConfig selects where the watchlist is persisted.
type WatchlistConfig struct {
	Backend string
	Path    string
	Key     string
}

// BrowseConfig tunes the browse session.
type BrowseConfig struct {
	DebounceWindow   time.Duration
	FallbackLanguage string
	BannerInterval   time.Duration
}

// RateLimitConfig bounds requests to the local API.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	rps, err := strconv.ParseFloat(getEnv("TMDB_REQUESTS_PER_SECOND", "20"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("invalid TMDB_REQUESTS_PER_SECOND: %q", os.Getenv("TMDB_REQUESTS_PER_SECOND"))
	}

	debounceMS := getEnvInt("BROWSE_DEBOUNCE_MS", 350)
	if debounceMS < 0 {
		return nil, fmt.Errorf("invalid BROWSE_DEBOUNCE_MS: %d", debounceMS)
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_discovery"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TMDB: TMDBConfig{
			APIKey:            strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
			BaseURL:           getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL:      getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/original"),
			Timeout:           time.Duration(getEnvInt("TMDB_TIMEOUT_SECONDS", 15)) * time.Second,
			RequestsPerSecond: rps,
			Burst:             getEnvInt("TMDB_BURST", 5),
			CacheTTL:          time.Duration(getEnvInt("TMDB_CACHE_TTL_MINUTES", 10)) * time.Minute,
		},
		Watchlist: WatchlistConfig{
			Backend: strings.ToLower(getEnv("WATCHLIST_BACKEND", BackendFile)),
			Path:    getEnv("WATCHLIST_PATH", defaultStatePath()),
			Key:     getEnv("WATCHLIST_KEY", "MoviesApp"),
		},
		Browse: BrowseConfig{
			DebounceWindow:   time.Duration(debounceMS) * time.Millisecond,
			FallbackLanguage: getEnv("BROWSE_FALLBACK_LANGUAGE", "te"),
			BannerInterval:   time.Duration(getEnvInt("BANNER_INTERVAL_SECONDS", 3)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvInt("RATE_LIMIT_MAX", 120),
			Window: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
		Port:         getEnv("SERVER_PORT", "8081"),
		LogLevel:     level,
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	switch cfg.Watchlist.Backend {
	case BackendFile, BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid WATCHLIST_BACKEND: %q", cfg.Watchlist.Backend)
	}

	if cfg.TMDB.APIKey == "" {
		slog.Warn("TMDB_API_KEY is not set, catalog requests will fail")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL: %q", raw)
	}
	return level, nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "movie-discovery-state.json")
	}
	return filepath.Join(home, ".movie-discovery", "state.json")
}
