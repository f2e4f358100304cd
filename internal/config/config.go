package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port              string
	DBURL             string
	DBMigrate         bool
	AuthJWTSecret     string
	AuthJWTAudience   string
	TMDBAPIKey        string
	TMDBBaseURL       string
	TMDBLanguage      string
	TMDBTimeoutSecs   int
	TMDBCacheTTLSecs  int
	ReadTimeoutSecs   int
	WriteTimeoutSecs  int
	IdleTimeoutSecs   int
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
}

// Load reads configuration from environment variables, applying defaults and validation.
// TMDB_API_KEY is optional here: without it the server still starts and every
// catalog request reports a configuration error.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DBURL:             os.Getenv("DB_URL"),
		DBMigrate:         getEnvBool("DB_MIGRATE", true),
		AuthJWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		AuthJWTAudience:   getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
		TMDBAPIKey:        getEnv("TMDB_API_KEY", os.Getenv("NEXT_PUBLIC_TMDB_API_KEY")),
		TMDBBaseURL:       getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBLanguage:      getEnv("TMDB_LANGUAGE", "ko-KR"),
		TMDBTimeoutSecs:   getEnvInt("TMDB_TIMEOUT_SECS", 10),
		TMDBCacheTTLSecs:  getEnvInt("TMDB_CACHE_TTL_SECS", 3600),
		ReadTimeoutSecs:   getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:  getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:   getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.AuthJWTSecret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.TMDBCacheTTLSecs < 0 {
		return Config{}, fmt.Errorf("TMDB_CACHE_TTL_SECS must be non-negative")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

// TMDBCacheTTL converts TMDB_CACHE_TTL_SECS to the client's CacheTTL option.
// Zero seconds turns the response cache off.
func (c Config) TMDBCacheTTL() time.Duration {
	if c.TMDBCacheTTLSecs == 0 {
		return -1
	}
	return time.Duration(c.TMDBCacheTTLSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
