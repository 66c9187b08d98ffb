package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DataBackend string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	CORSOrigins []string
	FrontendURL string

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DataBackend: fallback(os.Getenv("DATA_BACKEND"), BackendPostgres),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  fallback(os.Getenv("SQLITE_DB_PATH"), "./data/wallet.db"),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer: fallback(os.Getenv("JWT_ISSUER"), "wallet-backend"),

		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		FrontendURL: fallback(os.Getenv("FRONTEND_URL"), "http://localhost:5173/dashboard"),

		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),
		OAuthRedirectURL:   fallback(os.Getenv("OAUTH_REDIRECT_URL"), "http://localhost:8080/oauth2/callback/google"),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	switch cfg.DataBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when DATA_BACKEND=postgres")
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, errors.New("SQLITE_DB_PATH is required when DATA_BACKEND=sqlite")
		}
	default:
		return Config{}, fmt.Errorf("unknown DATA_BACKEND %q (want %q or %q)", cfg.DataBackend, BackendPostgres, BackendSQLite)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
