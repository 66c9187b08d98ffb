package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient shell state cannot
// leak into assertions. t.Setenv restores the originals after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "DATABASE_URL", "SQLITE_DB_PATH",
		"JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES",
		"CORS_ALLOWED_ORIGINS", "FRONTEND_URL",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "OAUTH_REDIRECT_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSQLiteDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", BackendSQLite)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, BackendSQLite, cfg.DataBackend)
	assert.Equal(t, "./data/wallet.db", cfg.SQLitePath)
	assert.Equal(t, "wallet-backend", cfg.JWTIssuer)
	assert.Equal(t, 60*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:5173/dashboard", cfg.FrontendURL)
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/wallet")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.Equal(t, "postgres://localhost:5432/wallet", cfg.DatabaseURL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", BackendSQLite)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", "mariadb")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTokenTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", BackendSQLite)
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("JWT_TTL_MINUTES", "15")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)

	// Unparseable and non-positive values fall back to an hour.
	for _, bad := range []string{"soon", "-5", "0"} {
		t.Setenv("JWT_TTL_MINUTES", bad)
		cfg, err = Load()
		require.NoError(t, err)
		assert.Equal(t, 60*time.Minute, cfg.JWTTTL, "value %q", bad)
	}
}

func TestLoadCORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", BackendSQLite)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://wallet.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://wallet.example.com"}, cfg.CORSOrigins)
}
