package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/digiwallet/wallet-be/internal/models"
)

// ErrInvalidToken covers any malformed, forged, or expired bearer token.
var ErrInvalidToken = errors.New("invalid token")

// minKeyBytes is the HS256 floor: 256 bits.
const minKeyBytes = 32

// TokenManager issues and validates signed JWTs for authenticated users.
type TokenManager struct {
	secret string
	issuer string
	ttl    time.Duration

	once   sync.Once
	key    []byte
	keyErr error
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// Key derives the signing key once and caches it for the process lifetime.
// The secret is treated as base64 when it decodes, raw UTF-8 bytes otherwise,
// and must yield at least 256 bits. A short key is a configuration error:
// callers should invoke Key at startup and refuse to serve on failure.
func (t *TokenManager) Key() ([]byte, error) {
	t.once.Do(func() {
		keyBytes, err := base64.StdEncoding.DecodeString(t.secret)
		if err != nil {
			keyBytes = []byte(t.secret)
		}
		if len(keyBytes) < minKeyBytes {
			t.keyErr = fmt.Errorf(
				"JWT secret too short (%d bits): provide at least a 256-bit secret, e.g. `openssl rand -base64 48`",
				len(keyBytes)*8)
			return
		}
		t.key = keyBytes
	})
	return t.key, t.keyErr
}

// Generate issues a signed JWT for the user, with the username as subject and
// the numeric id in the uid claim.
func (t *TokenManager) Generate(user models.User) (string, error) {
	key, err := t.Key()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": t.issuer,
		"sub": user.Username,
		"uid": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// Parse verifies signature and expiry and returns the embedded claims.
// Every validation fault collapses into ErrInvalidToken; callers treat it as
// "unauthenticated", not as a server error.
func (t *TokenManager) Parse(tokenString string) (jwt.MapClaims, error) {
	key, err := t.Key()
	if err != nil {
		return nil, err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
