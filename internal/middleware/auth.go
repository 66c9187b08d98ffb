package middleware

import (
	"net/http"
	"strings"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// Authenticate resolves a bearer token to a user and stores it in the request
// context. Any token fault leaves the request anonymous rather than erroring
// here; authorization fails downstream instead.
func Authenticate(tokens *auth.TokenManager, users storage.UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		subject, _ := claims["sub"].(string)
		if subject == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := users.UserByUsername(r.Context(), subject)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}
