package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respondJSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// currentUser pulls the authenticated user from the request context,
// answering 401 for anonymous requests.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
	}
	return user, ok
}
