package handlers

import "net/http"

// UserHandler exposes the authenticated user's profile.
type UserHandler struct{}

// NewUserHandler constructs the handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users/me", h.handleMe)
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	country := user.Country
	if country == "" {
		country = "India"
	}
	currency := user.Currency
	if currency == "" {
		currency = "INR"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"country":   country,
		"currency":  currency,
	})
}
