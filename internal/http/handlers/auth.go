package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/models/dto"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// AuthHandler owns the local signup/login endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email, username, and password are required")
		return
	}

	if taken, err := h.store.EmailExists(r.Context(), req.Email); err != nil {
		log.Printf("signup: check email: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	} else if taken {
		respondError(w, http.StatusBadRequest, "Email already in use")
		return
	}
	if taken, err := h.store.UsernameExists(r.Context(), req.Username); err != nil {
		log.Printf("signup: check username: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	} else if taken {
		respondError(w, http.StatusBadRequest, "Username already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Provider:     models.ProviderLocal,
		Roles:        []string{models.RoleUser},
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		// Two concurrent signups can both pass the existence checks; the
		// store's unique constraints settle the race.
		if errors.Is(err, storage.ErrAlreadyExists) {
			respondError(w, http.StatusBadRequest, "Email or username already in use")
			return
		}
		log.Printf("signup: create user: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.tokens.Generate(created)
	if err != nil {
		log.Printf("signup: generate token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	identifier := strings.TrimSpace(req.UsernameOrEmail)
	if identifier == "" {
		respondError(w, http.StatusBadRequest, "usernameOrEmail is required")
		return
	}

	user, err := h.store.UserByUsernameOrEmail(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: fetch user %q: %v", identifier, err)
		respondError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	// The same response covers a missing account and a wrong password.
	// OAuth-only accounts have an empty hash and always fall through here.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}
