package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/config"
	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

const (
	stateCookie        = "oauth_state"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler completes the Google login handshake, provisioning a local
// user record on first login.
type OAuthHandler struct {
	store       storage.UserStore
	tokens      *auth.TokenManager
	oauth       *oauth2.Config
	frontendURL string
	userInfoURL string
}

// NewOAuthHandler constructs the handler from configured Google credentials.
func NewOAuthHandler(store storage.UserStore, tokens *auth.TokenManager, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		store:  store,
		tokens: tokens,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		frontendURL: cfg.FrontendURL,
		userInfoURL: defaultUserInfoURL,
	}
}

// Register attaches the OAuth routes to the mux.
func (h *OAuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /oauth2/authorize/google", h.handleAuthorize)
	mux.HandleFunc("GET /oauth2/callback/google", h.handleCallback)
}

func (h *OAuthHandler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start OAuth flow")
		return
	}
	state := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	if errStr := r.URL.Query().Get("error"); errStr != "" {
		respondError(w, http.StatusBadRequest, "OAuth error: "+errStr)
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		respondError(w, http.StatusBadRequest, "OAuth state mismatch")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	exchanged, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("oauth: token exchange: %v", err)
		respondError(w, http.StatusBadGateway, "failed to complete OAuth exchange")
		return
	}
	info, err := h.fetchUserInfo(r.Context(), exchanged)
	if err != nil {
		log.Printf("oauth: fetch userinfo: %v", err)
		respondError(w, http.StatusBadGateway, "failed to fetch user profile")
		return
	}

	user, err := h.findOrProvision(r.Context(), info)
	if err != nil {
		log.Printf("oauth: provision user: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to provision user")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("oauth: generate token: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	separator := "?"
	if strings.Contains(h.frontendURL, "?") {
		separator = "&"
	}
	http.Redirect(w, r, h.frontendURL+separator+"token="+url.QueryEscape(token), http.StatusFound)
}

type googleUserInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Locale     string `json:"locale"`
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := h.oauth.Client(ctx, token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	return info, nil
}

// findOrProvision looks up a local user by the provider email, creating one
// on first login.
func (h *OAuthHandler) findOrProvision(ctx context.Context, info googleUserInfo) (models.User, error) {
	user, err := h.store.UserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	username, err := h.uniqueUsername(ctx, deriveUsername(info.Email, info.Name))
	if err != nil {
		return models.User{}, err
	}
	locale := info.Locale
	if locale == "" {
		locale = "IN"
	}
	return h.store.CreateUser(ctx, models.User{
		Username:  username,
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Country:   locale,
		Currency:  auth.CurrencyForCountry(locale),
		Provider:  models.ProviderGoogle,
		Roles:     []string{models.RoleUser},
	})
}

// uniqueUsername appends an incrementing numeric suffix until the candidate
// is free: a, a1, a2, ...
func (h *OAuthHandler) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := h.store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}

func deriveUsername(email, name string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
