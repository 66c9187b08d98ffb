package server

import (
	"context"
	"net/http"
	"time"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/config"
	"github.com/digiwallet/wallet-be/internal/http/handlers"
	"github.com/digiwallet/wallet-be/internal/middleware"
	"github.com/digiwallet/wallet-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, tokens *auth.TokenManager) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, tokens),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Handler assembles the route table and middleware stack.
func Handler(cfg config.Config, store storage.Store, tokens *auth.TokenManager) http.Handler {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens).Register(mux)
	handlers.NewOAuthHandler(store, tokens, &cfg).Register(mux)
	handlers.NewUserHandler().Register(mux)
	handlers.NewBudgetHandler(store).Register(mux)
	handlers.NewCategoryHandler(store).Register(mux)
	handlers.NewTagHandler(store).Register(mux)
	handlers.NewExpenseHandler(store, store).Register(mux)

	return middleware.CORS(cfg.CORSOrigins,
		middleware.Logging(
			middleware.Authenticate(tokens, store, mux)))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
