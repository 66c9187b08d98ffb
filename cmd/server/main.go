package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/digiwallet/wallet-be/internal/auth"
	"github.com/digiwallet/wallet-be/internal/config"
	"github.com/digiwallet/wallet-be/internal/server"
	"github.com/digiwallet/wallet-be/internal/storage"
	"github.com/digiwallet/wallet-be/internal/storage/postgres"
	"github.com/digiwallet/wallet-be/internal/storage/sqlite"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	// A weak signing key must halt startup, not surface per-request.
	if _, err := tokens.Key(); err != nil {
		log.Fatalf("signing key: %v", err)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	seeded, err := storage.SeedSystemTags(ctx, store)
	if err != nil {
		log.Fatalf("seed system tags: %v", err)
	}
	if seeded > 0 {
		log.Printf("seeded %d system tags", seeded)
	}

	srv := server.New(cfg, store, tokens)

	go func() {
		log.Printf("wallet backend listening on %s (backend=%s)", cfg.HTTPAddress(), cfg.DataBackend)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.DataBackend == config.BackendSQLite {
		return sqlite.New(cfg.SQLitePath)
	}
	return postgres.New(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
