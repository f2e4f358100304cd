package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/now-playing/internal/auth"
	"github.com/Clark-Hu/now-playing/internal/config"
	httpserver "github.com/Clark-Hu/now-playing/internal/http"
	"github.com/Clark-Hu/now-playing/internal/repository"
	"github.com/Clark-Hu/now-playing/internal/store"
	"github.com/Clark-Hu/now-playing/internal/tmdb"
	"github.com/Clark-Hu/now-playing/internal/userdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadEnvFiles(log.Default(), ".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[now-playing] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Migrate:                cfg.DBMigrate,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	catalog, err := tmdb.NewHTTPClient(tmdb.Options{
		BaseURL:  cfg.TMDBBaseURL,
		APIKey:   cfg.TMDBAPIKey,
		Language: cfg.TMDBLanguage,
		Timeout:  time.Duration(cfg.TMDBTimeoutSecs) * time.Second,
		CacheTTL: cfg.TMDBCacheTTL(),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("init tmdb client: %v", err)
	}
	if cfg.TMDBAPIKey == "" {
		logger.Printf("TMDB_API_KEY is not set; now playing requests will fail until it is configured")
	}

	verifier, err := auth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTAudience, logger)
	if err != nil {
		log.Fatalf("init auth: %v", err)
	}

	repo := repository.New(st)
	users := userdata.New(auth.ContextResolver{}, repo.Bookmarks, repo.Ratings, logger)
	server := httpserver.New(cfg, st, catalog, users, verifier, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}
