package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "mealmate/internal/adapter/http"
	"mealmate/internal/adapter/jwtauth"
	"mealmate/internal/adapter/memory"
	"mealmate/internal/adapter/postgres"
	"mealmate/internal/app"
	"mealmate/internal/config"
	"mealmate/internal/domain"
	"mealmate/internal/logger"
)

// store is the union of the repository ports every backend implements.
type store interface {
	domain.UserRepository
	domain.MealRepository
	domain.WorkoutRepository
}

func main() {
	if err := run(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetDebug(cfg.LogDebug)

	var db store
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		db = memory.New()
	default:
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = pg.Close() }()
		db = pg
	}

	tokens, err := jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	userSvc := app.NewUserService(db, tokens)
	mealSvc := app.NewMealService(db, db)
	workoutSvc := app.NewWorkoutService(db, db)
	summarySvc := app.NewSummaryService(db, db, db)

	opts := adapthttp.Options{WebDir: cfg.WebDir, CORSOrigins: cfg.CORSOrigins}
	if cfg.OIDC.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		cancel()
		if err != nil {
			return err
		}
		opts.OIDC = oidcCfg
		logger.Info("sso enabled via %s", cfg.OIDC.Issuer)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           adapthttp.New(userSvc, mealSvc, workoutSvc, summarySvc, opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Success("listening on %s (store=%s)", cfg.Addr, cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
