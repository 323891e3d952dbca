package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/PressureTank/promptbase/backend/config"
	"github.com/PressureTank/promptbase/backend/database"
	"github.com/PressureTank/promptbase/backend/logger"
	"github.com/PressureTank/promptbase/backend/middleware"
	"github.com/PressureTank/promptbase/backend/prompt"
	"github.com/PressureTank/promptbase/backend/web"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Error("Error loading configuration", zap.Error(err))
		return err
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})
	if err != nil {
		zap.NewExample().Error("Error creating logger", zap.Error(err))
		return err
	}
	defer log.Sync() // Flushes buffer, if any

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("Error opening database", zap.Error(err))
		return err
	}
	defer db.Close()

	// Create the prompts table if it does not exist
	if err := db.Initialize(ctx); err != nil {
		log.Error("Error creating prompts table", zap.Error(err))
		return err
	}

	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	prompt.NewPromptHandler(db, log).Register(r.PathPrefix("/api").Subrouter())
	web.NewFormHandler(db, log).Register(r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Server started", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("Error starting server", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
		return err
	}
	return nil
}
