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

	"spendbook/config"
	"spendbook/database"
	"spendbook/handlers"
	"spendbook/logging"
	"spendbook/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.ConfigFor(false)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.ConfigFor(!cfg.IsDevelopment()))

	ctx := context.Background()

	// Startup provisioning: make sure the database and table exist before
	// taking traffic. Any failure here is fatal.
	if err := database.EnsureDatabase(ctx, cfg, logger); err != nil {
		logger.Error("failed to ensure database exists", "error", err)
		os.Exit(1)
	}

	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	h := handlers.New(store, logger, cfg.IsDevelopment())

	r := mux.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.NotFoundHandler = handlers.NotFound()
	r.MethodNotAllowedHandler = handlers.MethodNotAllowed()

	// Routes are reachable both directly and under /api.
	h.Register(r)
	h.Register(r.PathPrefix("/api").Subrouter())

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
