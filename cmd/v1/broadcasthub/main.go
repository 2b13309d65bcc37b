package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/RoseWrightdev/broadcast-hub/internal/v1/api"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/config"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/hub"
	"github.com/RoseWrightdev/broadcast-hub/internal/v1/logging"
)

func main() {
	envPaths := []string{".env", "../../../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			slog.Info("loaded environment from", "path", path)
			break
		}
	}

	cfg, err := config.ValidateEnv()
	if err != nil {
		slog.Error("invalid environment configuration", "error", err)
		os.Exit(1)
	}

	if err := logging.Initialize(cfg.IsDevelopment()); err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	h := hub.NewHub(cfg.ChatRetain)
	dispatcher := hub.NewDispatcher(h)
	router := api.NewRouter(h, dispatcher, cfg)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: router,
	}

	go func() {
		slog.Info("broadcast hub starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exiting")
}
