package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/kjkhy9/perfectplan/internal/auth"
	"github.com/kjkhy9/perfectplan/internal/handler"
	"github.com/kjkhy9/perfectplan/internal/metrics"
	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/relay"
	"github.com/kjkhy9/perfectplan/internal/service"
	"github.com/kjkhy9/perfectplan/internal/storage/sqlite"
	"github.com/kjkhy9/perfectplan/pkg/logging"
)

const (
	defaultPort   = "8080"
	defaultDBPath = "data/perfectplan.db"

	tokenDuration   = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	store, err := sqlite.New(getEnv("DB_PATH", defaultDBPath))
	if err != nil {
		return err
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	hub := relay.NewHub(collector)
	defer hub.Close()

	authLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 5)
	defer authLimiter.Stop()

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := handler.NewRouter(handler.Deps{
		AuthService:  service.NewAuthService(authenticator, jwtManager),
		GroupService: service.NewGroupService(store),
		EventService: service.NewEventService(store),
		PollService:  service.NewPollService(store),
		ChatService:  service.NewChatService(store),
		Hub:          hub,
		JWTManager:   jwtManager,
		Observer:     collector,
		Gatherer:     registry,
		AuthLimiter:  authLimiter,
	})

	port := getEnv("PORT", defaultPort)
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
