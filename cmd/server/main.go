package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/selfquiz/backend/internal/api"
	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/id"
	"github.com/selfquiz/backend/internal/infrastructure/config"
	"github.com/selfquiz/backend/internal/metrics"
	"github.com/selfquiz/backend/internal/service"
	"github.com/selfquiz/backend/internal/store"

	_ "github.com/selfquiz/backend/docs" // generated swagger docs
)

// @title           Self-Quiz API
// @version         1.0
// @description     Multiple-choice self-quiz service: adaptive question selection, grading and mastery tracking.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(id.NewLogHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	composer := mastery.NewComposer(nil)
	if cfg.ShuffleSeed != nil {
		composer = mastery.NewSeededComposer(*cfg.ShuffleSeed)
		logger.Info("using fixed shuffle seed", "seed", *cfg.ShuffleSeed)
	}

	policy := mastery.Policy{
		MasteryThreshold: cfg.MasteryThreshold,
		RecoveryStreak:   cfg.RecoveryStreak,
	}

	rec := metrics.New()
	quizSvc := service.NewQuizService(db, policy, composer, rec, logger, service.Options{
		DefaultCount: cfg.DefaultQuizCount,
		EndlessCount: cfg.EndlessQuizCount,
	})
	handler := api.NewHandler(quizSvc, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	mux.Handle("GET /metrics", rec.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Recoverer → Logging → CORS → mux ──────────
	chain := middleware.Recoverer(api.Logging(logger, rec)(api.CORS(cfg.CORSAllowedOrigins)(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"db", cfg.DBPath,
		"mastery_threshold", policy.MasteryThreshold,
		"recovery_streak", policy.RecoveryStreak,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
