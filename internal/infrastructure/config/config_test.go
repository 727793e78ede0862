package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/selfquiz/backend/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_ADDRESS", "SHUTDOWN_TIMEOUT", "DB_PATH", "LOG_LEVEL",
		"MASTERY_THRESHOLD", "RECOVERY_STREAK", "DEFAULT_QUIZ_COUNT",
		"ENDLESS_QUIZ_COUNT", "SHUFFLE_SEED", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	if cfg.ServerAddress != ":8080" {
		t.Errorf("expected default address :8080, got %q", cfg.ServerAddress)
	}
	if cfg.MasteryThreshold != 5 || cfg.RecoveryStreak != 3 {
		t.Errorf("expected thresholds 5/3, got %d/%d", cfg.MasteryThreshold, cfg.RecoveryStreak)
	}
	if cfg.DefaultQuizCount != 10 || cfg.EndlessQuizCount != 1000 {
		t.Errorf("expected quiz counts 10/1000, got %d/%d", cfg.DefaultQuizCount, cfg.EndlessQuizCount)
	}
	if cfg.ShuffleSeed != nil {
		t.Errorf("expected no shuffle seed, got %d", *cfg.ShuffleSeed)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS origin, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9000")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MASTERY_THRESHOLD", "8")
	t.Setenv("RECOVERY_STREAK", "2")
	t.Setenv("DEFAULT_QUIZ_COUNT", "20")
	t.Setenv("ENDLESS_QUIZ_COUNT", "500")
	t.Setenv("SHUFFLE_SEED", "42")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://quiz.example.com")

	cfg := config.Load()

	if cfg.ServerAddress != "127.0.0.1:9000" {
		t.Errorf("unexpected address %q", cfg.ServerAddress)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.MasteryThreshold != 8 || cfg.RecoveryStreak != 2 {
		t.Errorf("expected thresholds 8/2, got %d/%d", cfg.MasteryThreshold, cfg.RecoveryStreak)
	}
	if cfg.ShuffleSeed == nil || *cfg.ShuffleSeed != 42 {
		t.Errorf("expected shuffle seed 42, got %v", cfg.ShuffleSeed)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://quiz.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}
