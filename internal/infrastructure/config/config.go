package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DBPath          string
	LogLevel        slog.Level

	// Selection policy
	MasteryThreshold int // lifetime corrects that retire a question
	RecoveryStreak   int // consecutive corrects that leave the wrong pool

	DefaultQuizCount int
	EndlessQuizCount int
	ShuffleSeed      *uint64 // nil = random seed

	CORSAllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:      getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:    getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBPath:             getenvDefault("DB_PATH", "quiz.db"),
		LogLevel:           getLogLevel("LOG_LEVEL"),
		MasteryThreshold:   getPositiveInt("MASTERY_THRESHOLD", 5),
		RecoveryStreak:     getPositiveInt("RECOVERY_STREAK", 3),
		DefaultQuizCount:   getPositiveInt("DEFAULT_QUIZ_COUNT", 10),
		EndlessQuizCount:   getPositiveInt("ENDLESS_QUIZ_COUNT", 1000),
		ShuffleSeed:        getOptionalUint("SHUFFLE_SEED"),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getPositiveInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q must be a positive integer", k, v)
	}
	return n
}

func getOptionalUint(k string) *uint64 {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid unsigned integer: %v", k, v, err)
	}
	return &n
}

func getLogLevel(k string) slog.Level {
	var level slog.Level
	v := os.Getenv(k)
	if v == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(v)); err != nil {
		log.Fatalf("config: %s=%q is not a valid log level: %v", k, v, err)
	}
	return level
}

func getList(k string, fallback []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
