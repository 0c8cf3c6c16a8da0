package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-wide configuration. Secrets are read once at
// startup and are read-only afterwards.
type Server struct {
	Addr string

	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxIdle   time.Duration
	JWTSigningKey   string
	TokenTTL        time.Duration
	RazorpayKeyID   string
	RazorpaySecret  string
	RedisURL        string
	KafkaBrokers    []string
	AuditTopic      string
	MaxUploadBytes  int64
	AdminListLimit  int
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Missing gateway or signing secrets degrade to a logged warning rather than a
// startup failure; the database URL is the one thing the process cannot run
// without.
func FromEnv(logger *slog.Logger) Server {
	cfg := Server{
		Addr:           envOr("ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 5),
		DBMaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 2),
		DBConnMaxIdle:  5 * time.Minute,
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
		TokenTTL:       7 * 24 * time.Hour,
		RazorpayKeyID:  os.Getenv("RAZORPAY_KEY_ID"),
		RazorpaySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AuditTopic:     envOr("AUDIT_TOPIC", "meds.audit"),
		MaxUploadBytes: 10 << 20,
		AdminListLimit: 200,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSigningKey == "" {
		logger.Warn("JWT_SIGNING_KEY not set, using development default")
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpaySecret == "" {
		logger.Warn("RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET not set, payment endpoints will reject requests")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
