package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"anuragmeds/internal/audit"
	auditpg "anuragmeds/internal/audit/store/postgres"
	auditworker "anuragmeds/internal/audit/worker"
	authHandler "anuragmeds/internal/auth/handler"
	authService "anuragmeds/internal/auth/service"
	userstore "anuragmeds/internal/auth/store/user"
	"anuragmeds/internal/jwttoken"
	"anuragmeds/internal/payment/gateway"
	paymentHandler "anuragmeds/internal/payment/handler"
	paymentService "anuragmeds/internal/payment/service"
	"anuragmeds/internal/platform/config"
	"anuragmeds/internal/platform/httpserver"
	"anuragmeds/internal/platform/logger"
	"anuragmeds/internal/platform/metrics"
	"anuragmeds/internal/platform/postgres"
	redisclient "anuragmeds/internal/platform/redis"
	prescriptionHandler "anuragmeds/internal/prescription/handler"
	prescriptionService "anuragmeds/internal/prescription/service"
	prescriptionstore "anuragmeds/internal/prescription/store"
	"anuragmeds/internal/ratelimit/authlockout"
	httptransport "anuragmeds/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	log := logger.New()
	cfg := config.FromEnv(log)

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()

	// Audit pipeline: postgres outbox drained to Kafka when brokers are
	// configured, an in-memory sink otherwise.
	var auditStore audit.Store = audit.NewInMemoryStore()
	var worker *auditworker.Worker
	if len(cfg.KafkaBrokers) > 0 {
		outbox := auditpg.New(db)
		auditStore = outbox

		kafkaClient, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.KafkaBrokers...),
			kgo.DefaultProduceTopic(cfg.AuditTopic),
		)
		if err != nil {
			log.Error("failed to create kafka client", "error", err)
			os.Exit(1)
		}
		defer kafkaClient.Close()

		worker = auditworker.New(outbox, kafkaClient, cfg.AuditTopic, log)
		if err := worker.EnsureTopic(ctx); err != nil {
			log.Warn("could not ensure audit topic", "error", err)
		}
	}
	auditPublisher := audit.NewPublisher(auditStore)

	// Login lockout: shared state in redis when configured.
	var lockoutStore authlockout.Store = authlockout.NewInMemory()
	if cfg.RedisURL != "" {
		rc, err := redisclient.New(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		lockoutStore = authlockout.NewRedis(rc.Client)
	}
	lockout := authlockout.New(lockoutStore, log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "anuragmeds", cfg.TokenTTL)
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	users := userstore.NewPostgres(db)
	auth := authService.New(users, jwtService,
		authService.WithLogger(log),
		authService.WithAuditPublisher(auditPublisher),
		authService.WithMetrics(m),
		authService.WithLockout(lockout),
	)

	prescriptions := prescriptionService.New(prescriptionstore.NewPostgres(db), cfg.AdminListLimit,
		prescriptionService.WithLogger(log),
		prescriptionService.WithAuditPublisher(auditPublisher),
		prescriptionService.WithMetrics(m),
	)

	payments := paymentService.New(
		gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpaySecret),
		cfg.RazorpayKeyID, cfg.RazorpaySecret,
		paymentService.WithLogger(log),
		paymentService.WithAuditPublisher(auditPublisher),
		paymentService.WithMetrics(m),
	)

	router := httptransport.NewRouter(log,
		authHandler.New(auth, log, jwtValidator),
		prescriptionHandler.New(prescriptions, log, jwtValidator, cfg.MaxUploadBytes),
		paymentHandler.New(payments, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if worker != nil {
		g.Go(func() error {
			err := worker.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
