package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/blue-collar-job-portal/moderation/internal/api_server"
	"github.com/blue-collar-job-portal/moderation/internal/config"
	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/ratelimit"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/translation"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/blue-collar-job-portal/moderation/pkg/migrations"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reportRateLimitPrefix = "moderation:reports"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the moderation api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		cleanup := setupLogger(cfg)
		defer cleanup()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrate(db, s, cfg.Service.MigrationFolder); err != nil {
			zap.S().Fatalw("running migrations", "error", err)
		}

		metrics.RegisterQueueCollector(s)

		writer, err := newEventWriter(cfg, s)
		if err != nil {
			zap.S().Fatalw("creating event writer", "error", err)
		}
		producer := events.NewEventProducer(writer)
		defer func() {
			if err := producer.Close(); err != nil {
				zap.S().Warnw("closing event producer", "error", err)
			}
		}()

		limiter, closeLimiter := newReportLimiter(cfg.Service.RateLimit)
		defer closeLimiter()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, producer, limiter, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("failed to run metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

// migrate applies the goose migrations when a folder is configured and falls back to
// the model based schema otherwise.
func migrate(db *gorm.DB, s store.Store, folder string) error {
	if folder == "" {
		return s.InitialMigration()
	}
	return migrations.MigrateStore(db, folder)
}

// newEventWriter builds the broker writer and adds the translation consumer when enabled.
func newEventWriter(cfg *config.Config, s store.Store) (events.Writer, error) {
	var broker events.Writer
	switch cfg.Service.Events.Broker {
	case "amqp":
		w, err := events.NewAMQPWriter(cfg.Service.Events.AmqpURL, cfg.Service.Events.Exchange)
		if err != nil {
			return nil, err
		}
		broker = w
	default:
		broker = &events.StdoutWriter{}
	}

	if !cfg.Service.Translation.Enabled {
		return broker, nil
	}

	tr := cfg.Service.Translation
	var translator translation.Translator = translation.NoopTranslator{}
	if tr.APIKey != "" {
		translator = translation.NewOpenAITranslator(tr.APIKey, tr.BaseURL, tr.Model, tr.Timeout)
	}
	return events.NewFanOutWriter(broker, translation.NewConsumer(translator, s, tr.SourceLocale)), nil
}

func newReportLimiter(cfg config.RateLimit) (ratelimit.Limiter, func()) {
	if cfg.RedisAddress == "" {
		zap.S().Info("report rate limiting disabled")
		return ratelimit.NoopLimiter{}, func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	return ratelimit.NewRedisLimiter(client, cfg.Reports, cfg.Window, reportRateLimitPrefix), func() {
		_ = client.Close()
	}
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
