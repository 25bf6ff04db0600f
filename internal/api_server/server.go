package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/config"
	handlers "github.com/blue-collar-job-portal/moderation/internal/handlers/v1alpha1"
	"github.com/blue-collar-job-portal/moderation/internal/ratelimit"
	"github.com/blue-collar-job-portal/moderation/internal/service"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/pkg/metrics"
	"github.com/blue-collar-job-portal/moderation/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg       *config.Config
	store     store.Store
	listener  net.Listener
	publisher service.EventPublisher
	limiter   ratelimit.Limiter
}

// New returns a new instance of the moderation api server.
func New(
	cfg *config.Config,
	store store.Store,
	publisher service.EventPublisher,
	limiter ratelimit.Limiter,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		listener:  listener,
		publisher: publisher,
		limiter:   limiter,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.GatewayRewrite(s.cfg.Service.GatewayPrefix),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
		authenticator.Authenticator,
	)

	jobService := service.NewJobModerationService(s.store, s.publisher)
	h := handlers.NewServiceHandler(
		jobService,
		service.NewAppealService(s.store, jobService, s.publisher),
		service.NewCompanyService(s.store, jobService, s.publisher),
		service.NewReportService(s.store, s.publisher),
		service.NewAuditService(s.store),
		s.limiter,
	)
	h.Routes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
