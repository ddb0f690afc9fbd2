package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rentx-admin/internal/config"
	"rentx-admin/internal/handler"
	"rentx-admin/internal/middleware"
	"rentx-admin/internal/repository"
	"rentx-admin/internal/router"
	"rentx-admin/internal/session"
	"rentx-admin/internal/usecase"
	"rentx-admin/internal/view"
	"rentx-admin/internal/ws"
	"rentx-admin/pkg/client/backend"
	"rentx-admin/pkg/client/imagehost"
	"rentx-admin/pkg/utils/cache"
	"rentx-admin/pkg/utils/image"
)

const (
	loginRateNamespace = "dashboard_login_rate"
	auditMemoryCap     = 100
)

// Server is the dashboard HTTP server plus the connections it owns.
type Server struct {
	HTTP    *http.Server
	closers []func()
}

func (s *Server) onClose(fn func()) {
	s.closers = append(s.closers, fn)
}

// Close releases everything NewServer opened, newest first.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	s := &Server{}
	srv, err := s.build(ctx, cfg, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.HTTP = srv
	return s, nil
}

func (s *Server) build(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*http.Server, error) {
	// --- Redis ---
	var rc *cache.Cache
	if cfg.RedisAddr != "" {
		rc = cache.Dial(cfg.RedisAddr, cfg.RedisPass)
		s.onClose(func() { _ = rc.Close() })
		if err := rc.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	} else {
		embedded, stop, err := cache.Embedded()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		rc = embedded
		s.onClose(stop)
		logger.Warn("REDIS_ADDR not set, using embedded in-memory redis; sessions are lost on restart")
	}

	// --- Audit trail ---
	var audit repository.AuditRepository
	if cfg.DB.Enabled() {
		pool, err := config.ConnectDB(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		s.onClose(pool.Close)
		repo := repository.NewPgAuditRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		audit = repo
	} else {
		logger.Info("DB_HOST not set, audit events go to the log")
		audit = repository.NewLogAuditRepository(auditMemoryCap, logger)
	}

	// --- Clients ---
	backendClient := backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		RPS:     cfg.Backend.RPS,
		Burst:   cfg.Backend.Burst,
	}, logger)

	imageClient := imagehost.NewClient(imagehost.Options{
		UploadURL:    cfg.ImageHost.UploadURL,
		CloudName:    cfg.ImageHost.CloudName,
		UploadPreset: cfg.ImageHost.UploadPreset,
		Limits: image.Limits{
			MaxWidth:  cfg.ImageHost.MaxWidth,
			MaxHeight: cfg.ImageHost.MaxHeight,
			Quality:   cfg.ImageHost.Quality,
			MaxPixels: cfg.ImageHost.MaxPixels,
		},
	}, logger)
	if !cfg.ImageHost.Enabled() {
		logger.Warn("CLOUDINARY_CLOUD_NAME or CLOUDINARY_UPLOAD_PRESET not set, icon uploads disabled")
	}

	// --- Sessions ---
	secret := cfg.Session.Secret
	if secret == "" {
		logger.Warn("SESSION_SECRET not set, using a random secret; sessions do not survive a restart")
		secret = session.RandomSecret()
	}
	sessions := session.NewManager(
		session.NewRedisStore(rc),
		session.NewSigner(secret),
		cfg.Session.TTL,
		cfg.Session.VerifyTTL,
		logger,
	)

	// --- Middleware ---
	gate := middleware.NewGate(sessions, backendClient, logger)
	guard := middleware.NewGuard(rc, sessions, cfg.Session.SubmitGuardTTL, logger)

	// --- Session events ---
	wsCtx, cancel := context.WithCancel(context.Background())
	s.onClose(cancel)
	wsServer := ws.NewServer(logger)
	wsServer.Start(wsCtx)
	go ws.ListenSessionEvents(wsCtx, rc, wsServer.Hub(), logger, nil)
	publisher := ws.NewSessionEventPublisher(rc, logger)

	// --- Handlers ---
	renderer, err := view.New(logger)
	if err != nil {
		return nil, err
	}
	uc := usecase.NewDashboardUsecase(backendClient, imageClient, audit, logger)
	h := handler.NewDashboardHandler(uc, sessions, gate, renderer, wsServer, publisher, logger)

	loginLimiter := middleware.RateLimiter(rc,
		cfg.LoginLimit.Limit,
		cfg.LoginLimit.Window,
		cfg.LoginLimit.Block,
		loginRateNamespace,
		h.LoginThrottled,
		logger,
	)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.SetupRoutes(h, gate, guard, loginLimiter, cfg.TrustProxy, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}
