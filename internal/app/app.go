package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/eservices-storefront/internal/domain/advisor"
	"github.com/xenking/eservices-storefront/internal/domain/catalog"
	"github.com/xenking/eservices-storefront/internal/domain/session"
	"github.com/xenking/eservices-storefront/internal/gemini"
	"github.com/xenking/eservices-storefront/internal/handler"
	"github.com/xenking/eservices-storefront/internal/storage/catalogfile"
	"github.com/xenking/eservices-storefront/internal/storage/memory"
	"github.com/xenking/eservices-storefront/internal/storage/pebblestore"
	"github.com/xenking/eservices-storefront/internal/storefront"
	"github.com/xenking/eservices-storefront/pkg/health"
	"github.com/xenking/eservices-storefront/pkg/httpmiddleware"
)

// service is the assembled application before it starts serving.
type service struct {
	handler http.Handler
	health  *health.Registry
	limiter *httpmiddleware.Limiter
	closers []io.Closer
}

func (s *service) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	return err
}

// setup builds every dependency and the HTTP handler.
func setup(
	ctx context.Context,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	cfg *Config,
) (_ *service, rerr error) {
	s := &service{health: health.New()}
	defer func() {
		if rerr != nil {
			_ = s.Close()
		}
	}()

	var src catalog.Source = catalog.SeedSource{}
	if cfg.CatalogFile != "" {
		src = catalogfile.New(cfg.CatalogFile)
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded",
		zap.Int("services", cat.Len()),
		zap.String("file", cfg.CatalogFile),
	)

	var repo session.Repository = memory.New()
	if cfg.SessionDir != "" {
		db, err := pebblestore.Open(cfg.SessionDir)
		if err != nil {
			return nil, errors.Wrap(err, "open session store")
		}
		s.closers = append(s.closers, db)
		s.health.Register(health.Readiness, "sessions", health.Ping(db), health.WithTimeout(5*time.Second))
		repo = db
	}
	s.health.Register(health.Liveness, "goroutines", health.Goroutines(10000))
	s.health.Register(health.Liveness, "gc", health.GCPause(time.Second))

	var collab advisor.Collaborator
	if cfg.GenAI.APIKey != "" {
		c, err := gemini.New(ctx, gemini.Config{APIKey: cfg.GenAI.APIKey, Model: cfg.GenAI.Model})
		if err != nil {
			return nil, errors.Wrap(err, "create gemini client")
		}
		collab = c
		lg.Info("AI advisor enabled", zap.String("model", c.Model()))
	} else {
		lg.Warn("No Gemini API key, AI advisor serves fallback text")
	}
	adv := advisor.New(collab,
		advisor.WithTracerProvider(tp),
		advisor.WithMeterProvider(mp),
	)

	s.limiter = httpmiddleware.NewLimiter(httpmiddleware.RateLimitConfig{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	})

	store := storefront.New(cat, session.NewStore(repo), adv)
	h := handler.New(store, handler.Options{AILimit: s.limiter.Middleware()})

	mux := http.NewServeMux()
	mux.Handle("GET /livez", s.health.Handler(health.Liveness))
	mux.Handle("GET /readyz", s.health.Handler(health.Readiness))
	h.Register(mux)

	s.handler = httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", httpmiddleware.RequestIDHeader},
			ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Instrument("estore-api", tp, mp),
		httpmiddleware.LogRequests(),
	)
	return s, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	svc, err := setup(ctx, lg, m.TracerProvider(), m.MeterProvider(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			lg.Error("Close resources", zap.Error(err))
		}
	}()

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// AI calls dominate response time.
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler:        svc.handler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.health.Run(gCtx, 10*time.Second)
	})
	g.Go(func() error {
		return svc.limiter.Run(gCtx)
	})
	g.Go(func() error {
		// Graceful shutdown: wait for cancellation, drain, then stop.
		<-gCtx.Done()
		svc.health.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	g.Go(func() error {
		svc.health.SetReady(true)
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
