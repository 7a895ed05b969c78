package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
	"github.com/mmynk/splitledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := session.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL)
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, tokens will not survive a restart")
	}
	tokens, err := session.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, store.Size)

	limiter, err := middleware.NewLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	dispatcher := shell.NewDispatcher(cfg.NamePolicy)
	slog.Info("Session store ready",
		"capacity", cfg.SessionCapacity,
		"ttl", cfg.SessionTTL,
		"name_policy", dispatcher.Policy(),
	)

	// Interceptors run outermost first: metrics see auth failures, logging
	// sees the session ID.
	open := connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.LoggingInterceptor())
	guarded := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireSession(tokens),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(service.NewSessionServiceHandler(service.NewSessionService(store, tokens, cfg.SessionTTL, m), open))
	mux.Handle(service.NewLedgerServiceHandler(service.NewLedgerService(store, dispatcher, m), guarded))
	mux.Handle(service.NewSplitServiceHandler(service.NewSplitService(store, dispatcher, m), guarded))
	service.NewExportHandler(store, tokens).Register(mux)

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.StaticPath != "" {
		if err := serveStatic(mux, cfg.StaticPath); err != nil {
			return err
		}
	}

	handler := middleware.Logging(middleware.CORS(middleware.RateLimit(limiter)(mux)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		janitor(gctx, store, cfg.JanitorInterval)
		return nil
	})

	return g.Wait()
}

// janitor drops idle sessions every interval until ctx is done.
func janitor(ctx context.Context, store session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.CleanExpired(); removed > 0 {
				slog.Debug("Expired sessions removed", "count", removed, "remaining", store.Size())
			}
		}
	}
}

// serveStatic serves the front-end from dir, falling back to index.html for
// unknown paths.
func serveStatic(mux *http.ServeMux, dir string) error {
	staticDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	slog.Info("Serving static files", "path", staticDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPC paths must not fall through to the front-end.
		if strings.HasPrefix(r.URL.Path, "/splitledger.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
	return nil
}
