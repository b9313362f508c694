package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/servlet-greeting/internal/http/v1/routes"
	"github.com/janisto/servlet-greeting/internal/platform/config"
	"github.com/janisto/servlet-greeting/internal/platform/firebase"
	applog "github.com/janisto/servlet-greeting/internal/platform/logging"
	appmiddleware "github.com/janisto/servlet-greeting/internal/platform/middleware"
	"github.com/janisto/servlet-greeting/internal/platform/respond"
	"github.com/janisto/servlet-greeting/internal/service/greeting"
)

const serviceName = "servlet-greeting"

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "config load failed", err)
	}
	if err := applog.Configure(applog.Options{
		Service:   serviceName,
		Version:   Version,
		Level:     cfg.LogLevel,
		ProjectID: cfg.Firebase.ProjectID,
	}); err != nil {
		applog.LogFatal(ctx, "invalid LOG_LEVEL", err, zap.String("level", cfg.LogLevel))
	}
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}

	provider, closeProvider, err := newGreetingProvider(ctx, cfg)
	if err != nil {
		applog.LogFatal(ctx, "greeting provider init failed", err,
			zap.String("provider", cfg.Greeting.Provider))
	}
	defer func() {
		if err := closeProvider(); err != nil {
			applog.LogError(ctx, "greeting provider close error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, provider),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}

	if err := serve(srv, cfg.ShutdownTimeout); err != nil {
		applog.LogError(ctx, "server error", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	}
	applog.LogInfo(ctx, "server exited")
}

// newGreetingProvider builds the provider selected by configuration and a
// function releasing its resources.
func newGreetingProvider(ctx context.Context, cfg config.Config) (greeting.Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Greeting.Provider {
	case config.ProviderStatic:
		return greeting.NewStatic(cfg.Greeting.Text), noop, nil
	case config.ProviderFirestore:
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, noop, err
		}
		return greeting.NewFirestoreStore(clients.Firestore, cfg.Greeting.Document), clients.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown greeting provider %q", cfg.Greeting.Provider)
	}
}

// newRouter assembles middleware, error handlers and the route table.
func newRouter(cfg config.Config, provider greeting.Provider) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; run only behind a trusted proxy such as Cloud Run.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	humaCfg := huma.DefaultConfig("Servlet Greeting API", Version)
	humaCfg.DocsPath = "/api-docs"
	api := humachi.New(router, humaCfg)

	routes.Register(router, api, routes.Dependencies{
		Greeting: provider,
		Version:  Version,
	})
	return router
}

// serve runs srv until SIGINT/SIGTERM, then drains connections for at most shutdownTimeout.
func serve(srv *http.Server, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serveUntil(ctx, srv, ln, shutdownTimeout)
}

func serveUntil(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
