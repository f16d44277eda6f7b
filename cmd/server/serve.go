package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/jobbook/internal/auth"
	"github.com/mmynk/jobbook/internal/config"
	"github.com/mmynk/jobbook/internal/metrics"
	"github.com/mmynk/jobbook/internal/service"
	"github.com/mmynk/jobbook/internal/storage/jsonfile"
	"github.com/mmynk/jobbook/internal/storage/sqlite"
	"github.com/mmynk/jobbook/internal/web"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address (env "+config.EnvAddr+")")
	flags.String("metrics-addr", "", "separate listen address for /metrics, disabled when empty (env "+config.EnvMetricsAddr+")")
	flags.String("db-path", "", "client database path, default <data-dir>/clients.db (env "+config.EnvDBPath+")")
	flags.Duration("session-ttl", 0, "session lifetime, 0 keeps sessions until logout (env "+config.EnvSessionTTL+")")
	flags.Bool("secure-cookie", false, "mark the session cookie Secure, for HTTPS deployments (env "+config.EnvSecureCookie+")")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	files, err := jsonfile.New(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	slog.Info("File storage initialized", "jobs", files.JobsPath(), "settings", files.SettingsPath())

	clientStore, err := sqlite.New(cfg.ClientDBPath())
	if err != nil {
		return fmt.Errorf("failed to initialize client database: %w", err)
	}
	defer clientStore.Close()
	slog.Info("Client database initialized", "database", cfg.ClientDBPath())

	settings, err := service.NewSettingsService(ctx, files)
	if err != nil {
		return err
	}
	if !settings.Current().HasCredentials() {
		slog.Warn("No login configured, run 'jobbook set-credentials'; it applies from the next login attempt without a restart")
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		if secret, err = auth.GenerateSecret(); err != nil {
			return err
		}
		slog.Warn("No session secret configured, sessions will not survive a restart", "env", config.EnvSessionSecret)
	}
	sessions := auth.NewSessionManager(secret, cfg.Session.TTL, cfg.Session.SecureCookie)

	m := metrics.New()
	logger := slog.Default()
	srv, err := web.New(web.Options{
		Jobs:     service.NewJobService(files, m),
		Clients:  service.NewClientService(clientStore, m),
		Settings: settings,
		Auth:     service.NewAuthService(settings, sessions, m, logger),
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	servers := []*http.Server{newHTTPServer(ctx, cfg.Server.Addr, h2c.NewHandler(srv.Handler(), &http2.Server{}))}
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		servers = append(servers, newHTTPServer(ctx, cfg.Server.MetricsAddr, mux))
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			slog.Info("Server starting", "address", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", s.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
}
