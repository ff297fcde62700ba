package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ticketdesk/internal/config"
	"github.com/vango-dev/ticketdesk/internal/errors"
	"github.com/vango-dev/ticketdesk/internal/tickets"
	"github.com/vango-dev/ticketdesk/internal/ui"
	"github.com/vango-dev/ticketdesk/pkg/middleware"
	"github.com/vango-dev/ticketdesk/pkg/server"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

type serveOptions struct {
	configPath string
	addr       string
	variant    string
	policy     string
	logLevel   string
	demo       bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ticket tracker server",
		Long: `Start the HTTP and WebSocket server.

Settings come from ticketdesk.jsonc when present; flags override them.
Every browser tab gets its own ticket state.

Examples:
  ticketdesk serve
  ticketdesk serve --addr=0.0.0.0:8080 --variant=threaded
  ticketdesk serve --config=deploy/ticketdesk.jsonc --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			return runServe(cmd.Context(), opts, explicit)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.ConfigFileName, "Path to the configuration file")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Layout: classic or threaded")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Event binding policy: generic or allowlist")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Start every session with sample tickets")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions, explicit bool) error {
	cfg, err := loadConfig(opts.configPath, explicit)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if opts.addr != "" {
		cfg.Server.Address = opts.addr
	}
	if opts.variant != "" {
		cfg.UI.Variant = opts.variant
	}
	if opts.policy != "" {
		cfg.UI.EventPolicy = opts.policy
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	uiOpts, err := uiOptions(cfg.UI)
	if err != nil {
		return err
	}
	state := initialState(opts.demo)
	factory := func() vdom.View {
		return ui.New(tickets.NewStore(state), uiOpts).Render
	}

	srvConfig := &server.ServerConfig{
		Address:           cfg.Server.Address,
		Title:             cfg.UI.Title,
		Styles:            []string{ui.Stylesheet},
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
		ShutdownTimeout:   cfg.ShutdownTimeout(),
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		MaxSessions:       cfg.Session.MaxSessions,
		SessionConfig: &server.SessionConfig{
			ReadTimeout:    cfg.SessionReadTimeout(),
			MaxMessageSize: cfg.Session.MaxMessageBytes,
		},
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		srvConfig.MetricsPath = cfg.Metrics.Path
		srvConfig.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	srv := server.New(factory, srvConfig)
	srv.Use(middleware.OpenTelemetry())
	if metrics != nil {
		srv.Use(metrics)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("ticketdesk starting",
		"addr", cfg.Server.Address,
		"variant", uiOpts.Variant,
		"policy", cfg.UI.EventPolicy,
		"metrics", cfg.Metrics.Enabled,
	)
	if err := srv.Run(ctx); err != nil {
		return errors.New("T402").Wrap(err)
	}
	logger.Info("ticketdesk stopped")
	return nil
}
