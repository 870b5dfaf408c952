package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"upstreamproxy/internal/adapter/inbound/api"
	"upstreamproxy/internal/adapter/outbound/gitsource"
	"upstreamproxy/internal/adapter/outbound/messaging"
	"upstreamproxy/internal/adapter/outbound/session"
	"upstreamproxy/internal/application/common/retry"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/application/diagnostics"
	"upstreamproxy/internal/config"
	"upstreamproxy/internal/version"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// ServiceFactory creates the components the API server is assembled from.
type ServiceFactory struct {
	config  *config.Config
	closers []func(context.Context) error
}

// NewServiceFactory creates a new ServiceFactory
func NewServiceFactory(cfg *config.Config) *ServiceFactory {
	return &ServiceFactory{config: cfg}
}

// CreateEmitter builds the diagnostic sinks enabled by the configuration. Logging is
// always on; metrics and NATS publishing are optional.
func (sf *ServiceFactory) CreateEmitter(ctx context.Context) (diagnostics.Emitter, error) {
	emitters := diagnostics.Multi{diagnostics.NewLogEmitter(nil)}

	if sf.config.Metrics.Enabled {
		provider, err := diagnostics.NewMeterProvider(diagnostics.MetricsConfig{
			ServiceName:    sf.config.Metrics.ServiceName,
			ServiceVersion: version.GetVersion().Version,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create meter provider: %w", err)
		}
		otel.SetMeterProvider(provider)

		metrics, err := diagnostics.NewFailureMetricsWithProvider(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create failure metrics: %w", err)
		}
		emitters = append(emitters, metrics)
		sf.closers = append(sf.closers, provider.Shutdown)
	}

	if sf.config.Diagnostics.NATS.Enabled {
		policy := retry.DefaultPolicy()
		policy.MaxRetries = sf.config.Diagnostics.NATS.ConnectRetries

		publisher, err := messaging.ConnectNATSDiagnosticsPublisher(ctx, sf.config.Diagnostics.NATS, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to connect diagnostics publisher: %w", err)
		}
		emitters = append(emitters, publisher)
		sf.closers = append(sf.closers, func(context.Context) error { return publisher.Close() })
	}

	return emitters, nil
}

// CreateServer creates a fully configured server instance
func (sf *ServiceFactory) CreateServer(ctx context.Context) (*api.Server, error) {
	emitter, err := sf.CreateEmitter(ctx)
	if err != nil {
		return nil, err
	}

	return api.NewServerBuilder(sf.config).
		WithRecovery(api.NewRecovery(emitter)).
		WithSourceBrowser(gitsource.NewBrowser(gitsource.DirOpener(sf.config.Source.Root))).
		WithSessionStore(session.NewMemoryStore()).
		WithDefaultMiddleware().
		Build()
}

// Close releases the diagnostic sinks concurrently.
func (sf *ServiceFactory) Close(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, closer := range sf.closers {
		g.Go(func() error { return closer(gctx) })
	}
	sf.closers = nil
	return g.Wait()
}

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Start the API server",
		Long: `Start the HTTP API server.

The server provides endpoints for:
- Health checks
- The active session
- Browsing project branches and files

Configuration is loaded from config files and UPSTREAM_* environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPIServer(cmd.Context(), GetConfig())
		},
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := NewServiceFactory(cfg)
	defer func() {
		if err := factory.Close(context.Background()); err != nil {
			slogger.Error(context.Background(), "Failed to close diagnostic sinks", slogger.Fields{"error": err.Error()})
		}
	}()

	server, err := factory.CreateServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return err
	}

	slogger.Info(ctx, "API server started", slogger.Fields{
		"address":     server.Address(),
		"routes":      server.RouteCount(),
		"source_root": cfg.Source.Root,
		"version":     version.GetVersion().Version,
	})

	<-ctx.Done()
	slogger.Info(context.Background(), "Shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	slogger.Info(shutdownCtx, "API server shut down gracefully", nil)
	return nil
}

func init() { //nolint:gochecknoinits // Standard Cobra CLI pattern for command registration
	rootCmd.AddCommand(newAPICmd())
}
