package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/napolitain/solver-geode/internal/aggregate"
	"github.com/napolitain/solver-geode/internal/cache"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/metrics"
	"github.com/napolitain/solver-geode/internal/service"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "geode-server",
		Short: "Geode cracking solver as a gRPC service",
		Long: `Serves the quality sum and top product over gRPC with a JSON codec.
Requests carry puzzle text or structured blueprints.`,
		Run: runServer,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML config file (default ./geodes.yaml)")
	flags.StringP("listen", "l", ":50051", `Listen address ("host:port" or "unix:/path")`)
	flags.Float64("rate", 0, "Accepted requests per second (0 = unlimited)")
	flags.Int("burst", 4, "Requests accepted at once before the rate applies")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.Int("horizon", geode.DefaultHorizon, "Default minutes for the quality sum")
	flags.Int("extended-horizon", geode.ExtendedHorizon, "Default minutes for the top product")
	flags.Int("top", geode.DefaultTopN, "Default number of leading blueprints in the top product")
	flags.IntP("workers", "w", 0, "Concurrent searches per request (0 = one per CPU)")
	flags.String("ordering", geode.OrderByCurrent.String(), "Frontier priority: current or bound")
	flags.Int("max-nodes", 0, "Cap on expanded states per search (0 = unlimited)")
	flags.String("cache", "", "SQLite file caching solved searches")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	lis, err := listen(cfg.Listen)
	if err != nil {
		color.Red("Failed to listen: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, lis, logger); err != nil {
		color.Red("Server error: %v", err)
		os.Exit(1)
	}
}

func listen(addr string) (net.Listener, error) {
	if path, ok := strings.CutPrefix(addr, "unix:"); ok {
		// Remove a stale socket left by an unclean exit
		_ = os.Remove(path)
		return net.Listen("unix", path)
	}
	return net.Listen("tcp", addr)
}

// serve runs the gRPC server on lis until ctx is done, then stops gracefully
func serve(ctx context.Context, cfg *config.Config, lis net.Listener, logger *slog.Logger) error {
	opts, err := cfg.SolverOptions()
	if err != nil {
		return err
	}

	runner := &aggregate.Runner{Workers: cfg.Workers, Logger: logger, Options: opts}

	if cfg.CachePath != "" {
		store, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Cache = store
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		recorder, err := metrics.NewPrometheusRecorder()
		if err != nil {
			return err
		}
		runner.Recorder = recorder

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
	}

	interceptors := []grpc.UnaryServerInterceptor{service.Logging(logger)}
	if cfg.Rate > 0 {
		interceptors = append(interceptors, service.RateLimit(rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)))
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))

	srv := service.NewServer(runner, logger)
	srv.Defaults = service.Defaults{
		Horizon:         cfg.Horizon,
		ExtendedHorizon: cfg.ExtendedHorizon,
		TopN:            cfg.TopN,
		MaxHorizon:      max(cfg.Horizon, cfg.ExtendedHorizon),
	}
	service.Register(grpcServer, srv)

	errChan := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	logger.Info("gRPC server listening", "addr", lis.Addr().String())

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		grpcServer.GracefulStop()
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		return nil
	}
}
