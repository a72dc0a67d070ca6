package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arenakit/slotpool/internal/sim"
	"github.com/arenakit/slotpool/pkg/config"
	"github.com/arenakit/slotpool/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "slotsim",
		Short: "Slotsim - particle simulation over a fixed-capacity slot pool",
		Long: `Slotsim runs a particle simulation on a fixed-capacity slot pool.
Each tick it spawns particles into free slots, advances the live ones, and
releases expired slots back to the pool. It reports pool occupancy and churn.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Slotsim v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile string
	var capacity, ticks, spawnPerTick int
	var seed int64
	var logLevel, metricsAddr string
	var enableMetrics bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		Long: `Run a particle simulation with the given pool and loop settings.
Flags override the corresponding values from the config file.

Example:
  slotsim run --capacity 256 --ticks 1000 --spawn 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg, capacity, ticks, spawnPerTick, seed,
				logLevel, metricsAddr, enableMetrics)
			return runSim(cfg)
		},
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Simulation config file (YAML)")
	runCmd.Flags().IntVar(&capacity, "capacity", 0, "Pool capacity")
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "Number of ticks to run")
	runCmd.Flags().IntVar(&spawnPerTick, "spawn", 0, "Particles spawned per tick")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from time)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&enableMetrics, "enable-metrics", false, "Expose Prometheus metrics")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus listen address")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.SimConfig, error) {
	if path == "" {
		return config.DefaultSimConfig(), nil
	}
	return config.LoadSim(path)
}

// applyFlagOverrides layers explicitly-set flags over the file config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.SimConfig,
	capacity, ticks, spawnPerTick int, seed int64,
	logLevel, metricsAddr string, enableMetrics bool) {

	if cmd.Flags().Changed("capacity") {
		cfg.Pool.Capacity = capacity
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Run.Ticks = ticks
	}
	if cmd.Flags().Changed("spawn") {
		cfg.Run.SpawnPerTick = spawnPerTick
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed = seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Observability.LogLevel = logLevel
	}
	if cmd.Flags().Changed("enable-metrics") {
		cfg.Observability.EnableMetrics = enableMetrics
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = metricsAddr
	}
}

func runSim(cfg *config.SimConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Development: cfg.Observability.Development,
		Encoding:    "json",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Get()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableMetrics {
		startMetricsServer(ctx, cfg.Observability.MetricsAddr, log)
	}

	engine, err := sim.NewEngine(cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting simulation",
		zap.String("pool", cfg.Pool.Name),
		zap.Int("capacity", cfg.Pool.Capacity),
		zap.Int("ticks", cfg.Run.Ticks),
		zap.Int("spawn_per_tick", cfg.Run.SpawnPerTick))

	report, runErr := engine.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if errors.Is(runErr, context.Canceled) {
		log.Warn("simulation interrupted", zap.Int("ticks_completed", report.Ticks))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func startMetricsServer(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
