package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-geode/internal/aggregate"
	"github.com/napolitain/solver-geode/internal/cache"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/loader"
	"github.com/napolitain/solver-geode/internal/metrics"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

var (
	configFile string
	useSample  bool
	showPlan   bool
	quiet      bool
	part       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "geodes",
		Short: "Geode cracking robot build optimizer",
		Long: `Finds, for every blueprint, the robot build order that opens the most
geodes before time runs out, then prints the quality sum (part 1) and the
product of the leading blueprints over the longer horizon (part 2).`,
		Run: runSolver,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML config file (default ./geodes.yaml)")
	flags.StringP("input", "i", "", `Blueprint file, text or .json ("-" for stdin)`)
	flags.BoolVar(&useSample, "sample", false, "Use the two published sample blueprints")
	flags.Int("horizon", geode.DefaultHorizon, "Minutes for the quality sum")
	flags.Int("extended-horizon", geode.ExtendedHorizon, "Minutes for the top product")
	flags.Int("top", geode.DefaultTopN, "Number of leading blueprints in the top product")
	flags.IntP("workers", "w", 0, "Concurrent searches (0 = one per CPU)")
	flags.String("ordering", geode.OrderByCurrent.String(), "Frontier priority: current or bound")
	flags.Int("max-nodes", 0, "Cap on expanded states per search (0 = unlimited)")
	flags.String("cache", "", "SQLite file caching solved searches")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.BoolVarP(&showPlan, "plan", "p", false, "Print each blueprint's build plan")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Print only the answers")
	flags.IntVar(&part, "part", 0, "Run only part 1 or 2 (0 = both)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSolver(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	if part < 0 || part > 2 {
		color.Red("Invalid --part %d (want 0, 1 or 2)", part)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stderr)
	plain := quiet || !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Parse everything before any search starts
	blueprints, err := loadBlueprints(cfg)
	if err != nil {
		color.Red("Error loading blueprints: %v", err)
		os.Exit(1)
	}

	opts, err := cfg.SolverOptions()
	if err != nil {
		color.Red("Invalid config: %v", err)
		os.Exit(1)
	}

	runner := &aggregate.Runner{
		Workers: cfg.Workers,
		Logger:  logger,
		Options: opts,
	}

	if cfg.CachePath != "" {
		store, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			color.Red("Error opening cache: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		runner.Cache = store
	}

	var recorder *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		recorder, err = metrics.NewPrometheusRecorder()
		if err != nil {
			color.Red("Error creating metrics: %v", err)
			os.Exit(1)
		}
		runner.Recorder = recorder
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !plain {
		printBanner(len(blueprints), cfg)
	}

	if part == 0 || part == 1 {
		report, err := runner.QualitySum(ctx, blueprints, cfg.Horizon)
		if err != nil {
			color.Red("Part 1 failed: %v", err)
			os.Exit(1)
		}
		printReport("Part 1", report, blueprints, plain)
	}

	if part == 0 || part == 2 {
		report, err := runner.TopProduct(ctx, blueprints, cfg.TopN, cfg.ExtendedHorizon)
		if err != nil {
			color.Red("Part 2 failed: %v", err)
			os.Exit(1)
		}
		printReport("Part 2", report, blueprints, plain)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			color.Red("Error writing metrics: %v", err)
			os.Exit(1)
		}
		logger.Info("metrics written", "path", cfg.MetricsFile)
	}
}

func loadBlueprints(cfg *config.Config) ([]*models.Blueprint, error) {
	if useSample {
		return geode.SampleBlueprints(), nil
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("no input: pass --input FILE or --sample")
	}
	return loader.LoadBlueprints(cfg.Input)
}
