package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"procmine/config"
	"procmine/internal/input/csvlog"
	inputredis "procmine/internal/input/redis"
	"procmine/internal/input/tracejson"
	"procmine/internal/logger"
	"procmine/internal/metrics"
	"procmine/internal/mining"
	"procmine/internal/modelstore"
	"procmine/internal/output/treedot"
	"procmine/internal/output/treejson"
	"procmine/internal/pipeline"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("procmine.yml"); err == nil {
		return "procmine.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "procmine.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "procmine.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.ProcMine.Input.Redis.Addr == "" {
		cfg.ProcMine.Input.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.ProcMine.Input.Redis.Key == "" {
		cfg.ProcMine.Input.Redis.Key = "mining_jobs"
	}
	if cfg.ProcMine.Input.Redis.BlockTimeout == 0 {
		cfg.ProcMine.Input.Redis.BlockTimeout = 5 * time.Second
	}

	if cfg.ProcMine.Mining.Variant == "" {
		cfg.ProcMine.Mining.Variant = string(mining.VariantStandard)
	}

	if cfg.ProcMine.Output.TreePath == "" {
		cfg.ProcMine.Output.TreePath = "output/trees.jsonl"
	}

	if cfg.ProcMine.Cache.Addr == "" {
		cfg.ProcMine.Cache.Addr = cfg.ProcMine.Input.Redis.Addr
	}
	if cfg.ProcMine.Cache.KeyPrefix == "" {
		cfg.ProcMine.Cache.KeyPrefix = "procmine:models"
	}
	if cfg.ProcMine.Cache.TTL == 0 {
		cfg.ProcMine.Cache.TTL = 24 * time.Hour
	}

	if cfg.ProcMine.Metrics.Addr == "" {
		cfg.ProcMine.Metrics.Addr = ":9464"
	}

	if cfg.ProcMine.Logging.Level == "" {
		cfg.ProcMine.Logging.Level = "info"
	}
}

func miningOptions(cfg *config.Config) mining.Options {
	return mining.Options{
		Variant:                 mining.Variant(cfg.ProcMine.Mining.Variant),
		ActivityThreshold:       cfg.ProcMine.Mining.ActivityThreshold,
		TracesThreshold:         cfg.ProcMine.Mining.TracesThreshold,
		NoiseThreshold:          cfg.ProcMine.Mining.NoiseThreshold,
		SimplificationThreshold: cfg.ProcMine.Mining.SimplificationThreshold,
	}
}

func runConsumer(args []string) {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.ProcMine.Logging.Enabled, cfg.ProcMine.Logging.Level, cfg.ProcMine.Logging.File, cfg.ProcMine.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("ProcMine starting")
	logger.Infof("Config loaded from: %s", configPath)

	opts := miningOptions(cfg)
	if err := opts.Validate(); err != nil {
		logger.Errorf("Invalid mining config: %v", err)
		log.Fatalf("Invalid mining config: %v", err)
	}

	consumer, err := inputredis.NewConsumer(inputredis.Config{
		Addr:         cfg.ProcMine.Input.Redis.Addr,
		Password:     cfg.ProcMine.Input.Redis.Password,
		DB:           cfg.ProcMine.Input.Redis.DB,
		Key:          cfg.ProcMine.Input.Redis.Key,
		BlockTimeout: cfg.ProcMine.Input.Redis.BlockTimeout,
	})
	if err != nil {
		logger.Errorf("Failed to create Redis consumer: %v", err)
		log.Fatalf("Failed to create Redis consumer: %v", err)
	}

	var store *modelstore.RedisStore
	if cfg.ProcMine.Cache.Enabled {
		store, err = modelstore.NewRedisStore(modelstore.Config{
			Addr:      cfg.ProcMine.Cache.Addr,
			Password:  cfg.ProcMine.Cache.Password,
			DB:        cfg.ProcMine.Cache.DB,
			KeyPrefix: cfg.ProcMine.Cache.KeyPrefix,
			TTL:       cfg.ProcMine.Cache.TTL,
		})
		if err != nil {
			logger.Errorf("Failed to create model store: %v", err)
			log.Fatalf("Failed to create model store: %v", err)
		}
		logger.Infof("Model cache enabled: %s (prefix %s)", cfg.ProcMine.Cache.Addr, cfg.ProcMine.Cache.KeyPrefix)
	}

	writer, err := treejson.NewWriter(cfg.ProcMine.Output.TreePath)
	if err != nil {
		logger.Errorf("Failed to create tree writer: %v", err)
		log.Fatalf("Failed to create tree writer: %v", err)
	}

	if cfg.ProcMine.Metrics.Enabled {
		go func() {
			logger.Infof("Metrics listening on %s", cfg.ProcMine.Metrics.Addr)
			if err := metrics.Serve(cfg.ProcMine.Metrics.Addr); err != nil {
				logger.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	pipe := pipeline.NewMiningPipeline(consumer, opts, store, writer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := pipe.Run(ctx); err != nil && err != context.Canceled {
			logger.Errorf("Pipeline error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("Shutting down")
	cancel()
	time.Sleep(1 * time.Second)

	if err := pipe.Close(); err != nil {
		logger.Errorf("Error closing pipeline: %v", err)
	}

	logger.Infof("ProcMine stopped")
}

func runMine(args []string) int {
	fs := flag.NewFlagSet("mine", flag.ContinueOnError)
	input := fs.String("input", "", "Event log input path (.csv event table or .jsonl weighted traces)")
	format := fs.String("format", "", "Input format: csv or jsonl (default: by file extension)")
	output := fs.String("output", "output/trees.jsonl", "Result JSONL output path")
	dotOutput := fs.String("dot-output", "", "Optional Graphviz DOT output path")
	variant := fs.String("variant", string(mining.VariantStandard), "Mining variant: standard, infrequent or approximate")
	activityThreshold := fs.Float64("activity-threshold", 0, "Drop activities below this share of the most frequent activity")
	tracesThreshold := fs.Float64("traces-threshold", 0, "Drop trace variants below this share of the most frequent variant")
	noiseThreshold := fs.Float64("noise-threshold", 0, "Edge filter strength for the infrequent variant")
	simplificationThreshold := fs.Float64("simplification-threshold", 0, "Tolerance for the approximate variant")
	caseColumn := fs.String("case-column", "case_id", "CSV column holding the case identifier")
	activityColumn := fs.String("activity-column", "activity", "CSV column holding the activity label")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*input) == "" {
		fmt.Fprintln(os.Stderr, "mine: -input is required")
		return 2
	}

	if err := logger.Init(true, "info", "", true); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	kind := strings.ToLower(strings.TrimSpace(*format))
	if kind == "" {
		switch strings.ToLower(filepath.Ext(*input)) {
		case ".csv":
			kind = "csv"
		default:
			kind = "jsonl"
		}
	}

	opts := mining.Options{
		Variant:                 mining.Variant(*variant),
		ActivityThreshold:       *activityThreshold,
		TracesThreshold:         *tracesThreshold,
		NoiseThreshold:          *noiseThreshold,
		SimplificationThreshold: *simplificationThreshold,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid mining options: %v\n", err)
		return 2
	}

	result, err := mineFile(*input, kind, *caseColumn, *activityColumn, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	writer, err := treejson.NewWriter(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tree writer: %v\n", err)
		return 1
	}
	defer writer.Close()

	rec := &treejson.Record{
		Variant:           string(opts.Variant),
		Options:           opts,
		Tree:              result.Tree,
		OmittedActivities: result.OmittedActivities,
		Stats:             result.Stats,
		MinedAt:           time.Now().UTC(),
	}
	if err := writer.WriteRecord(rec); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write result: %v\n", err)
		return 1
	}

	if strings.TrimSpace(*dotOutput) != "" {
		if err := treedot.WriteFile(*dotOutput, result.Tree); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dot file: %v\n", err)
			return 1
		}
	}

	fmt.Printf("mined traces=%d activities=%d tree=%s output=%s\n",
		result.Stats.Traces, result.Stats.Activities, result.Tree, *output)
	return 0
}

func mineFile(path, kind, caseColumn, activityColumn string, opts mining.Options) (*mining.Result, error) {
	switch kind {
	case "csv":
		eventLog, stats, err := csvlog.ReadFile(path, csvlog.Options{
			CaseColumn:     caseColumn,
			ActivityColumn: activityColumn,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read event table: %w", err)
		}
		logger.Infof("Event table loaded: rows=%d cases=%d", stats.Rows, stats.Cases)
		return mining.Discover(eventLog, opts)
	case "jsonl":
		eventLog, err := tracejson.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read trace log: %w", err)
		}
		logger.Infof("Trace log loaded: variants=%d frequency=%d", eventLog.Size(), eventLog.TotalFrequency())
		return mining.Discover(eventLog, opts)
	default:
		return nil, fmt.Errorf("unknown input format: %s", kind)
	}
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "consume":
			runConsumer(os.Args[2:])
			return
		case "mine":
			os.Exit(runMine(os.Args[2:]))
		default:
			// Backward-compatible mode: first arg is config path.
			runConsumer(os.Args[1:])
			return
		}
	}

	runConsumer(nil)
}
