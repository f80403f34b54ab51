// # cmd/strata/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"strata/internal/config"
	"strata/internal/engine"
	"strata/internal/lang"
	"strata/internal/output"
	"strata/internal/scan"
	"strata/internal/shared/observability"
	"strata/internal/shared/util"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	scanPath   = flag.String("scan", "-", "Path to scan manifest JSON (\"-\" for stdin)")
	depth      = flag.Int("depth", 0, "Module depth override (0 = infer)")
	pretty     = flag.Bool("pretty", false, "Indent the JSON report")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("strata v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	// The report goes to stdout; logs stay on stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if *depth > 0 {
		cfg.Modules.Depth = *depth
	}

	ctx := context.Background()
	tracing, err := observability.InitTracing(ctx, cfg.Telemetry.OTLPEndpoint, VERSION)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	registry := lang.DefaultRegistry()
	scanner, err := scan.NewScanner(registry, cfg.Exclude.Paths)
	if err != nil {
		return err
	}
	files, err := scanner.LoadFile(*scanPath)
	if err != nil {
		return err
	}

	eng, err := engine.New(registry, engine.Options{
		ModuleDepth: cfg.Modules.Depth,
		TargetFloor: cfg.Modules.TargetFloor,
		TargetCeil:  cfg.Modules.TargetCeil,
		Timeout:     cfg.Engine.Timeout,
	})
	if err != nil {
		return err
	}
	result, err := eng.Run(ctx, files)
	if err != nil {
		return err
	}

	report := output.BuildReport(result)
	data, err := report.Render(*pretty)
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	if cfg.Output.DOT != "" && result.Architecture != nil {
		dot, err := output.NewDOTGenerator(result.Architecture).Generate()
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(cfg.Output.DOT, dot, 0o644); err != nil {
			return fmt.Errorf("write DOT output: %w", err)
		}
	}
	if cfg.Output.TSV != "" && result.Graph != nil {
		tsv, err := output.NewTSVGenerator(result.Graph).Generate()
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(cfg.Output.TSV, tsv, 0o644); err != nil {
			return fmt.Errorf("write TSV output: %w", err)
		}
	}
	if cfg.Output.Phantoms != "" && result.Graph != nil {
		phantoms, err := output.NewTSVGenerator(result.Graph).GeneratePhantoms()
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(cfg.Output.Phantoms, phantoms, 0o644); err != nil {
			return fmt.Errorf("write phantom output: %w", err)
		}
	}
	return nil
}
