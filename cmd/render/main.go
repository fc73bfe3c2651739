package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"localchart/internal/batch"
	"localchart/internal/chart"
	"localchart/internal/config"
	"localchart/internal/export"
	"localchart/internal/flightplan"
	"localchart/internal/icons"
	"localchart/internal/logging"
	"localchart/internal/magvar"
	"localchart/internal/metrics"
	"localchart/internal/terrain"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (yaml, json or toml; default: ./localchart.*)")
	input := flag.String("input", "", "Plan file or directory of plan files")
	outputDir := flag.String("output", "", "Output directory (default: charts)")
	format := flag.String("format", "", "Export format: png or webp (default: png)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	printScale := flag.Float64("scale", 0, "Print scale denominator, e.g. 500000")
	dpr := flag.Float64("dpr", 0, "Device pixel ratio")
	terrainPath := flag.String("terrain", "", "GeoJSON terrain features")
	airportsPath := flag.String("airports", "", "Compact airports JSON ([ICAO, lat, lon, name] rows, optionally .zst)")
	magvarPath := flag.String("magvar", "", "zstd-compressed declination grid")
	iconsDir := flag.String("icons", "", "Directory of waypoint/flyover/airport icons")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	flag.Parse()
	if *input == "" && flag.NArg() > 0 {
		*input = flag.Arg(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Input:       *input,
		OutputDir:   *outputDir,
		Format:      *format,
		Workers:     *workers,
		PrintScale:  *printScale,
		DPR:         *dpr,
		Terrain:     *terrainPath,
		Airports:    *airportsPath,
		MagvarGrid:  *magvarPath,
		Icons:       *iconsDir,
		LogLevel:    *logLevel,
		MetricsAddr: *metricsAddr,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := logging.New(cfg.LogOptions())
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if code := run(ctx, cfg, log); code != 0 {
		log.Close()
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	plans, err := planPaths(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(plans) == 0 {
		fmt.Println("No plans to render.")
		return 0
	}

	opts := chart.Options{Logger: log}

	if cfg.Data.Terrain != "" {
		fp, err := terrain.NewFileProvider(cfg.Data.Terrain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: terrain: %v\n", err)
		} else {
			cached, err := terrain.NewCachedProvider(fp, cfg.Data.TerrainRegions)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			opts.Terrain = cached
			fmt.Printf("Terrain: %d features\n", fp.Len())
		}
	}

	switch {
	case cfg.Data.MagvarGrid != "":
		grid, err := magvar.Load(cfg.Data.MagvarGrid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: declination grid: %v\n", err)
		} else {
			opts.Declination = grid
		}
	case cfg.Data.Declination != nil:
		opts.Declination = magvar.Fixed(*cfg.Data.Declination)
	}
	if opts.Declination == nil {
		fmt.Println("Declination: none (magnetic north omitted)")
	}

	if cfg.Data.Icons != "" {
		cache, err := icons.Open(cfg.Data.Icons, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: icons: %v\n", err)
		} else {
			opts.Icons = cache
		}
	}

	var airports *flightplan.Airports
	if cfg.Data.Airports != "" {
		airports, err = flightplan.LoadAirports(cfg.Data.Airports)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading airports: %v\n", err)
			return 1
		}
		fmt.Printf("Airports: %d loaded\n", airports.Len())
	}

	renderer, err := chart.NewRenderer(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	base, err := cfg.RenderConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Local chart renderer -> %s, 1:%.0f\n", cfg.Format, base.PrintScaleDenominator)
	fmt.Printf("Plans: %d, Workers: %d\n", len(plans), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results, err := batch.Run(ctx, batch.Config{
		Renderer:  renderer,
		Airports:  airports,
		Base:      base,
		OutputDir: cfg.OutputDir,
		Format:    export.Format(cfg.Format),
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
		Log:       log,
	}, plans)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success := 0
	var failed []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			note := " (no DPI metadata: print fit-to-page)"
			if r.DPIKnown {
				note = fmt.Sprintf(" %.0fx%.0f mm", export.PaperMM(float64(r.Width), r.DPI), export.PaperMM(float64(r.Height), r.DPI))
			}
			fmt.Printf("  %s -> %s @ %d dpi%s\n", r.Plan, r.Image, r.DPI, note)
			if !r.Diagnostics.TerrainAvailable && r.Diagnostics.TerrainError != nil {
				fmt.Printf("    terrain unavailable: %v\n", r.Diagnostics.TerrainError)
			}
		} else {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(plans))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := min(20, len(failed))
		for _, e := range failed[:limit] {
			fmt.Printf("  %s: %s\n", e.Plan, e.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, batch.ManifestName)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		return 1
	}
	return 0
}

// planPaths expands a plan file or a directory of plans.
func planPaths(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return batch.FindPlans(input)
	}
	return []string{input}, nil
}
