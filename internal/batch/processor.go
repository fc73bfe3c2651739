package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"localchart/internal/chart"
	"localchart/internal/export"
	"localchart/internal/flightplan"
	"localchart/internal/logging"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Renderer  *chart.Renderer
	Airports  *flightplan.Airports // may be nil
	Base      chart.RenderConfig   // plan overrides apply on top
	OutputDir string
	Format    export.Format
	Workers   int

	// Progress receives a rate line every ProgressInterval; nil disables it.
	Progress         io.Writer
	ProgressInterval time.Duration
	Log              *logging.Logger
}

// Result holds the outcome of rendering one plan.
type Result struct {
	Plan     string `json:"plan"`
	Source   string `json:"source"`
	Image    string `json:"image,omitempty"` // relative to OutputDir
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	DPI      int    `json:"dpi,omitempty"`
	DPIKnown bool   `json:"dpiKnown"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`

	Diagnostics chart.Diagnostics `json:"-"`
}

// FindPlans lists the *.json plan files directly inside dir, sorted.
func FindPlans(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") || name == ManifestName {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Run renders every plan with a bounded worker pool. Per-plan failures are
// reported in the results; the returned error is only set when ctx ends
// the run early.
func Run(ctx context.Context, cfg Config, plans []string) ([]Result, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("batch: no renderer")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Format == "" {
		cfg.Format = export.FormatPNG
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	total := len(plans)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	done := make(chan struct{})
	defer close(done)
	if cfg.Progress != nil {
		interval := cfg.ProgressInterval
		if interval <= 0 {
			interval = 2 * time.Second
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f charts/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range plans {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processPlan(gctx, cfg, path)
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}

	cfg.Log.Info("batch finished", "plans", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return results, nil
}

func processPlan(ctx context.Context, cfg Config, path string) Result {
	res := Result{Source: path, Plan: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	fail := func(err error) Result {
		res.Error = err.Error()
		cfg.Log.Warn("plan failed", "plan", path, "error", err)
		return res
	}

	plan, err := flightplan.Load(path)
	if err != nil {
		return fail(err)
	}
	res.Plan = plan.Name
	in, err := plan.Resolve(cfg.Airports, cfg.Base)
	if err != nil {
		return fail(err)
	}

	rendered, err := cfg.Renderer.Render(ctx, nil, in.Waypoints, in.Segments, in.Config)
	if err != nil {
		return fail(err)
	}
	res.Diagnostics = rendered.Diagnostics

	var out export.Result
	if cfg.Format == export.FormatWebP {
		out, err = rendered.ExportWebP()
	} else {
		out, err = rendered.ExportPNG()
	}
	if err != nil {
		return fail(err)
	}

	res.Image = safeName(plan.Name) + "." + string(out.Format)
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, res.Image), out.Data, 0o644); err != nil {
		return fail(fmt.Errorf("batch: write %s: %w", res.Image, err))
	}

	res.Success = true
	res.DPI, res.DPIKnown = out.DPI, out.DPIKnown
	res.Width, res.Height = out.Width, out.Height
	return res
}

// safeName keeps plan names usable as file names.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "chart"
	}
	return name
}
