package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"localchart/internal/chart"
	"localchart/internal/export"
	"localchart/internal/flightplan"
)

const goodPlan = `{"name": "Hudson run", "waypoints": [
  {"lat": 40.0, "lon": -73.0, "name": "A"},
  {"lat": 40.4, "lon": -73.1, "name": "B"}
], "config": {"width": 320, "height": 240}}`

const identPlan = `{"waypoints": [{"ident": "KJFK"}, {"lat": 40.9, "lon": -73.5}],
  "config": {"width": 320, "height": 240}}`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// syncBuffer lets the progress goroutine and the test share a buffer.
type syncBuffer struct {
	mu sync.Mutex
	bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Buffer.Write(p)
}

func TestFindPlans(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), goodPlan)
	writeFile(t, filepath.Join(dir, "a.JSON"), goodPlan)
	writeFile(t, filepath.Join(dir, ManifestName), "[]")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := FindPlans(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.JSON" || filepath.Base(paths[1]) != "b.json" {
		t.Errorf("paths = %v", paths)
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "charts")
	writeFile(t, filepath.Join(in, "one.json"), goodPlan)
	writeFile(t, filepath.Join(in, "two.json"), identPlan)
	writeFile(t, filepath.Join(in, "three.json"), `{"waypoints": [{"ident": "ZZZZ"}]}`)

	airports, err := flightplan.ParseAirports(strings.NewReader(`[["KJFK",40.6398,-73.7789,"John F Kennedy Intl"]]`))
	if err != nil {
		t.Fatal(err)
	}
	r, err := chart.NewRenderer(chart.Options{})
	if err != nil {
		t.Fatal(err)
	}
	plans, err := FindPlans(in)
	if err != nil {
		t.Fatal(err)
	}

	var progress syncBuffer
	results, err := Run(context.Background(), Config{
		Renderer:         r,
		Airports:         airports,
		Base:             chart.DefaultRenderConfig(),
		OutputDir:        out,
		Workers:          2,
		Progress:         &progress,
		ProgressInterval: time.Millisecond,
	}, plans)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}

	byPlan := map[string]Result{}
	for _, res := range results {
		byPlan[res.Plan] = res
	}
	one := byPlan["Hudson run"]
	if !one.Success || one.Image != "Hudson run.png" || !one.DPIKnown || one.Width != 320 {
		t.Errorf("one = %+v", one)
	}
	data, err := os.ReadFile(filepath.Join(out, one.Image))
	if err != nil {
		t.Fatal(err)
	}
	if dpi, ok := export.ReadDPI(data); !ok || int(dpi+0.5) != one.DPI {
		t.Errorf("file dpi = %v, %v; result says %d", dpi, ok, one.DPI)
	}

	if two := byPlan["two"]; !two.Success {
		t.Errorf("ident plan failed: %s", two.Error)
	}
	if three := byPlan["three"]; three.Success || !strings.Contains(three.Error, "ZZZZ") {
		t.Errorf("three = %+v", three)
	}

	manifest := filepath.Join(out, ManifestName)
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	raw, _ := os.ReadFile(manifest)
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("manifest entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.PaperWidthMM <= 0 || e.TerrainAvailable {
			t.Errorf("entry = %+v", e)
		}
	}
}

func TestRunWebP(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(in, "one.json"), goodPlan)
	r, err := chart.NewRenderer(chart.Options{})
	if err != nil {
		t.Fatal(err)
	}

	results, err := Run(context.Background(), Config{
		Renderer:  r,
		Base:      chart.DefaultRenderConfig(),
		OutputDir: out,
		Format:    export.FormatWebP,
	}, []string{filepath.Join(in, "one.json")})
	if err != nil {
		t.Fatal(err)
	}
	res := results[0]
	if !res.Success || filepath.Ext(res.Image) != ".webp" || res.DPIKnown {
		t.Errorf("result = %+v", res)
	}
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "one.json"), goodPlan)
	r, _ := chart.NewRenderer(chart.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Renderer: r, Base: chart.DefaultRenderConfig(), OutputDir: t.TempDir()},
		[]string{filepath.Join(in, "one.json")})
	if err == nil {
		t.Error("expected error from cancelled run")
	}
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"KJFK-KBOS": "KJFK-KBOS",
		"a/b:c":     "a_b_c",
		"  ":        "chart",
		"..":        "chart",
	}
	for in, want := range tests {
		if got := safeName(in); got != want {
			t.Errorf("safeName(%q) = %q, want %q", in, got, want)
		}
	}
}
