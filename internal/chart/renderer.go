package chart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"localchart/internal/geodesy"
	"localchart/internal/labels"
	"localchart/internal/logging"
	"localchart/internal/metrics"
	"localchart/internal/raster"
	"localchart/internal/terrain"
)

// Icon kinds requested from an IconFactory.
const (
	IconWaypoint = "waypoint"
	IconFlyOver  = "flyover"
	IconAirport  = "airport"
)

// IconFactory supplies pre-loaded marker images. A missing icon falls back
// to a vector symbol.
type IconFactory interface {
	Icon(kind string) (image.Image, bool)
}

// SurfaceFunc allocates a paint target of w x h CSS pixels.
type SurfaceFunc func(w, h int, dpr float64) (raster.Surface, error)

// Options wires a Renderer's collaborators. Every field is optional.
type Options struct {
	Terrain     terrain.Provider
	Declination geodesy.DeclinationProvider
	Icons       IconFactory
	NewSurface  SurfaceFunc
	Logger      *logging.Logger
}

// Renderer turns waypoints and segments into charts. It holds no per-chart
// state and is safe for concurrent use; per-view caching lives in State.
type Renderer struct {
	terrain     terrain.Provider
	declination geodesy.DeclinationProvider
	icons       IconFactory
	newSurface  SurfaceFunc
	log         *logging.Logger
}

// NewRenderer builds a Renderer. Without NewSurface it paints on a
// raster.Canvas using the shared Go font faces.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{
		terrain:     opts.Terrain,
		declination: opts.Declination,
		icons:       opts.Icons,
		newSurface:  opts.NewSurface,
		log:         opts.Logger,
	}
	if r.newSurface == nil {
		faces, err := raster.DefaultFaces()
		if err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		r.newSurface = func(w, h int, dpr float64) (raster.Surface, error) {
			return raster.NewCanvas(w, h, dpr, faces)
		}
	}
	return r, nil
}

// Render paints one chart. The base layer cached in state is reused when
// only overlay settings changed; otherwise terrain is fetched and the base
// layer rebuilt. A nil state renders without caching.
//
// Invalid input returns an *InputError before anything is painted. A
// render overtaken by a newer one on the same state returns ErrSuperseded.
// Terrain and declination failures degrade the chart and are reported in
// Diagnostics.
func (r *Renderer) Render(ctx context.Context, state *State, waypoints []Waypoint, segments []RouteSegment, cfg RenderConfig) (*RenderedChart, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rt, err := resolveRoute(waypoints, segments, cfg)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = NewState()
	}

	fetchCtx, gen := state.begin(ctx)
	defer state.end(gen)

	hash := baseInputsHash(rt, cfg)
	base := state.lookup(hash)
	reused := base != nil
	if reused {
		metrics.BaseLayerPasses.WithLabelValues("reused").Inc()
		r.log.Debug("base layer reused", "hash", hash)
	} else {
		base, err = r.buildBase(fetchCtx, rt, cfg, hash)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.Canceled) {
				err = ErrSuperseded
			}
			if errors.Is(err, ErrSuperseded) {
				metrics.BaseLayerPasses.WithLabelValues("superseded").Inc()
			} else {
				metrics.BaseLayerPasses.WithLabelValues("failed").Inc()
			}
			return nil, err
		}
		if err := state.commit(gen, base); err != nil {
			metrics.BaseLayerPasses.WithLabelValues("superseded").Inc()
			return nil, err
		}
		metrics.BaseLayerPasses.WithLabelValues("rebuilt").Inc()
	}

	diag := Diagnostics{
		TerrainAvailable:     base.terrainAvailable,
		TerrainError:         base.terrainErr,
		TerrainFeatures:      base.terrainFeatures,
		DeclinationAvailable: base.north.DeclinationAvailable,
		BaseLayerReused:      reused,
	}

	start := time.Now()
	surface, err := r.newSurface(cfg.Width, cfg.Height, cfg.DevicePixelRatio)
	if err != nil {
		return nil, fmt.Errorf("chart: overlay surface: %w", err)
	}
	op := newOverlayPainter(surface, base, cfg, r.icons, &diag)
	op.paint(base, rt)
	metrics.ObservePass("overlay", start)
	metrics.LabelsPlaced.WithLabelValues("placed").Add(float64(diag.LabelsPlaced))
	metrics.LabelsPlaced.WithLabelValues("skipped").Add(float64(diag.LabelsSkipped))

	state.setPreview(gen, cloneRGBA(surface.Image()))

	return &RenderedChart{
		surface:     surface,
		Context:     base.ctx,
		Config:      cfg,
		North:       base.north,
		Diagnostics: diag,
		log:         r.log,
	}, nil
}

// buildBase fetches terrain and paints a new base layer. The State is not
// touched; the caller commits the result.
func (r *Renderer) buildBase(ctx context.Context, rt *route, cfg RenderConfig, hash uint64) (*baseLayer, error) {
	rc := computeRenderContext(rt, cfg)
	b := &baseLayer{ctx: rc, hash: hash}

	var buckets terrain.Buckets
	if r.terrain != nil {
		features, err := r.terrain.FetchFeatures(ctx, rt.geoPoints())
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Whatever arrived belongs to a cancelled request.
			return nil, ctxErr
		}
		if err != nil {
			b.terrainErr = fmt.Errorf("%w: %v", ErrFeatureFetch, err)
			metrics.TerrainFetchErrors.Inc()
			r.log.Warn("terrain unavailable, rendering without it", "error", err)
		} else {
			buckets = terrain.Classify(features)
			b.terrainAvailable = true
			b.terrainFeatures = buckets.Len()
		}
	}

	ref, err := northReference(rc)
	if err != nil {
		return nil, fmt.Errorf("chart: north reference: %w", err)
	}
	north, err := geodesy.ComputeNorthAngles(ref, rc.Zone, r.declination)
	if err != nil {
		r.log.Info("declination unavailable, omitting magnetic north", "error", err)
	}
	b.north = north

	start := time.Now()
	surface, err := r.newSurface(cfg.Width, cfg.Height, cfg.DevicePixelRatio)
	if err != nil {
		return nil, fmt.Errorf("chart: base surface: %w", err)
	}
	bp := &basePainter{s: surface, rc: rc, reg: labels.NewRegistry(), icons: r.icons}
	b.scaleBar = bp.paint(rt, buckets, north, cfg.PrintScaleDenominator)
	b.labelBoxes = bp.reg.Labels()
	b.markers = bp.reg.Markers()
	b.image = cloneRGBA(surface.Image())
	metrics.ObservePass("base", start)

	r.log.Debug("base layer rebuilt", "zone", rc.Zone, "scale", rc.Scale, "features", b.terrainFeatures)
	return b, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
