package terrain

import (
	"context"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"golang.org/x/sync/singleflight"

	"localchart/internal/geodesy"
)

// DefaultFetchTimeout bounds one shared upstream fetch.
const DefaultFetchTimeout = 30 * time.Second

// CachedProvider memoizes another provider's results by region, and merges
// concurrent fetches of the same region into one upstream call.
//
// Regions are rounded outwards to 0.1° and the rounded region is what the
// upstream is asked for, so every caller mapping to a key gets a superset of
// its own region. The shared fetch outlives any single caller: a cancelled
// caller stops waiting, the others still get the result.
type CachedProvider struct {
	upstream Provider
	cache    *lru.Cache[string, []Feature]
	group    singleflight.Group

	// FetchTimeout bounds each upstream call. Zero means DefaultFetchTimeout.
	FetchTimeout time.Duration
}

// NewCachedProvider wraps upstream with an LRU of the given number of regions.
func NewCachedProvider(upstream Provider, regions int) (*CachedProvider, error) {
	if regions <= 0 {
		regions = 16
	}
	c, err := lru.New[string, []Feature](regions)
	if err != nil {
		return nil, fmt.Errorf("terrain: cache: %w", err)
	}
	return &CachedProvider{upstream: upstream, cache: c}, nil
}

// FetchFeatures returns cached features for the region when available.
// Failed fetches are not cached.
func (p *CachedProvider) FetchFeatures(ctx context.Context, locations []geodesy.GeoPoint) ([]Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bound := roundedBound(Region(locations, RegionPaddingNM))
	key := boundKey(bound)
	if fs, ok := p.cache.Get(key); ok {
		return fs, nil
	}

	ch := p.group.DoChan(key, func() (any, error) {
		timeout := p.FetchTimeout
		if timeout <= 0 {
			timeout = DefaultFetchTimeout
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		fs, err := p.upstream.FetchFeatures(fetchCtx, boundCorners(bound))
		if err != nil {
			return nil, err
		}
		p.cache.Add(key, fs)
		return fs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]Feature), nil
	}
}

// Purge drops every cached region.
func (p *CachedProvider) Purge() {
	p.cache.Purge()
}

var _ Provider = (*CachedProvider)(nil)

// roundedBound widens b outwards to the 0.1° grid.
func roundedBound(b orb.Bound) orb.Bound {
	return orb.Bound{
		Min: orb.Point{floorTenth(b.Min[0]), floorTenth(b.Min[1])},
		Max: orb.Point{ceilTenth(b.Max[0]), ceilTenth(b.Max[1])},
	}
}

func boundCorners(b orb.Bound) []geodesy.GeoPoint {
	return []geodesy.GeoPoint{{Lat: b.Min[1], Lon: b.Min[0]}, {Lat: b.Max[1], Lon: b.Max[0]}}
}

func floorTenth(v float64) float64 { return math.Floor(v*10) / 10 }

func ceilTenth(v float64) float64 { return math.Ceil(v*10) / 10 }
