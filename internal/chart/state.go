package chart

import (
	"context"
	"image"
	"sync"

	"localchart/internal/geodesy"
	"localchart/internal/labels"
)

// baseLayer is the cached expensive half of a render. The image and the
// RenderContext are only ever replaced together.
type baseLayer struct {
	image *image.RGBA
	ctx   RenderContext
	hash  uint64

	// Accepted in the base pass; the overlay's labels avoid them.
	labelBoxes []labels.Box
	markers    []labels.Marker
	scaleBar   scaleBar
	north      geodesy.NorthAngles

	terrainAvailable bool
	terrainErr       error
	terrainFeatures  int
}

// State carries the base layer between renders of one chart view. It is
// owned by the caller; renders on the same State are last-request-wins.
// The zero value is ready to use.
type State struct {
	mu         sync.Mutex
	base       *baseLayer
	preview    *image.RGBA
	generation uint64
	cancel     context.CancelFunc
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// begin starts a render: it cancels any outstanding terrain fetch and
// returns a context for this render's fetch plus its generation.
func (s *State) begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.generation++
	s.cancel = cancel
	return ctx, s.generation
}

// end releases the fetch context of gen if it is still the latest.
func (s *State) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *State) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// lookup returns the cached base layer if it was built from hash. A layer
// painted without terrain because the fetch failed is never reused, so the
// next render retries the fetch.
func (s *State) lookup(hash uint64) *baseLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base != nil && s.base.hash == hash && s.base.terrainErr == nil {
		return s.base
	}
	return nil
}

// commit installs a freshly built base layer unless a newer render began.
func (s *State) commit(gen uint64, b *baseLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSuperseded
	}
	s.base = b
	return nil
}

func (s *State) setPreview(gen uint64, img *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.preview = img
	}
}

// Preview returns the last composited chart, or the cached base layer when
// nothing has been composited yet, or nil. Callers show it while a render
// is waiting on terrain. The image must not be modified.
func (s *State) Preview() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.preview != nil:
		return s.preview
	case s.base != nil:
		return s.base.image
	}
	return nil
}

// RenderContext returns the context of the cached base layer.
func (s *State) RenderContext() (RenderContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base == nil {
		return RenderContext{}, false
	}
	return s.base.ctx, true
}

// Invalidate drops the cached base layer so the next render rebuilds it,
// refetching terrain. Use it when the terrain source has changed.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = nil
}
