package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harmonic/pkg/cache"
	"github.com/matzehuels/harmonic/pkg/errors"
	"github.com/matzehuels/harmonic/pkg/graph"
	"github.com/matzehuels/harmonic/pkg/layout"
	"github.com/matzehuels/harmonic/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *graph.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	layoutStart := time.Now()
	l, hash, layoutHit, err := r.computeLayout(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.DocHash = hash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.EdgeCount = len(l.Edges)
	result.Stats.PinCount = countPinned(l)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"pins", result.Stats.PinCount,
		"cache_hit", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"style", opts.Style,
		"cache_hit", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo solves the layout for doc with caching and
// returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, doc *graph.Document, opts Options) (*layout.Layout, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)
	l, _, hit, err := r.computeLayout(ctx, doc, opts)
	return l, hit, err
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, doc *graph.Document, opts Options) (*layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

func (r *Runner) computeLayout(ctx context.Context, doc *graph.Document, opts Options) (*layout.Layout, string, bool, error) {
	if doc == nil {
		return nil, "", false, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}

	docHash, err := cache.HashJSON(doc)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash document")
	}
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, docHash, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	// Zero when the edge list is invalid; ComputeDocument reports why.
	nodes, _ := graph.NodeCount(doc.Edges)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, nodes, len(doc.Edges), pinCount(doc))
	start := time.Now()

	res, err := layout.ComputeDocument(doc)
	if err == nil {
		if verr := res.Verify(opts.Tolerance); verr != nil {
			err = errors.Wrap(errors.ErrCodeSingularSystem, verr, "layout failed the harmonic check")
		}
	}
	if err != nil {
		hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
		return nil, docHash, false, err
	}
	hooks.OnLayoutComplete(ctx, res.N(), time.Since(start), nil)

	r.Logger.Debug("solved pinned system",
		"nodes", res.N(),
		"pins", len(res.Pinned),
		"cond", res.Cond())

	l := res.Layout()
	if data, err := layout.MarshalLayout(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return l, docHash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutHash, err := cache.HashJSON(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(uniq(opts.Formats)) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderFromLayout(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func countPinned(l *layout.Layout) int {
	n := 0
	for _, node := range l.Nodes {
		if node.Pinned {
			n++
		}
	}
	return n
}

func pinCount(doc *graph.Document) int {
	if len(doc.Pins) > 0 {
		return len(doc.Pins)
	}
	return len(doc.Pinned)
}

func uniq(formats []string) map[string]bool {
	set := make(map[string]bool, len(formats))
	for _, f := range formats {
		set[f] = true
	}
	return set
}
