package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters implements every hook interface by keeping running totals.
// The zero value is not usable; call NewCounters.
type Counters struct {
	layouts       atomic.Int64
	layoutErrors  atomic.Int64
	layoutNanos   atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	requests      atomic.Int64
	rateLimited   atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheSetBytes atomic.Int64

	mu       sync.Mutex
	statuses map[int]int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{statuses: make(map[int]int64)}
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Layouts        int64         `json:"layouts"`
	LayoutErrors   int64         `json:"layout_errors"`
	LayoutTime     time.Duration `json:"layout_time_ns"`
	Renders        int64         `json:"renders"`
	RenderErrors   int64         `json:"render_errors"`
	Requests       int64         `json:"requests"`
	RateLimited    int64         `json:"rate_limited"`
	CacheHits      int64         `json:"cache_hits"`
	CacheMisses    int64         `json:"cache_misses"`
	CacheBytes     int64         `json:"cache_bytes_written"`
	ResponseStatus map[int]int64 `json:"response_status"`
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	statuses := make(map[int]int64, len(c.statuses))
	for k, v := range c.statuses {
		statuses[k] = v
	}
	c.mu.Unlock()

	return Snapshot{
		Layouts:        c.layouts.Load(),
		LayoutErrors:   c.layoutErrors.Load(),
		LayoutTime:     time.Duration(c.layoutNanos.Load()),
		Renders:        c.renders.Load(),
		RenderErrors:   c.renderErrors.Load(),
		Requests:       c.requests.Load(),
		RateLimited:    c.rateLimited.Load(),
		CacheHits:      c.cacheHits.Load(),
		CacheMisses:    c.cacheMisses.Load(),
		CacheBytes:     c.cacheSetBytes.Load(),
		ResponseStatus: statuses,
	}
}

func (c *Counters) OnLayoutStart(context.Context, int, int, int) {}

func (c *Counters) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	c.layouts.Add(1)
	c.layoutNanos.Add(int64(d))
	if err != nil {
		c.layoutErrors.Add(1)
	}
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheSetBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	c.mu.Lock()
	c.statuses[status]++
	c.mu.Unlock()
}

func (c *Counters) OnRateLimited(context.Context, string) { c.rateLimited.Add(1) }

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
