package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, 6, 8, 3)
	p.OnLayoutComplete(ctx, 6, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
	h.OnRateLimited(ctx, "127.0.0.1")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	c.OnLayoutComplete(ctx, 6, 2*time.Millisecond, nil)
	c.OnLayoutComplete(ctx, 6, 3*time.Millisecond, errors.New("singular"))
	c.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 100)
	c.OnRequest(ctx, "POST", "/v1/layout")
	c.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
	c.OnResponse(ctx, "POST", "/v1/layout", 422, time.Millisecond)
	c.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
	c.OnRateLimited(ctx, "10.0.0.1")

	s := c.Snapshot()
	if s.Layouts != 2 || s.LayoutErrors != 1 || s.LayoutTime != 5*time.Millisecond {
		t.Errorf("layout counters = %d/%d/%v", s.Layouts, s.LayoutErrors, s.LayoutTime)
	}
	if s.Renders != 1 || s.RenderErrors != 0 {
		t.Errorf("render counters = %d/%d", s.Renders, s.RenderErrors)
	}
	if s.CacheHits != 1 || s.CacheMisses != 2 || s.CacheBytes != 100 {
		t.Errorf("cache counters = %d/%d/%d", s.CacheHits, s.CacheMisses, s.CacheBytes)
	}
	if s.Requests != 1 || s.RateLimited != 1 {
		t.Errorf("http counters = %d/%d", s.Requests, s.RateLimited)
	}
	if s.ResponseStatus[200] != 2 || s.ResponseStatus[422] != 1 {
		t.Errorf("status counters = %v", s.ResponseStatus)
	}
}

func TestCountersConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.OnCacheHit(ctx, "layout")
			c.OnResponse(ctx, "GET", "/healthz", 200, 0)
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.CacheHits != 50 || s.ResponseStatus[200] != 50 {
		t.Errorf("Snapshot() = %+v", s)
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
