package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}

	if cleared, _ := Clear(ctx, c); cleared {
		t.Error("NullCache should not implement Clearer")
	}
}

// backends returns every locally testable Cache implementation.
func backends(t *testing.T) map[string]Cache {
	t.Helper()

	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	sc, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	t.Cleanup(func() { sc.Close() })

	return map[string]Cache{"file": fc, "sqlite": sc}
}

func TestCacheContract(t *testing.T) {
	ctx := context.Background()

	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
				t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
			}

			want := []byte(`{"nodes":[]}`)
			if err := c.Set(ctx, "layout:a", want, time.Hour); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			got, hit, err := c.Get(ctx, "layout:a")
			if err != nil || !hit {
				t.Fatalf("Get after Set = hit %v, err %v", hit, err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Get = %q, want %q", got, want)
			}

			// Overwrite
			if err := c.Set(ctx, "layout:a", []byte("v2"), 0); err != nil {
				t.Fatalf("Set overwrite error: %v", err)
			}
			got, _, _ = c.Get(ctx, "layout:a")
			if string(got) != "v2" {
				t.Errorf("Get after overwrite = %q, want v2", got)
			}

			if err := c.Delete(ctx, "layout:a"); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "layout:a"); hit {
				t.Error("Get after Delete should miss")
			}
			if err := c.Delete(ctx, "layout:a"); err != nil {
				t.Errorf("Delete of missing key error: %v", err)
			}
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()

	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			time.Sleep(5 * time.Millisecond)
			if _, hit, err := c.Get(ctx, "short"); err != nil || hit {
				t.Errorf("Get(expired) = hit %v, err %v", hit, err)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()

	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"a", "b", "c"} {
				if err := c.Set(ctx, k, []byte(k), 0); err != nil {
					t.Fatalf("Set(%s) error: %v", k, err)
				}
			}
			cleared, err := Clear(ctx, c)
			if err != nil || !cleared {
				t.Fatalf("Clear = %v, %v", cleared, err)
			}
			for _, k := range []string{"a", "b", "c"} {
				if _, hit, _ := c.Get(ctx, k); hit {
					t.Errorf("Get(%s) after Clear should miss", k)
				}
			}
			// Still usable after Clear
			if err := c.Set(ctx, "d", []byte("d"), 0); err != nil {
				t.Errorf("Set after Clear error: %v", err)
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get(corrupt) = hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCachePathLayout(t *testing.T) {
	c := &FileCache{dir: "/cache"}
	p := c.path("layout:abc")
	h := Hash([]byte("layout:abc"))
	want := filepath.Join("/cache", h[:2], h[2:]+".json")
	if p != want {
		t.Errorf("path = %s, want %s", p, want)
	}
}

func TestSQLiteCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_ = c.Set(ctx, "old", []byte("x"), time.Nanosecond)
	_ = c.Set(ctx, "keep", []byte("y"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("z"), 0)
	time.Sleep(5 * time.Millisecond)

	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d entries, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should survive Prune")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url")
	if err == nil {
		t.Fatal("NewRedisCache should reject a malformed url")
	}
	if !strings.Contains(err.Error(), "parse redis url") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]int{"a": 1, "b": 2})
	if a != b {
		t.Error("HashJSON should not depend on map order")
	}

	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should fail for unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{})
	lk2 := k.LayoutKey("hash456", LayoutKeyOpts{})
	if lk1 == lk2 {
		t.Error("Different document hashes should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey unexpected: %s", lk1)
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{}) {
		t.Error("LayoutKey should be deterministic")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "plot"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Style: "plot"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Style: "plot", Width: 400})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:svg:") {
		t.Errorf("ArtifactKey unexpected: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "v1:")
	inner := NewDefaultKeyer()

	if got, want := scoped.LayoutKey("h", LayoutKeyOpts{}), "v1:"+inner.LayoutKey("h", LayoutKeyOpts{}); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	opts := ArtifactKeyOpts{Format: "dot"}
	if got, want := scoped.ArtifactKey("h", opts), "v1:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the original error")
	}

	if IsRetryable(errors.New("boom")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success path: err %v, calls %d", err, calls)
	}

	errBoom := errors.New("boom")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errBoom
	})
	if err != errBoom || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

type ttlRecorder struct {
	NullCache
	ttl time.Duration
}

func (r *ttlRecorder) Set(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	r.ttl = ttl
	return nil
}

func TestCappedCache(t *testing.T) {
	tests := []struct {
		name string
		max  time.Duration
		ttl  time.Duration
		want time.Duration
	}{
		{"below cap", time.Hour, time.Minute, time.Minute},
		{"above cap", time.Hour, TTLLayout, time.Hour},
		{"never expires", time.Hour, 0, time.Hour},
		{"no cap", 0, TTLArtifact, TTLArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ttlRecorder{}
			c := NewCappedCache(rec, tt.max)
			if err := c.Set(context.Background(), "k", []byte("v"), tt.ttl); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if rec.ttl != tt.want {
				t.Errorf("ttl = %v, want %v", rec.ttl, tt.want)
			}
		})
	}
}

func TestCappedCacheClearForwards(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	c := NewCappedCache(fc, time.Hour)
	if err := c.Set(ctx, "layout:abc", []byte("{}"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cleared, err := Clear(ctx, c)
	if err != nil || !cleared {
		t.Fatalf("Clear = %v, %v; want true, nil", cleared, err)
	}
	if _, ok, _ := fc.Get(ctx, "layout:abc"); ok {
		t.Error("entry survived Clear through the capped wrapper")
	}
}
