package cache

import (
	"context"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get on empty cache should miss")
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"rows":[]}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != `{"rows":[]}` {
		t.Errorf("Get data = %q", data)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should hit")
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
	if err := os.WriteFile(c.path("k"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "stale", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "live", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "broken", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("broken"), []byte("jg"), 0o644); err != nil {
		t.Fatal(err)
	}

	now = now.Add(10 * time.Minute)
	n, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() = %d, want 2", n)
	}
	for key, want := range map[string]bool{"stale": false, "broken": false, "live": true, "forever": true} {
		if _, err := os.Stat(c.path(key)); (err == nil) != want {
			t.Errorf("entry %q present = %v, want %v", key, err == nil, want)
		}
	}
}

func TestFileCacheSweepsAbandonedTemp(t *testing.T) {
	sweeps := map[string]func(*FileCache) (int, error){
		"clear": (*FileCache).Clear,
		"prune": (*FileCache).Prune,
	}
	for name, sweep := range sweeps {
		t.Run(name, func(t *testing.T) {
			c, err := NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			if err := c.Set(context.Background(), "k", []byte("v"), time.Nanosecond); err != nil {
				t.Fatal(err)
			}
			shard := filepath.Dir(c.path("k"))
			old := filepath.Join(shard, tmpPrefix+"old")
			fresh := filepath.Join(shard, tmpPrefix+"fresh")
			for _, p := range []string{old, fresh} {
				if err := os.WriteFile(p, []byte("partial"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			past := time.Now().Add(-time.Hour)
			if err := os.Chtimes(old, past, past); err != nil {
				t.Fatal(err)
			}
			time.Sleep(time.Millisecond)

			n, err := sweep(c)
			if err != nil {
				t.Fatalf("sweep error: %v", err)
			}
			if n != 1 {
				t.Errorf("sweep() = %d, want 1 (temp files are not counted)", n)
			}
			if _, err := os.Stat(old); !os.IsNotExist(err) {
				t.Errorf("abandoned temp file still present: %v", err)
			}
			if _, err := os.Stat(fresh); err != nil {
				t.Errorf("in-flight temp file removed: %v", err)
			}
		})
	}
}

func TestEntryEncoding(t *testing.T) {
	expires := time.Unix(1700000000, 42)
	data, got, ok := decodeEntry(encodeEntry([]byte("payload"), expires))
	if !ok || string(data) != "payload" || !got.Equal(expires) {
		t.Errorf("decodeEntry = %q, %v, %v", data, got, ok)
	}

	_, got, ok = decodeEntry(encodeEntry(nil, time.Time{}))
	if !ok || !got.IsZero() {
		t.Errorf("no-expiry entry decoded as %v, %v", got, ok)
	}

	if _, _, ok := decodeEntry([]byte(`{"data":"dg=="}`)); ok {
		t.Error("foreign file decoded as an entry")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "justgrid") {
		t.Errorf("DefaultDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", "justgrid") {
		t.Errorf("DefaultDir() = %q, want under %s/.cache", dir, home)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}

	j1, err := HashJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	j2, _ := HashJSON(map[string]int{"a": 2})
	if j1 == j2 {
		t.Error("HashJSON should differ for different values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("frames123", LayoutKeyOpts{ContainerWidth: 800, MaxRowHeight: 300})
	lk2 := k.LayoutKey("frames123", LayoutKeyOpts{ContainerWidth: 800, MaxRowHeight: 300, JustifyTrailing: true})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", lk1)
	}
	if lk1 != k.LayoutKey("frames123", LayoutKeyOpts{ContainerWidth: 800, MaxRowHeight: 300}) {
		t.Error("LayoutKey should be deterministic")
	}

	ak1 := k.ArtifactKey("layout123", ArtifactKeyOpts{Format: "svg", Style: "simple"})
	ak2 := k.ArtifactKey("layout123", ArtifactKeyOpts{Format: "html", Style: "simple"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey = %q, want artifact: prefix", ak1)
	}
}

func TestPrefixed(t *testing.T) {
	inner := NewDefaultKeyer()
	opts := LayoutKeyOpts{ContainerWidth: 10, MaxRowHeight: 10}
	aopts := ArtifactKeyOpts{Format: "svg"}

	scoped := Prefixed(inner, "tenant:1:")
	if got, want := scoped.LayoutKey("h", opts), "tenant:1:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	if got, want := scoped.ArtifactKey("h", aopts), "tenant:1:"+inner.ArtifactKey("h", aopts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}

	if got := Prefixed(nil, "p:").LayoutKey("h", opts); got != "p:"+inner.LayoutKey("h", opts) {
		t.Errorf("nil inner LayoutKey = %q", got)
	}
	if _, ok := Prefixed(inner, "").(DefaultKeyer); !ok {
		t.Error("empty prefix should return the inner keyer")
	}
}

func TestKeysSeparateFields(t *testing.T) {
	k := NewDefaultKeyer()
	// "ab"+"c" and "a"+"bc" must not collide once framed as JSON values.
	a := k.ArtifactKey("ab", ArtifactKeyOpts{Format: "c"})
	b := k.ArtifactKey("a", ArtifactKeyOpts{Format: "bc"})
	if a == b {
		t.Error("keys collide across field boundaries")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	p := RetryPolicy{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	if err := p.Do(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v calls %d", err, calls)
	}

	calls = 0
	err := p.Do(ctx, func() error { calls++; return os.ErrPermission })
	if err != os.ErrPermission || calls != 1 {
		t.Errorf("non-retryable: err %v calls %d", err, calls)
	}

	calls = 0
	err = p.Do(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v calls %d", err, calls)
	}

	calls = 0
	err = p.Do(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err %v calls %d", err, calls)
	}

	calls = 0
	_ = RetryPolicy{}.Do(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if calls != 1 {
		t.Errorf("zero policy: calls %d, want 1", calls)
	}
}

func TestRetryPolicyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultRetryPolicy.Do(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
