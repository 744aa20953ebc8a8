package palettecache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/moodboard/internal/colour"
)

func testPalette(r uint8) *colour.Palette {
	return colour.NewPalette([]colour.RGB{{R: r}})
}

func TestNewKey(t *testing.T) {
	a := NewKey([]byte("image-a"), 5)
	b := NewKey([]byte("image-a"), 5)
	c := NewKey([]byte("image-a"), 6)
	d := NewKey([]byte("image-b"), 5)

	if a != b {
		t.Error("identical input produced different keys")
	}
	if a == c {
		t.Error("different counts produced the same key")
	}
	if a == d {
		t.Error("different images produced the same key")
	}
	if a.String() == "" {
		t.Error("String() should not be empty")
	}
}

func TestGetOrComputeOncePerKey(t *testing.T) {
	cache := New(Options{})
	key := NewKey([]byte("img"), 5)
	var calls int32

	compute := func() (*colour.Palette, error) {
		atomic.AddInt32(&calls, 1)
		return testPalette(1), nil
	}

	_, hit, err := cache.GetOrCompute(key, compute)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	_, hit, err = cache.GetOrCompute(key, compute)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestGetOrComputeConcurrent(t *testing.T) {
	cache := New(Options{})
	key := NewKey([]byte("img"), 3)
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _, err := cache.GetOrCompute(key, func() (*colour.Palette, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return testPalette(2), nil
			})
			if err != nil || p == nil {
				t.Errorf("GetOrCompute failed: %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	cache := New(Options{})
	key := NewKey([]byte("bad"), 5)
	boom := errors.New("boom")

	if _, _, err := cache.GetOrCompute(key, func() (*colour.Palette, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after failure, want 0", cache.Len())
	}
	p, hit, err := cache.GetOrCompute(key, func() (*colour.Palette, error) { return testPalette(3), nil })
	if err != nil || hit || p == nil {
		t.Errorf("retry: p=%v hit=%v err=%v", p, hit, err)
	}
}

func TestGetOrComputePanicReleasesKey(t *testing.T) {
	cache := New(Options{})
	key := NewKey([]byte("panics"), 4)

	started := make(chan struct{})
	release := make(chan struct{})
	waiterErr := make(chan error, 1)

	go func() {
		defer func() { _ = recover() }()
		_, _, _ = cache.GetOrCompute(key, func() (*colour.Palette, error) {
			close(started)
			<-release
			panic("decoder exploded")
		})
	}()

	<-started
	go func() {
		_, _, err := cache.GetOrCompute(key, func() (*colour.Palette, error) { return testPalette(9), nil })
		waiterErr <- err
	}()
	// Give the waiter a moment to block on the in-flight entry.
	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case err := <-waiterErr:
		// The waiter either joined the panicking computation or ran its own.
		if err != nil && !errors.Is(err, ErrComputePanicked) {
			t.Errorf("waiter error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter still blocked after a panicking compute")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p, _, err := cache.GetOrCompute(key, func() (*colour.Palette, error) { return testPalette(9), nil })
		if err != nil || p == nil {
			t.Errorf("after panic: p=%v err=%v", p, err)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("GetOrCompute blocked after a panicking compute")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestUnboundedKeepsEverything(t *testing.T) {
	cache := New(Options{})
	for i := 0; i < 100; i++ {
		cache.Put(NewKey([]byte{byte(i)}, 5), testPalette(uint8(i)))
	}
	if cache.Len() != 100 {
		t.Errorf("Len() = %d, want 100", cache.Len())
	}
	if cache.Options().Policy() != "unbounded" {
		t.Errorf("Policy() = %s", cache.Options().Policy())
	}
}

func TestFIFOEviction(t *testing.T) {
	cache := New(Options{MaxEntries: 2})
	k1 := NewKey([]byte("1"), 5)
	k2 := NewKey([]byte("2"), 5)
	k3 := NewKey([]byte("3"), 5)

	cache.Put(k1, testPalette(1))
	cache.Put(k2, testPalette(2))
	cache.Put(k3, testPalette(3))

	if _, ok := cache.Get(k1); ok {
		t.Error("oldest key should have been evicted")
	}
	if _, ok := cache.Get(k2); !ok {
		t.Error("k2 should still be cached")
	}
	if _, ok := cache.Get(k3); !ok {
		t.Error("k3 should be cached")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
