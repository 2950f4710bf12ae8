package reason

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdoyoClifford/how-to-say-NO/internal/cache"
)

type stubFetcher struct {
	fn func(ctx context.Context) (string, error)
}

func (f *stubFetcher) FetchReason(ctx context.Context) (string, error) {
	return f.fn(ctx)
}

func fixedFetcher(reason string, err error) *stubFetcher {
	return &stubFetcher{fn: func(context.Context) (string, error) {
		return reason, err
	}}
}

func testStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// collect drains a Retrieve stream, failing the test if it does not
// terminate promptly.
func collect(t *testing.T, ch <-chan Outcome) []Outcome {
	t.Helper()
	var got []Outcome
	timeout := time.After(2 * time.Second)
	for {
		select {
		case o, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, o)
		case <-timeout:
			t.Fatalf("stream did not terminate; emissions so far: %v", got)
		}
	}
}

var errBoom = errors.New("boom")

func TestFetchWithFallbackWritesThrough(t *testing.T) {
	store := testStore(t)
	repo := NewRepository(store, fixedFetcher("Fresh", nil))

	got := repo.FetchWithFallback(context.Background())
	if got.Failed() || got.Reason != "Fresh" {
		t.Fatalf("outcome = %+v, want success %q", got, "Fresh")
	}

	if cached, ok := repo.Cached(); !ok || cached != "Fresh" {
		t.Errorf("cache after fetch = (%q, %v), want write-through", cached, ok)
	}
}

func TestFetchWithFallbackMasksErrorWithCache(t *testing.T) {
	store := testStore(t)
	store.Write("Cached reason")
	repo := NewRepository(store, fixedFetcher("", errBoom))

	got := repo.FetchWithFallback(context.Background())
	if got.Failed() {
		t.Fatalf("expected masked success, got error %v", got.Err)
	}
	if got.Reason != "Cached reason" {
		t.Errorf("reason = %q, want cached fallback", got.Reason)
	}
}

func TestFetchWithFallbackFailsWithoutCache(t *testing.T) {
	repo := NewRepository(testStore(t), fixedFetcher("", errBoom))

	got := repo.FetchWithFallback(context.Background())
	if !got.Failed() {
		t.Fatalf("expected failure, got %+v", got)
	}
	if !errors.Is(got.Err, errBoom) {
		t.Errorf("err = %v, want the fetch error", got.Err)
	}
}

func TestRetrieveNoCacheSuccess(t *testing.T) {
	svc := NewService(NewRepository(testStore(t), fixedFetcher("Test", nil)))

	got := collect(t, svc.Retrieve(context.Background()))
	if len(got) != 1 {
		t.Fatalf("emissions = %v, want exactly one", got)
	}
	if got[0].Failed() || got[0].Reason != "Test" {
		t.Errorf("emission = %+v, want success %q", got[0], "Test")
	}
}

func TestRetrieveNoCacheFailure(t *testing.T) {
	svc := NewService(NewRepository(testStore(t), fixedFetcher("", errBoom)))

	got := collect(t, svc.Retrieve(context.Background()))
	if len(got) != 1 {
		t.Fatalf("emissions = %v, want exactly one", got)
	}
	if !errors.Is(got[0].Err, errBoom) {
		t.Errorf("emission = %+v, want failure", got[0])
	}
}

func TestRetrieveCachedThenFresh(t *testing.T) {
	store := testStore(t)
	store.Write("Old reason")
	svc := NewService(NewRepository(store, fixedFetcher("New reason", nil)))

	got := collect(t, svc.Retrieve(context.Background()))
	if len(got) != 2 {
		t.Fatalf("emissions = %v, want two", got)
	}
	if got[0].Reason != "Old reason" || got[1].Reason != "New reason" {
		t.Errorf("order = [%q, %q], want cached before fresh", got[0].Reason, got[1].Reason)
	}
}

func TestRetrieveCachedMasksFailure(t *testing.T) {
	store := testStore(t)
	store.Write("Cached reason")
	svc := NewService(NewRepository(store, fixedFetcher("", errBoom)))

	got := collect(t, svc.Retrieve(context.Background()))
	if len(got) != 2 {
		t.Fatalf("emissions = %v, want two", got)
	}
	for i, o := range got {
		if o.Failed() || o.Reason != "Cached reason" {
			t.Errorf("emission %d = %+v, want masked cached success", i, o)
		}
	}
}

func TestRetrieveCacheVanishesMidFlight(t *testing.T) {
	store := testStore(t)
	store.Write("Cached reason")

	// The fetch both fails and clears the cache, so the fallback read finds
	// nothing and the failure surfaces as the second emission.
	fetcher := &stubFetcher{fn: func(context.Context) (string, error) {
		store.Clear()
		return "", errBoom
	}}
	svc := NewService(NewRepository(store, fetcher))

	got := collect(t, svc.Retrieve(context.Background()))
	if len(got) != 2 {
		t.Fatalf("emissions = %v, want two", got)
	}
	if got[0].Failed() || got[0].Reason != "Cached reason" {
		t.Errorf("first emission = %+v, want cached success", got[0])
	}
	if !got[1].Failed() {
		t.Errorf("second emission = %+v, want failure after cache vanished", got[1])
	}
}

func TestRetrieveCanceledDiscardsPending(t *testing.T) {
	store := testStore(t)
	store.Write("Cached reason")

	fetchStarted := make(chan struct{})
	fetcher := &stubFetcher{fn: func(ctx context.Context) (string, error) {
		close(fetchStarted)
		<-ctx.Done()
		return "", ctx.Err()
	}}
	svc := NewService(NewRepository(store, fetcher))

	ctx, cancel := context.WithCancel(context.Background())
	ch := svc.Retrieve(ctx)

	first := <-ch
	if first.Reason != "Cached reason" {
		t.Fatalf("first emission = %+v", first)
	}

	<-fetchStarted
	cancel()

	got := collect(t, ch)
	if len(got) != 0 {
		t.Errorf("expected no emission after cancel, got %v", got)
	}
}

func TestWatchCachedSurfacesAbsence(t *testing.T) {
	store := testStore(t)
	svc := NewService(NewRepository(store, fixedFetcher("", nil)))

	ch, cancel := svc.WatchCached()
	defer cancel()

	first := <-ch
	if !errors.Is(first.Err, ErrNoCache) {
		t.Fatalf("first emission = %+v, want ErrNoCache", first)
	}

	store.Write("Now cached")
	second := <-ch
	if second.Failed() || second.Reason != "Now cached" {
		t.Errorf("second emission = %+v, want success", second)
	}
}

func TestWatchHasCached(t *testing.T) {
	store := testStore(t)
	svc := NewService(NewRepository(store, fixedFetcher("", nil)))

	ch, cancel := svc.WatchHasCached()
	defer cancel()

	if got := <-ch; got {
		t.Error("expected false from empty cache")
	}

	store.Write("x")
	if got := <-ch; !got {
		t.Error("expected true after write")
	}

	svc.ClearCache()
	if got := <-ch; got {
		t.Error("expected false after clear")
	}
}
