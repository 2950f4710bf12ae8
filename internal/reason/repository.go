// Package reason is the offline-first retrieval pipeline: a repository that
// composes the single-slot cache with the remote fetcher, and a service that
// sequences cache-then-network emissions into one ordered stream.
package reason

import (
	"context"

	"github.com/AdoyoClifford/how-to-say-NO/internal/cache"
)

// Fetcher fetches one fresh reason from the remote service.
type Fetcher interface {
	FetchReason(ctx context.Context) (string, error)
}

// Store is the single-slot cache the repository reads and writes through.
type Store interface {
	Read() *cache.Entry
	Write(value string)
	Clear()
	Watch() (<-chan *cache.Entry, func())
}

// Outcome is the tagged result of one retrieval attempt: either a reason or
// an error, never both.
type Outcome struct {
	Reason string
	Err    error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Cached is a cache projection: the reason without its timestamp, plus
// whether anything was cached at all.
type Cached struct {
	Reason string
	OK     bool
}

type Repository struct {
	store   Store
	fetcher Fetcher
}

func NewRepository(store Store, fetcher Fetcher) *Repository {
	return &Repository{store: store, fetcher: fetcher}
}

// FetchWithFallback makes exactly one fetch attempt. On success the value is
// written through to the cache and returned. On failure the cache is read
// instead; if anything is there it is returned as a success and the fetch
// error is masked. Only "fetch failed and the cache is empty" surfaces as a
// failure.
func (r *Repository) FetchWithFallback(ctx context.Context) Outcome {
	fresh, err := r.fetcher.FetchReason(ctx)
	if err == nil {
		r.SaveCached(fresh)
		return Outcome{Reason: fresh}
	}
	if entry := r.store.Read(); entry != nil {
		return Outcome{Reason: entry.Reason}
	}
	return Outcome{Err: err}
}

// Cached returns the cached reason, if any.
func (r *Repository) Cached() (string, bool) {
	entry := r.store.Read()
	if entry == nil {
		return "", false
	}
	return entry.Reason, true
}

func (r *Repository) SaveCached(value string) { r.store.Write(value) }

func (r *Repository) ClearCache() { r.store.Clear() }

// WatchCached projects the store's Watch stream, dropping the timestamp.
// The returned func unsubscribes.
func (r *Repository) WatchCached() (<-chan Cached, func()) {
	entries, cancel := r.store.Watch()
	out := make(chan Cached, 1)
	go func() {
		defer close(out)
		for entry := range entries {
			if entry != nil {
				out <- Cached{Reason: entry.Reason, OK: true}
			} else {
				out <- Cached{}
			}
		}
	}()
	return out, cancel
}

// WatchHasCached maps WatchCached through "is anything there".
func (r *Repository) WatchHasCached() (<-chan bool, func()) {
	cached, cancel := r.WatchCached()
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		for c := range cached {
			out <- c.OK
		}
	}()
	return out, cancel
}
