package reason

import (
	"context"
	"errors"
)

// ErrNoCache means a cached reason was required and none existed.
var ErrNoCache = errors.New("no cached reason")

// Service sequences the cached reason and the network attempt into a single
// ordered stream per retrieval.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Retrieve starts one retrieval and returns its emission stream. The cache
// is read before Retrieve returns, so the cached emission (if any) always
// precedes the network-derived one; a single goroutine sends both, so they
// can never interleave. The channel carries one or two outcomes and is then
// closed. Canceling ctx discards pending emissions and closes the channel.
func (s *Service) Retrieve(ctx context.Context) <-chan Outcome {
	out := make(chan Outcome, 2)
	cached, ok := s.repo.Cached()

	go func() {
		defer close(out)
		if ok {
			if ctx.Err() != nil {
				return
			}
			out <- Outcome{Reason: cached}
		}
		final := s.repo.FetchWithFallback(ctx)
		if ctx.Err() != nil {
			return
		}
		out <- final
	}()
	return out
}

// Cached is a one-shot cache read with no stream semantics.
func (s *Service) Cached() (string, bool) {
	return s.repo.Cached()
}

// WatchCached surfaces the cache stream as outcomes, mapping "nothing
// cached" to a Failure carrying ErrNoCache. Callers that prefer absence over
// errors should use WatchHasCached instead.
func (s *Service) WatchCached() (<-chan Outcome, func()) {
	cached, cancel := s.repo.WatchCached()
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		for c := range cached {
			if c.OK {
				out <- Outcome{Reason: c.Reason}
			} else {
				out <- Outcome{Err: ErrNoCache}
			}
		}
	}()
	return out, cancel
}

func (s *Service) WatchHasCached() (<-chan bool, func()) {
	return s.repo.WatchHasCached()
}

func (s *Service) ClearCache() {
	s.repo.ClearCache()
}
