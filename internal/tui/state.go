package tui

import (
	"errors"

	"github.com/AdoyoClifford/how-to-say-NO/internal/api"
	"github.com/AdoyoClifford/how-to-say-NO/internal/reason"
)

// Category buckets retrieval failures for display.
type Category int

const (
	CategoryNone Category = iota
	CategoryNetwork
	CategoryTimeout
	CategoryCache
	CategoryGeneric
)

const (
	msgNetwork = "No connection, check your network"
	msgTimeout = "Request timed out, please try again"
	msgCache   = "No reason available offline"
	msgGeneric = "Something went wrong, please try again"
)

// categorize maps a retrieval error onto a display category. Parse errors
// and HTTP status errors land in the generic bucket; only connectivity-class
// failures count as offline.
func categorize(err error) Category {
	if err == nil {
		return CategoryNone
	}
	if errors.Is(err, reason.ErrNoCache) {
		return CategoryCache
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindTimeout:
			return CategoryTimeout
		case api.KindUnreachable, api.KindTransport:
			return CategoryNetwork
		}
	}
	return CategoryGeneric
}

func messageFor(cat Category) string {
	switch cat {
	case CategoryNetwork:
		return msgNetwork
	case CategoryTimeout:
		return msgTimeout
	case CategoryCache:
		return msgCache
	case CategoryGeneric:
		return msgGeneric
	}
	return ""
}

// offline reports whether a category means the device cannot reach anything.
func (c Category) offline() bool {
	return c == CategoryNetwork || c == CategoryCache
}

// State is the record the view renders. It is only ever changed through the
// fold methods below, each of which returns the next state.
type State struct {
	Reason        string
	Loading       bool
	ErrMsg        string
	Offline       bool
	HasCache      bool
	ButtonEnabled bool
}

func newState() State {
	return State{ButtonEnabled: true}
}

func (s State) HasError() bool { return s.ErrMsg != "" }

func (s State) HasContent() bool { return s.Reason != "" && !s.HasError() }

func (s State) ShouldShowRetry() bool { return s.HasError() && !s.Loading }

// startRetrieval marks a retrieval in flight. The button stays disabled
// until finishRetrieval, however many emissions arrive in between.
func (s State) startRetrieval() State {
	s.Loading = true
	s.ButtonEnabled = false
	return s
}

// applyOutcome folds one stream emission. A success clears the error and
// offline flags outright, cached or fresh. A failure keeps the previous
// reason on screen; only the banner changes.
func (s State) applyOutcome(o reason.Outcome) State {
	s.Loading = false
	if !o.Failed() {
		s.Reason = o.Reason
		s.ErrMsg = ""
		s.Offline = false
		s.HasCache = true
		return s
	}
	cat := categorize(o.Err)
	s.ErrMsg = messageFor(cat)
	s.Offline = cat.offline()
	return s
}

// finishRetrieval re-enables the fetch button once the stream completes.
func (s State) finishRetrieval() State {
	s.Loading = false
	s.ButtonEnabled = true
	return s
}

// clearError drops the banner and nothing else.
func (s State) clearError() State {
	s.ErrMsg = ""
	return s
}

func (s State) setHasCache(has bool) State {
	s.HasCache = has
	return s
}
