package tui

import "github.com/AdoyoClifford/how-to-say-NO/internal/reason"

// outcomeMsg carries one emission from the retrieval stream.
type outcomeMsg struct {
	outcome reason.Outcome
}

// retrievalDoneMsg signals that the stream completed and the fetch button
// may re-enable.
type retrievalDoneMsg struct{}

// hasCacheMsg carries an update from the cache watch subscription.
type hasCacheMsg struct {
	has bool
}
