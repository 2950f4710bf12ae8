package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindTransport covers I/O faults that are neither timeouts nor
	// resolution/connection failures.
	KindTransport Kind = iota
	// KindTimeout means the connect or read deadline was exceeded.
	KindTimeout
	// KindUnreachable means the host could not be resolved or connected to.
	KindUnreachable
	// KindProtocol means the response did not carry the expected shape.
	KindProtocol
	// KindServer is a 5xx response; Status carries the code.
	KindServer
	// KindClient is any other non-2xx response; Status carries the code.
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindProtocol:
		return "protocol"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	}
	return "unknown"
}

// Error is the typed failure returned by Client.FetchReason.
type Error struct {
	Kind   Kind
	Status int // HTTP status for KindServer/KindClient, zero otherwise
	cause  error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching reason: %s error (status %d)", e.Kind, e.Status)
	}
	if e.cause != nil {
		return fmt.Sprintf("fetching reason: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("fetching reason: %s error", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// classify maps a transport-level error from http.Client.Do onto a Kind.
// Deadline errors win over everything because a timed-out dial also surfaces
// as a net.OpError.
func classify(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, cause: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindUnreachable, cause: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Kind: KindUnreachable, cause: err}
	}
	return &Error{Kind: KindTransport, cause: err}
}
