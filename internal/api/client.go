// Package api talks to the No-as-a-Service endpoint: one GET per call, one
// field out of the body. It never retries; if the caller wants another
// attempt it asks again.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New builds a client with independent connect and read deadlines: connect
// bounds dialing (and the TLS handshake), read bounds the request as a whole.
func New(baseURL string, connect, read time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	dialer := &net.Dialer{Timeout: connect}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connect,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport, Timeout: read},
		logger:  logger,
	}
}

type reasonResponse struct {
	Reason string `json:"reason"`
}

// FetchReason performs exactly one request against <base>/no and returns the
// reason string from the body. Failures come back as *Error with the kind
// set; see errors.go for the taxonomy.
func (c *Client) FetchReason(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/no", nil)
	if err != nil {
		return "", &Error{Kind: KindTransport, cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := classify(err)
		c.logger.Debug("fetch failed", "kind", apiErr.Kind, "err", err)
		return "", apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindClient
		if resp.StatusCode >= 500 {
			kind = KindServer
		}
		c.logger.Debug("fetch failed", "kind", kind, "status", resp.StatusCode)
		return "", &Error{Kind: kind, Status: resp.StatusCode}
	}

	// Unknown fields are ignored so the endpoint can grow its payload
	// without breaking old clients.
	var body reasonResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &Error{Kind: KindProtocol, cause: err}
	}
	if strings.TrimSpace(body.Reason) == "" {
		return "", &Error{Kind: KindProtocol, cause: errors.New(`response has no "reason" field`)}
	}
	return body.Reason, nil
}
