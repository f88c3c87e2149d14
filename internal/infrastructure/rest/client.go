// Package rest implements the request dispatcher: the single point of HTTP
// egress towards the Triporia backend. Every call resolves the absolute URL,
// attaches the stored bearer token, applies JSON content negotiation and the
// request timeout, and decodes the backend's response envelope.
//
// An authorization failure (HTTP 401) additionally triggers global session
// invalidation: the credential store is cleared via compare-and-clear and a
// SessionInvalidated event is published, exactly once per failing call. The
// failing call itself still surfaces as an ordinary error to its caller.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/ports"
	"github.com/triporia/booking-client/internal/events"
	"github.com/triporia/booking-client/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each exchange unless overridden per call. Defaults to
	// 10 seconds when zero.
	Timeout time.Duration
	// HTTPClient allows tests and embedders to supply their own transport.
	HTTPClient *http.Client
}

// Client dispatches authenticated JSON requests. It satisfies
// ports.Dispatcher.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	store   ports.CredentialStore
	bus     *events.Bus
	log     zerolog.Logger
}

// NewClient builds a Client around the injected credential store and event
// bus. The store is the only session state the dispatcher reads or writes.
func NewClient(opts Options, store ports.CredentialStore, bus *events.Bus, log zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: timeout,
		http:    httpClient,
		store:   store,
		bus:     bus,
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string, opts *ports.CallOptions) (*ports.Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts *ports.CallOptions) (*ports.Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

// Ping probes the backend's liveness endpoint. Unauthenticated callers can
// use it to distinguish "backend down" from "bad credentials".
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "/health", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts *ports.CallOptions) (*ports.Envelope, error) {
	start := time.Now()
	env, status, err := c.exchange(ctx, method, path, body, opts)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	metrics.RequestsTotal.WithLabelValues(method, outcomeLabel(status, err)).Inc()
	return env, err
}

func (c *Client) exchange(ctx context.Context, method, path string, body any, opts *ports.CallOptions) (*ports.Envelope, int, error) {
	target := c.baseURL + path
	if opts != nil && len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, classifyTransportError(err)
		}
		reader = bytes.NewReader(raw)
	}

	timeout := c.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, classifyTransportError(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts != nil {
		for key, values := range opts.Headers {
			req.Header.Del(key)
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	// Token is captured before the exchange so the 401 teardown can
	// compare-and-clear against exactly the credential this request carried.
	token := c.store.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("exchange failed")
		return nil, 0, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	env := decodeEnvelope(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(token, path)
	}

	if resp.StatusCode >= 400 {
		return env, resp.StatusCode, &ServerError{Status: resp.StatusCode, Message: env.FailureMessage()}
	}
	return env, resp.StatusCode, nil
}

// invalidateSession tears down the session after an authorization failure.
// The clear only happens while the stored token is still the one this request
// sent, so a login that raced the failing call keeps its fresh credential.
func (c *Client) invalidateSession(staleToken, path string) {
	if !c.store.ClearIfTokenMatches(staleToken) {
		return
	}
	metrics.SessionInvalidationsTotal.Inc()
	c.log.Info().Str("path", path).Msg("session invalidated after authorization failure")
	if c.bus != nil {
		c.bus.PublishSessionInvalidated(events.SessionInvalidated{
			Path:   path,
			Reason: "unauthorized",
		})
	}
}

// decodeEnvelope parses the response body into the backend envelope. A body
// that is not valid JSON reads as an empty envelope; the status code decides
// the outcome in that case.
func decodeEnvelope(r io.Reader) *ports.Envelope {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<20))
	if err != nil || len(raw) == 0 {
		return &ports.Envelope{}
	}
	var env ports.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ports.Envelope{}
	}
	return &env
}

var _ ports.Dispatcher = (*Client)(nil)
