package ports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Envelope is the backend's canonical response body: a success flag, an
// operation-specific payload and an optional human-readable message. Data is
// kept raw so that each operation can apply its own shape mapping.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// FailureMessage returns the most specific server-supplied explanation, or ""
// when the body carried none.
func (e *Envelope) FailureMessage() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// DecodeData unmarshals the envelope payload into v. A missing payload is not
// an error; v keeps its zero value.
func (e *Envelope) DecodeData(v any) error {
	if e == nil || len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// CallOptions carries per-call overrides for a dispatched request.
type CallOptions struct {
	Query   url.Values
	Headers http.Header
	Timeout time.Duration
}

// Dispatcher is the single point of HTTP egress. Every call resolves the
// absolute URL from the configured base, attaches the stored bearer token
// when present, applies JSON content negotiation and enforces the request
// timeout. A 401 response additionally triggers global session invalidation
// before the error is returned.
type Dispatcher interface {
	Get(ctx context.Context, path string, opts *CallOptions) (*Envelope, error)
	Post(ctx context.Context, path string, body any, opts *CallOptions) (*Envelope, error)
	Put(ctx context.Context, path string, body any, opts *CallOptions) (*Envelope, error)
	Patch(ctx context.Context, path string, body any, opts *CallOptions) (*Envelope, error)
	Delete(ctx context.Context, path string, opts *CallOptions) (*Envelope, error)
}
