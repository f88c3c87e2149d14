package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/triporia/booking-client/internal/core/domain"
)

// ServerError is returned when the backend answered with an HTTP error
// status. Message carries the server-supplied explanation when the error body
// was structured.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *ServerError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// classifyTransportError maps a failed exchange onto the client's error
// taxonomy: a timeout is distinct from every other connectivity failure.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

// outcomeLabel converts an exchange result into the metrics outcome label.
func outcomeLabel(status int, err error) string {
	switch {
	case err == nil && status < 400:
		return "ok"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status >= 400:
		return "server_error"
	default:
		return "network_error"
	}
}
