package service

import (
	"errors"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// failureMessage resolves the most specific explanation for a failed call:
// a server-supplied message wins, then the dispatcher's error taxonomy maps
// to a deterministic fallback. The result is never empty.
func failureMessage(env *ports.Envelope, err error) string {
	if msg := env.FailureMessage(); msg != "" {
		return msg
	}

	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "the request timed out, please try again"
	case errors.Is(err, domain.ErrUnauthorized):
		return "your session has expired, please log in again"
	case errors.Is(err, domain.ErrNotFound):
		return "the requested resource was not found"
	case errors.Is(err, domain.ErrUnavailable):
		return "the booking service could not be reached"
	case err != nil:
		return "the request failed, please try again"
	}

	return "the backend rejected the request"
}
