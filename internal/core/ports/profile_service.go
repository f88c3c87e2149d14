package ports

import (
	"context"

	"github.com/triporia/booking-client/internal/core/domain"
)

// UpdateProfileInput carries profile fields to change. Empty fields are left
// untouched by the backend.
type UpdateProfileInput struct {
	Name  string `validate:"omitempty,min=1"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,min=7"`
}

// ProfileService exposes profile read/update. A successful fetch or update
// refreshes the cached profile snapshot in the credential store.
type ProfileService interface {
	Get(ctx context.Context) Result[domain.Profile]
	Update(ctx context.Context, input UpdateProfileInput) Result[domain.Profile]
}

// SendSOSInput carries an emergency alert.
type SendSOSInput struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
	Message   string  `validate:"omitempty,max=500"`
}

// SOSService raises emergency alerts and polls their status.
type SOSService interface {
	Send(ctx context.Context, input SendSOSInput) Result[domain.SOSAlert]
	Status(ctx context.Context, alertID string) Result[domain.SOSAlert]
}
