package ports

import (
	"context"

	"github.com/triporia/booking-client/internal/core/domain"
)

// CreateBookingInput carries all data needed to reserve a stay. When
// IdempotencyKey is empty the service generates one, so a retried create
// never books twice.
type CreateBookingInput struct {
	HotelID        string `validate:"required"`
	CheckIn        string `validate:"required"`
	CheckOut       string `validate:"required"`
	Guests         int    `validate:"required,gt=0"`
	IdempotencyKey string
}

// BookingList is the payload of a booking listing. Bookings is never nil.
type BookingList struct {
	Bookings []domain.Booking `json:"bookings"`
}

// BookingService exposes the booking lifecycle operations.
type BookingService interface {
	Create(ctx context.Context, input CreateBookingInput) Result[domain.Booking]
	List(ctx context.Context) Result[BookingList]
	Get(ctx context.Context, bookingID string) Result[domain.Booking]
	Cancel(ctx context.Context, bookingID string) Result[domain.Booking]
	// ListCached returns the last successfully fetched bookings from the
	// local cache, for offline use. Never performs network I/O.
	ListCached(ctx context.Context) Result[BookingList]
}

// InitiatePaymentInput starts a payment intent for a booking. ReturnURL is
// where the payment gateway redirects the payer once the checkout completes;
// the CLI points it at its local callback listener.
type InitiatePaymentInput struct {
	BookingID string `validate:"required"`
	ReturnURL string `validate:"omitempty,url"`
}

// PaymentService exposes the two-step initiate/confirm payment flow.
type PaymentService interface {
	Initiate(ctx context.Context, input InitiatePaymentInput) Result[domain.Payment]
	Confirm(ctx context.Context, intentID string) Result[domain.Payment]
}
