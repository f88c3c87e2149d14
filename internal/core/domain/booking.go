package domain

import "time"

// BookingStatus represents the lifecycle state of a booking as reported by
// the backend.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// validTransitions defines the transitions the client will attempt; the
// backend remains authoritative, this table only avoids round trips for
// requests that can never succeed.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reservation of a hotel stay.
type Booking struct {
	ID             string        `json:"id"`
	HotelID        string        `json:"hotel_id"`
	HotelName      string        `json:"hotel_name,omitempty"`
	CheckIn        string        `json:"check_in"`
	CheckOut       string        `json:"check_out"`
	Guests         int           `json:"guests"`
	Amount         float64       `json:"amount,omitempty"`
	Currency       string        `json:"currency,omitempty"`
	Status         BookingStatus `json:"status"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time     `json:"created_at,omitempty"`
}

// Payment tracks a payment intent raised against a booking.
type Payment struct {
	IntentID    string  `json:"intent_id"`
	BookingID   string  `json:"booking_id"`
	Amount      float64 `json:"amount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Status      string  `json:"status,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

// SOSAlert is an emergency alert raised by a tourist.
type SOSAlert struct {
	ID        string  `json:"id,omitempty"`
	ClientRef string  `json:"client_ref,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Message   string  `json:"message,omitempty"`
	Status    string  `json:"status,omitempty"`
}
