package ports

import (
	"context"

	"github.com/triporia/booking-client/internal/core/domain"
)

// DashboardStats is the platform-wide counter block shown on the admin
// dashboard.
type DashboardStats struct {
	Users                int `json:"users"`
	Vendors              int `json:"vendors"`
	Hotels               int `json:"hotels"`
	Bookings             int `json:"bookings"`
	PendingVerifications int `json:"pending_verifications"`
}

// Dashboard aggregates the admin overview. PendingHotels is never nil.
type Dashboard struct {
	Stats         DashboardStats `json:"stats"`
	PendingHotels []domain.Hotel `json:"pending_hotels"`
}

// AdminService exposes the admin-only operations. The backend enforces the
// role; this layer only forwards the credential.
type AdminService interface {
	// Dashboard fetches the stats block and the pending-verification queue
	// concurrently and merges them into one view.
	Dashboard(ctx context.Context) Result[Dashboard]
	VerifyHotel(ctx context.Context, hotelID string) Result[domain.Hotel]
	BlockUser(ctx context.Context, userID string) Result[Ack]
}
