package ports

import (
	"context"

	"github.com/triporia/booking-client/internal/core/domain"
)

// OfflineCache is the local read-through copy of data worth having without
// connectivity. Services treat it as best-effort: cache failures never fail
// the operation that triggered them.
type OfflineCache interface {
	SaveBookings(ctx context.Context, bookings []domain.Booking) error
	Bookings(ctx context.Context) ([]domain.Booking, error)
	SaveHotelSearch(ctx context.Context, destination string, hotels []domain.Hotel) error
	HotelSearch(ctx context.Context, destination string) ([]domain.Hotel, error)
}
