package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
	"github.com/triporia/booking-client/internal/metrics"
)

// BookingService implements the booking lifecycle. Successful listings are
// mirrored into the offline cache so the last known state stays readable
// without connectivity.
type BookingService struct {
	api   ports.Dispatcher
	cache ports.OfflineCache
	log   zerolog.Logger
}

// NewBookingService creates the service. cache may be nil.
func NewBookingService(api ports.Dispatcher, cache ports.OfflineCache, log zerolog.Logger) *BookingService {
	return &BookingService{api: api, cache: cache, log: log}
}

// bookingListPayload enumerates the key names the backend uses for the
// booking collection.
type bookingListPayload struct {
	Bookings []domain.Booking `json:"bookings"`
	Items    []domain.Booking `json:"items"`
}

func (p bookingListPayload) list() []domain.Booking {
	if p.Bookings != nil {
		return p.Bookings
	}
	if p.Items != nil {
		return p.Items
	}
	return []domain.Booking{}
}

// decodeBooking maps a single-booking response: nested under "booking" or
// the object itself.
func decodeBooking(env *ports.Envelope) (domain.Booking, error) {
	var nested struct {
		Booking *domain.Booking `json:"booking"`
	}
	if err := env.DecodeData(&nested); err != nil {
		return domain.Booking{}, err
	}
	if nested.Booking != nil {
		return *nested.Booking, nil
	}

	var flat domain.Booking
	if err := env.DecodeData(&flat); err != nil {
		return domain.Booking{}, err
	}
	return flat, nil
}

// Create reserves a stay. When the input carries no idempotency key one is
// generated, so a retried create after an ambiguous failure never books the
// same stay twice.
func (s *BookingService) Create(ctx context.Context, input ports.CreateBookingInput) ports.Result[domain.Booking] {
	if err := validateInput(input); err != nil {
		return ports.Fail(domain.Booking{}, err.Error())
	}

	key := input.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	body := map[string]any{
		"hotel_id":        input.HotelID,
		"check_in":        input.CheckIn,
		"check_out":       input.CheckOut,
		"guests":          input.Guests,
		"idempotency_key": key,
	}
	env, err := s.api.Post(ctx, "/bookings", body, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Booking{}, failureMessage(env, err))
	}

	booking, decodeErr := decodeBooking(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("booking payload malformed")
		return ports.Fail(domain.Booking{}, "the backend returned an unreadable response")
	}
	s.log.Info().Str("booking_id", booking.ID).Str("hotel_id", input.HotelID).Msg("booking created")
	return ports.OK(booking)
}

func (s *BookingService) List(ctx context.Context) ports.Result[ports.BookingList] {
	empty := ports.BookingList{Bookings: []domain.Booking{}}

	env, err := s.api.Get(ctx, "/bookings", nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(empty, failureMessage(env, err))
	}

	var payload bookingListPayload
	if decodeErr := env.DecodeData(&payload); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("booking list payload malformed")
		return ports.Fail(empty, "the backend returned an unreadable response")
	}

	bookings := payload.list()
	s.mirrorBookings(ctx, bookings)
	return ports.OK(ports.BookingList{Bookings: bookings})
}

// ListCached serves the last successfully fetched bookings from the local
// cache, for offline use.
func (s *BookingService) ListCached(ctx context.Context) ports.Result[ports.BookingList] {
	empty := ports.BookingList{Bookings: []domain.Booking{}}
	if s.cache == nil {
		return ports.Fail(empty, "offline cache is not configured")
	}
	bookings, err := s.cache.Bookings(ctx)
	if err != nil {
		return ports.Fail(empty, "offline cache unavailable")
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return ports.OK(ports.BookingList{Bookings: bookings})
}

func (s *BookingService) Get(ctx context.Context, bookingID string) ports.Result[domain.Booking] {
	if bookingID == "" {
		return ports.Fail(domain.Booking{}, "booking id is required")
	}

	env, err := s.api.Get(ctx, "/bookings/"+url.PathEscape(bookingID), nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Booking{}, failureMessage(env, err))
	}

	booking, decodeErr := decodeBooking(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("booking_id", bookingID).Msg("booking payload malformed")
		return ports.Fail(domain.Booking{}, "the backend returned an unreadable response")
	}
	return ports.OK(booking)
}

// Cancel cancels a booking. The current status is fetched first and checked
// against the transition table, so a booking that can never be cancelled
// fails fast without the cancel round trip. When the status fetch itself
// fails the cancel is attempted anyway; the backend stays authoritative.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) ports.Result[domain.Booking] {
	if bookingID == "" {
		return ports.Fail(domain.Booking{}, "booking id is required")
	}

	if current := s.Get(ctx, bookingID); current.Success {
		status := current.Data.Status
		if status != "" && !status.CanTransitionTo(domain.BookingCancelled) {
			return ports.Fail(domain.Booking{},
				fmt.Sprintf("a %s booking cannot be cancelled", status))
		}
	}

	env, err := s.api.Post(ctx, "/bookings/"+url.PathEscape(bookingID)+"/cancel", nil, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Booking{}, failureMessage(env, err))
	}

	booking, decodeErr := decodeBooking(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("booking_id", bookingID).Msg("booking payload malformed")
		return ports.Fail(domain.Booking{}, "the backend returned an unreadable response")
	}
	s.log.Info().Str("booking_id", bookingID).Msg("booking cancelled")
	return ports.OK(booking)
}

func (s *BookingService) mirrorBookings(ctx context.Context, bookings []domain.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveBookings(ctx, bookings); err != nil {
		s.log.Debug().Err(err).Msg("booking cache write failed")
		return
	}
	metrics.CacheRefreshesTotal.WithLabelValues("bookings").Inc()
}

var _ ports.BookingService = (*BookingService)(nil)
