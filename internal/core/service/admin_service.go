package service

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// AdminService implements the admin-only operations. Authorization is the
// backend's concern; a non-admin caller simply gets a failed result.
type AdminService struct {
	api ports.Dispatcher
	log zerolog.Logger
}

func NewAdminService(api ports.Dispatcher, log zerolog.Logger) *AdminService {
	return &AdminService{api: api, log: log}
}

// Dashboard fetches the stats block and the pending-verification queue
// concurrently; the two calls are independent and neither blocks the other.
// The merged view fails when either fetch fails.
func (s *AdminService) Dashboard(ctx context.Context) ports.Result[ports.Dashboard] {
	empty := ports.Dashboard{PendingHotels: []domain.Hotel{}}

	var (
		mu      sync.Mutex
		stats   ports.DashboardStats
		pending = []domain.Hotel{}
		failMsg string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		env, err := s.api.Get(gctx, "/admin/stats", nil)
		if err != nil || env == nil || !env.Success {
			mu.Lock()
			failMsg = failureMessage(env, err)
			mu.Unlock()
			return err
		}
		var payload struct {
			Stats *ports.DashboardStats `json:"stats"`
			ports.DashboardStats
		}
		if decodeErr := env.DecodeData(&payload); decodeErr != nil {
			return decodeErr
		}
		mu.Lock()
		if payload.Stats != nil {
			stats = *payload.Stats
		} else {
			stats = payload.DashboardStats
		}
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		env, err := s.api.Get(gctx, "/admin/hotels/pending", nil)
		if err != nil || env == nil || !env.Success {
			mu.Lock()
			failMsg = failureMessage(env, err)
			mu.Unlock()
			return err
		}
		var payload hotelListPayload
		if decodeErr := env.DecodeData(&payload); decodeErr != nil {
			return decodeErr
		}
		mu.Lock()
		pending = payload.list()
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		mu.Lock()
		msg := failMsg
		mu.Unlock()
		if msg == "" {
			msg = "the dashboard could not be loaded"
		}
		return ports.Fail(empty, msg)
	}

	return ports.OK(ports.Dashboard{Stats: stats, PendingHotels: pending})
}

func (s *AdminService) VerifyHotel(ctx context.Context, hotelID string) ports.Result[domain.Hotel] {
	if hotelID == "" {
		return ports.Fail(domain.Hotel{}, "hotel id is required")
	}

	env, err := s.api.Post(ctx, "/admin/hotels/"+url.PathEscape(hotelID)+"/verify", nil, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Hotel{}, failureMessage(env, err))
	}

	hotel, decodeErr := decodeHotel(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("hotel_id", hotelID).Msg("hotel payload malformed")
		return ports.Fail(domain.Hotel{}, "the backend returned an unreadable response")
	}
	if hotel.ID == "" {
		hotel.ID = hotelID
	}
	hotel.Verified = true
	s.log.Info().Str("hotel_id", hotel.ID).Msg("hotel verified")
	return ports.OK(hotel)
}

func (s *AdminService) BlockUser(ctx context.Context, userID string) ports.Result[ports.Ack] {
	if userID == "" {
		return ports.Fail(ports.Ack{}, "user id is required")
	}

	env, err := s.api.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/block", nil, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(ports.Ack{}, failureMessage(env, err))
	}
	s.log.Info().Str("user_id", userID).Msg("user blocked")
	return ports.OK(ports.Ack{})
}

var _ ports.AdminService = (*AdminService)(nil)
