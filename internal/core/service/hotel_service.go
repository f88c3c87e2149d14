package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
	"github.com/triporia/booking-client/internal/metrics"
)

// HotelService implements hotel search and detail lookups. Successful
// searches are mirrored into the offline cache keyed by destination.
type HotelService struct {
	api   ports.Dispatcher
	cache ports.OfflineCache
	log   zerolog.Logger
}

// NewHotelService creates the service. cache may be nil, in which case
// search results are simply not mirrored.
func NewHotelService(api ports.Dispatcher, cache ports.OfflineCache, log zerolog.Logger) *HotelService {
	return &HotelService{api: api, cache: cache, log: log}
}

// hotelListPayload enumerates the key names the backend uses for the hotel
// collection.
type hotelListPayload struct {
	Hotels  []domain.Hotel `json:"hotels"`
	Results []domain.Hotel `json:"results"`
}

func (p hotelListPayload) list() []domain.Hotel {
	if p.Hotels != nil {
		return p.Hotels
	}
	if p.Results != nil {
		return p.Results
	}
	return []domain.Hotel{}
}

func (s *HotelService) Search(ctx context.Context, filters ports.SearchFilters) ports.Result[ports.HotelList] {
	empty := ports.HotelList{Hotels: []domain.Hotel{}}

	query := url.Values{}
	if filters.Destination != "" {
		query.Set("destination", filters.Destination)
	}
	if filters.CheckIn != "" {
		query.Set("check_in", filters.CheckIn)
	}
	if filters.CheckOut != "" {
		query.Set("check_out", filters.CheckOut)
	}
	if filters.Guests > 0 {
		query.Set("guests", strconv.Itoa(filters.Guests))
	}
	if filters.MaxPrice > 0 {
		query.Set("max_price", strconv.FormatFloat(filters.MaxPrice, 'f', -1, 64))
	}

	env, err := s.api.Get(ctx, "/hotels/search", &ports.CallOptions{Query: query})
	if err != nil || env == nil || !env.Success {
		return ports.Fail(empty, failureMessage(env, err))
	}

	var payload hotelListPayload
	if decodeErr := env.DecodeData(&payload); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("hotel search payload malformed")
		return ports.Fail(empty, "the backend returned an unreadable response")
	}

	hotels := payload.list()
	s.mirrorSearch(ctx, filters.Destination, hotels)
	return ports.OK(ports.HotelList{Hotels: hotels})
}

func (s *HotelService) mirrorSearch(ctx context.Context, destination string, hotels []domain.Hotel) {
	if s.cache == nil || destination == "" || len(hotels) == 0 {
		return
	}
	if err := s.cache.SaveHotelSearch(ctx, destination, hotels); err != nil {
		s.log.Debug().Err(err).Str("destination", destination).Msg("search cache write failed")
		return
	}
	metrics.CacheRefreshesTotal.WithLabelValues("hotel_search").Inc()
}

func (s *HotelService) Details(ctx context.Context, hotelID string) ports.Result[domain.Hotel] {
	if hotelID == "" {
		return ports.Fail(domain.Hotel{}, "hotel id is required")
	}

	env, err := s.api.Get(ctx, "/hotels/"+url.PathEscape(hotelID), nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Hotel{}, failureMessage(env, err))
	}

	hotel, decodeErr := decodeHotel(env)
	if decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("hotel_id", hotelID).Msg("hotel payload malformed")
		return ports.Fail(domain.Hotel{}, "the backend returned an unreadable response")
	}
	return ports.OK(hotel)
}

// decodeHotel maps the detail response: nested under "hotel" or the object
// itself.
func decodeHotel(env *ports.Envelope) (domain.Hotel, error) {
	var nested struct {
		Hotel *domain.Hotel `json:"hotel"`
	}
	if err := env.DecodeData(&nested); err != nil {
		return domain.Hotel{}, err
	}
	if nested.Hotel != nil {
		return *nested.Hotel, nil
	}

	var flat domain.Hotel
	if err := env.DecodeData(&flat); err != nil {
		return domain.Hotel{}, err
	}
	return flat, nil
}

var _ ports.HotelService = (*HotelService)(nil)
