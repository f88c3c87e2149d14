package service

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
	"github.com/triporia/booking-client/internal/core/ports"
)

// ReviewService submits and lists guest reviews for a hotel.
type ReviewService struct {
	api ports.Dispatcher
	log zerolog.Logger
}

func NewReviewService(api ports.Dispatcher, log zerolog.Logger) *ReviewService {
	return &ReviewService{api: api, log: log}
}

// reviewListPayload enumerates the key names the backend uses for the review
// collection.
type reviewListPayload struct {
	Reviews []domain.Review `json:"reviews"`
	Items   []domain.Review `json:"items"`
}

func (p reviewListPayload) list() []domain.Review {
	if p.Reviews != nil {
		return p.Reviews
	}
	if p.Items != nil {
		return p.Items
	}
	return []domain.Review{}
}

func (s *ReviewService) Add(ctx context.Context, input ports.AddReviewInput) ports.Result[domain.Review] {
	if err := validateInput(input); err != nil {
		return ports.Fail(domain.Review{}, err.Error())
	}

	body := map[string]any{"rating": input.Rating, "comment": input.Comment}
	env, err := s.api.Post(ctx, "/hotels/"+url.PathEscape(input.HotelID)+"/reviews", body, nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(domain.Review{}, failureMessage(env, err))
	}

	var nested struct {
		Review *domain.Review `json:"review"`
	}
	if decodeErr := env.DecodeData(&nested); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("review payload malformed")
		return ports.Fail(domain.Review{}, "the backend returned an unreadable response")
	}

	review := domain.Review{HotelID: input.HotelID, Rating: input.Rating, Comment: input.Comment}
	if nested.Review != nil {
		review = *nested.Review
	} else if decodeErr := env.DecodeData(&review); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Msg("review payload malformed")
		return ports.Fail(domain.Review{}, "the backend returned an unreadable response")
	}
	return ports.OK(review)
}

func (s *ReviewService) List(ctx context.Context, hotelID string) ports.Result[ports.ReviewList] {
	empty := ports.ReviewList{Reviews: []domain.Review{}}
	if hotelID == "" {
		return ports.Fail(empty, "hotel id is required")
	}

	env, err := s.api.Get(ctx, "/hotels/"+url.PathEscape(hotelID)+"/reviews", nil)
	if err != nil || env == nil || !env.Success {
		return ports.Fail(empty, failureMessage(env, err))
	}

	var payload reviewListPayload
	if decodeErr := env.DecodeData(&payload); decodeErr != nil {
		s.log.Debug().Err(decodeErr).Str("hotel_id", hotelID).Msg("review list payload malformed")
		return ports.Fail(empty, "the backend returned an unreadable response")
	}
	return ports.OK(ports.ReviewList{Reviews: payload.list()})
}

var _ ports.ReviewService = (*ReviewService)(nil)
