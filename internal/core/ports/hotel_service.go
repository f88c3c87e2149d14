package ports

import (
	"context"

	"github.com/triporia/booking-client/internal/core/domain"
)

// SearchFilters carries hotel search parameters. Zero values are omitted
// from the outgoing query.
type SearchFilters struct {
	Destination string
	CheckIn     string
	CheckOut    string
	Guests      int
	MaxPrice    float64
}

// HotelList is the payload of a hotel search. Hotels is never nil.
type HotelList struct {
	Hotels []domain.Hotel `json:"hotels"`
}

// HotelService exposes the hotel catalogue operations.
type HotelService interface {
	Search(ctx context.Context, filters SearchFilters) Result[HotelList]
	Details(ctx context.Context, hotelID string) Result[domain.Hotel]
}

// AddReviewInput carries a new guest review.
type AddReviewInput struct {
	HotelID string `validate:"required"`
	Rating  int    `validate:"required,min=1,max=5"`
	Comment string `validate:"omitempty,max=2000"`
}

// ReviewList is the payload of a review listing. Reviews is never nil.
type ReviewList struct {
	Reviews []domain.Review `json:"reviews"`
}

// ReviewService exposes review submission and listing.
type ReviewService interface {
	Add(ctx context.Context, input AddReviewInput) Result[domain.Review]
	List(ctx context.Context, hotelID string) Result[ReviewList]
}
