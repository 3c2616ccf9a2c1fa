package review

import (
	"context"

	"rentanything/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	Exists(ctx context.Context, listingID, reviewerID string) (bool, error)
	ListByListing(ctx context.Context, listingID string) ([]domain.Review, error)
	Summary(ctx context.Context, listingID string) (domain.ReviewSummary, error)
}

type ListingGate interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
}
