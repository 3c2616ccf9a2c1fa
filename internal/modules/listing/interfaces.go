package listing

import (
	"context"

	"rentanything/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	Search(ctx context.Context, f domain.ListingFilters) ([]domain.Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
}

type ReviewRepository interface {
	ListByListing(ctx context.Context, listingID string) ([]domain.Review, error)
	Summary(ctx context.Context, listingID string) (domain.ReviewSummary, error)
}

// ImageProcessor validates listing images and moves inline data to storage.
type ImageProcessor interface {
	Process(ctx context.Context, ownerID string, images []string) ([]string, error)
}
