package booking

import (
	"context"
	"time"

	"rentanything/internal/domain"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	HasConflict(ctx context.Context, listingID string, start, end time.Time) (bool, error)
	CreateIfNoConflict(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	ListBlockingForListing(ctx context.Context, listingID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
}

// ListingRepository is the part of the listing store bookings depend on
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
