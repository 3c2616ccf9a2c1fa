package review

import (
	"context"
	"strings"

	"rentanything/internal/domain"
	"rentanything/internal/repository"
)

type Service struct {
	reviews  ReviewRepository
	listings ListingGate
}

func NewService(reviews ReviewRepository, listings ListingGate) *Service {
	return &Service{reviews: reviews, listings: listings}
}

// Create stores one review per user per listing. Owners cannot review their own listings.
func (s *Service) Create(ctx context.Context, userID string, req CreateReviewRequest) (*domain.Review, error) {
	l, err := s.listing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID == userID {
		return nil, ErrSelfReview
	}

	exists, err := s.reviews.Exists(ctx, l.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	rv := &domain.Review{
		ListingID:  l.ID,
		ReviewerID: userID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByListing(ctx context.Context, listingID string) (*ListResponse, error) {
	if _, err := s.listing(ctx, listingID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Summary(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Reviews: reviews, Summary: summary}, nil
}

func (s *Service) listing(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}
