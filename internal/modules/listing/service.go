package listing

import (
	"context"
	"strings"

	"rentanything/internal/domain"
	"rentanything/internal/repository"
)

type Service struct {
	listings   ListingRepository
	categories CategoryRepository
	reviews    ReviewRepository
	images     ImageProcessor
}

func NewService(
	listings ListingRepository,
	categories CategoryRepository,
	reviews ReviewRepository,
	images ImageProcessor,
) *Service {
	return &Service{
		listings:   listings,
		categories: categories,
		reviews:    reviews,
		images:     images,
	}
}

func (s *Service) CreateListing(ctx context.Context, ownerID string, req CreateListingRequest) (*domain.Listing, error) {
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	imgs, err := s.images.Process(ctx, ownerID, req.Images)
	if err != nil {
		return nil, err
	}

	l := &domain.Listing{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Location:    strings.TrimSpace(req.Location),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Images:      imgs,
		IsAvailable: true,
		OwnerID:     ownerID,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateListing applies a partial update by the owner. The owner itself never changes.
func (s *Service) UpdateListing(ctx context.Context, userID, id string, req UpdateListingRequest) (*domain.Listing, error) {
	l, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != userID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		l.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		l.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.CategoryID != nil && *req.CategoryID != l.CategoryID {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		l.CategoryID = *req.CategoryID
	}
	if req.Location != nil {
		l.Location = strings.TrimSpace(*req.Location)
	}
	if req.Latitude != nil {
		l.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		l.Longitude = req.Longitude
	}
	if req.Images != nil {
		if len(req.Images) == 0 {
			return nil, ErrNoImages
		}
		imgs, err := s.images.Process(ctx, userID, req.Images)
		if err != nil {
			return nil, err
		}
		l.Images = imgs
	}
	if req.IsAvailable != nil {
		l.IsAvailable = *req.IsAvailable
	}

	if err := s.listings.Update(ctx, l); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetListing returns a listing with its reviews, newest first, and their summary.
func (s *Service) GetListing(ctx context.Context, id string) (*ListingDetail, error) {
	l, err := s.getListing(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByListing(ctx, id)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Summary(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ListingDetail{Listing: l, Reviews: reviews, ReviewSummary: summary}, nil
}

func (s *Service) Browse(ctx context.Context, f domain.ListingFilters) ([]domain.Listing, int64, error) {
	f.SortBy = domain.ParseListingSort(string(f.SortBy))
	return s.listings.Search(ctx, f)
}

func (s *Service) MyListings(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID)
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) getListing(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
