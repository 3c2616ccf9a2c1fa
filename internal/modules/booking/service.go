package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentanything/internal/domain"
	"rentanything/internal/repository"
)

type Service struct {
	bookings BookingRepository
	listings ListingRepository
	notifs   Notifier
	now      func() time.Time
}

func NewService(bookings BookingRepository, listings ListingRepository, notifs Notifier) *Service {
	return &Service{
		bookings: bookings,
		listings: listings,
		notifs:   notifs,
		now:      time.Now,
	}
}

// ParseRange parses both ends of a booking request and rejects an end before the start.
func ParseRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: startDate: %v", ErrInvalidDate, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: endDate: %v", ErrInvalidDate, err)
	}
	if e.Before(s) {
		return DateRange{}, ErrEndBeforeStart
	}
	return DateRange{Start: s, End: e}, nil
}

// CheckConflict reports whether a blocking booking of listingID overlaps r.
func (s *Service) CheckConflict(ctx context.Context, listingID string, r DateRange) (bool, error) {
	return s.bookings.HasConflict(ctx, listingID, r.Start, r.End)
}

func (s *Service) CreateBooking(ctx context.Context, renterID string, req CreateBookingRequest) (*domain.Booking, error) {
	r, err := ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !listing.IsAvailable {
		return nil, ErrListingUnavailable
	}
	if listing.OwnerID == renterID {
		return nil, ErrSelfBooking
	}

	b := &domain.Booking{
		ListingID:  listing.ID,
		RenterID:   renterID,
		OwnerID:    listing.OwnerID,
		StartDate:  r.Start,
		EndDate:    r.End,
		TotalPrice: QuotePrice(listing.Price, r),
		Status:     domain.BookingPending,
	}

	if err := s.bookings.CreateIfNoConflict(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return nil, ErrBookingConflict
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.Notify(ctx, domain.NewBookingNotification(domain.NotifBookingRequested, b.OwnerID, b, s.now()))
	}

	return b, nil
}

// GetBooking returns a booking visible to its renter or the listing owner.
func (s *Service) GetBooking(ctx context.Context, userID, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func ParseTab(raw string) (Tab, error) {
	switch Tab(raw) {
	case "", TabBookings:
		return TabBookings, nil
	case TabRentals:
		return TabRentals, nil
	default:
		return "", ErrInvalidTab
	}
}

// ListBookings returns the caller's own bookings, or the bookings on their listings for TabRentals.
func (s *Service) ListBookings(ctx context.Context, userID string, tab Tab) ([]domain.Booking, error) {
	if tab == TabRentals {
		return s.bookings.ListByOwner(ctx, userID)
	}
	return s.bookings.ListByRenter(ctx, userID)
}

// UpdateStatus lets the listing owner confirm or cancel a pending booking.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, to domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, ErrForbidden
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	b.Status = to
	b.UpdatedAt = s.now().UTC()

	if s.notifs != nil {
		_ = s.notifs.Notify(ctx, domain.NewBookingNotification(domain.NotifBookingStatusChanged, b.RenterID, b, s.now()))
	}

	return b, nil
}

// CanTransition is the owner-moderated part of the lifecycle: pending to confirmed or cancelled.
func CanTransition(from, to domain.BookingStatus) bool {
	return from == domain.BookingPending && (to == domain.BookingConfirmed || to == domain.BookingCancelled)
}

// Availability lists the blocking date ranges of a listing by start date. With a window
// only the ranges overlapping it are listed and Available tells whether it can be booked.
func (s *Service) Availability(ctx context.Context, listingID string, window *DateRange) (*AvailabilityResponse, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	rows, err := s.bookings.ListBlockingForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	out := &AvailabilityResponse{ListingID: listingID, Blocked: make([]BlockedRange, 0, len(rows))}
	for _, b := range rows {
		if window != nil && !Overlaps(*window, DateRange{Start: b.StartDate, End: b.EndDate}) {
			continue
		}
		out.Blocked = append(out.Blocked, BlockedRange{
			StartDate: b.StartDate.UTC().Format(dateLayout),
			EndDate:   b.EndDate.UTC().Format(dateLayout),
			Status:    b.Status,
		})
	}

	if window != nil {
		conflict, err := s.CheckConflict(ctx, listingID, *window)
		if err != nil {
			return nil, err
		}
		available := listing.IsAvailable && !conflict
		out.Available = &available
	}
	return out, nil
}
