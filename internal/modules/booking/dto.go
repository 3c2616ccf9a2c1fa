package booking

import "rentanything/internal/domain"

type CreateBookingRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	// TotalPrice is accepted from older clients; the server quotes the price itself.
	TotalPrice *float64 `json:"totalPrice,omitempty"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type Tab string

const (
	TabBookings Tab = "bookings"
	TabRentals  Tab = "rentals"
)

type ListResponse struct {
	Tab      Tab              `json:"tab"`
	Bookings []domain.Booking `json:"bookings"`
}

type BlockedRange struct {
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Status    domain.BookingStatus `json:"status"`
}

type AvailabilityResponse struct {
	ListingID string         `json:"listingId"`
	Blocked   []BlockedRange `json:"blocked"`
	// Available is set only when a date window was requested.
	Available *bool `json:"available,omitempty"`
}
