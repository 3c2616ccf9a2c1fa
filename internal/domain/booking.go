package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BlockingStatuses are the statuses that occupy a listing's calendar.
var BlockingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingActive}

func (s BookingStatus) Blocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID         string        `json:"id"`
	ListingID  string        `json:"listingId"`
	RenterID   string        `json:"renterId"`
	OwnerID    string        `json:"ownerId"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	// Relations
	Listing *Listing `json:"listing,omitempty"`
	Renter  *User    `json:"renter,omitempty"`
}
