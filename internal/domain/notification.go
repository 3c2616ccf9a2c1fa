package domain

import "time"

type NotificationType string

const (
	NotifBookingRequested     NotificationType = "booking.requested"
	NotifBookingStatusChanged NotificationType = "booking.status_changed"
)

// Notification is a booking event addressed to one user.
type Notification struct {
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipientId"`
	BookingID   string           `json:"bookingId"`
	ListingID   string           `json:"listingId"`
	Status      BookingStatus    `json:"status"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func NewBookingNotification(t NotificationType, recipientID string, b *Booking, at time.Time) Notification {
	return Notification{
		Type:        t,
		RecipientID: recipientID,
		BookingID:   b.ID,
		ListingID:   b.ListingID,
		Status:      b.Status,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		OccurredAt:  at.UTC(),
	}
}
