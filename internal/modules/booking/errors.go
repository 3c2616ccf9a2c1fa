package booking

import "errors"

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrEndBeforeStart     = errors.New("end date before start date")
	ErrInvalidTab         = errors.New("invalid bookings tab")
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingUnavailable = errors.New("listing is not available")
	ErrSelfBooking        = errors.New("cannot book own listing")
	ErrBookingConflict    = errors.New("dates overlap an existing booking")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
