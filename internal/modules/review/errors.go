package review

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrSelfReview      = errors.New("cannot review own listing")
	ErrConflict        = errors.New("review already exists")
)
