package listing

import "errors"

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("not the listing owner")
	ErrNoImages         = errors.New("at least one image is required")
)
