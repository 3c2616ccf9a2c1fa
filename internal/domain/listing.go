package domain

import "time"

// Listing is a rentable item. OwnerID is set once on creation and never reassigned.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"categoryId"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Images      []string  `json:"images"`
	IsAvailable bool      `json:"isAvailable"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Owner    *User     `json:"owner,omitempty"`
	Category *Category `json:"category,omitempty"`
}

type ListingSort string

const (
	SortNewest    ListingSort = "createdAt_desc"
	SortOldest    ListingSort = "createdAt_asc"
	SortPriceAsc  ListingSort = "price_asc"
	SortPriceDesc ListingSort = "price_desc"
)

// ParseListingSort falls back to SortNewest for unknown values.
func ParseListingSort(s string) ListingSort {
	switch ListingSort(s) {
	case SortOldest, SortPriceAsc, SortPriceDesc:
		return ListingSort(s)
	default:
		return SortNewest
	}
}

type ListingFilters struct {
	CategorySlug string
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	SortBy       ListingSort
	Limit        int
	Offset       int
}
