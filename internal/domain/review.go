package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	ReviewerID string    `json:"reviewerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Reviewer *User `json:"reviewer,omitempty"`
}

// ReviewSummary aggregates the ratings of one listing.
type ReviewSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}
