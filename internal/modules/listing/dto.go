package listing

import "rentanything/internal/domain"

type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required,min=5,max=120"`
	Description string   `json:"description" binding:"required,min=20,max=5000"`
	Price       float64  `json:"price" binding:"required,gte=1,lte=10000"`
	CategoryID  string   `json:"categoryId" binding:"required"`
	Location    string   `json:"location" binding:"required,min=3,max=200"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Images      []string `json:"images" binding:"required,min=1,max=10,dive,required"`
}

// UpdateListingRequest is a partial update; nil fields are left unchanged.
type UpdateListingRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=5,max=120"`
	Description *string  `json:"description" binding:"omitempty,min=20,max=5000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=1,lte=10000"`
	CategoryID  *string  `json:"categoryId" binding:"omitempty,min=1"`
	Location    *string  `json:"location" binding:"omitempty,min=3,max=200"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Images      []string `json:"images" binding:"omitempty,max=10,dive,required"`
	IsAvailable *bool    `json:"isAvailable"`
}

type ListingDetail struct {
	Listing       *domain.Listing      `json:"listing"`
	Reviews       []domain.Review      `json:"reviews"`
	ReviewSummary domain.ReviewSummary `json:"reviewSummary"`
}

type BrowseResponse struct {
	Listings   []domain.Listing `json:"listings"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}
