package review

import "rentanything/internal/domain"

type CreateReviewRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment" binding:"omitempty,max=2000"`
}

type ListResponse struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.ReviewSummary `json:"summary"`
}
