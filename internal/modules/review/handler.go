package review

import (
	"errors"
	"net/http"

	"rentanything/internal/middleware"
	"rentanything/internal/pkg/response"
	"rentanything/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/listings/:id/reviews", h.ListByListing)
	}
	if protected != nil {
		protected.POST("/reviews", h.Create)
	}
}

// Create handles POST /api/v1/reviews
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

// ListByListing handles GET /api/v1/listings/:id/reviews
func (h *Handler) ListByListing(c *gin.Context) {
	out, err := h.svc.ListByListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrSelfReview):
		response.Error(c, http.StatusBadRequest, "SELF_REVIEW", "You cannot review your own listing")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "REVIEW_EXISTS", "You have already reviewed this listing")
	default:
		response.Internal(c, err)
	}
}
