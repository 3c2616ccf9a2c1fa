package listing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rentanything/internal/domain"
	"rentanything/internal/middleware"
	"rentanything/internal/pkg/images"
	"rentanything/internal/pkg/response"
	"rentanything/internal/pkg/utils"
	"rentanything/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.GetCategories)
	rg.GET("/listings", h.BrowseListings)
	rg.GET("/listings/:id", h.GetListing)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/listings", h.CreateListing)
	rg.PATCH("/listings/:id", h.UpdateListing)
	rg.GET("/users/me/listings", h.MyListings)
}

// GetCategories handles GET /api/v1/categories
func (h *Handler) GetCategories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

// BrowseListings handles GET /api/v1/listings with filters
func (h *Handler) BrowseListings(c *gin.Context) {
	p := utils.GetPagination(c)
	f := domain.ListingFilters{
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Location:     strings.TrimSpace(c.Query("location")),
		SortBy:       domain.ListingSort(c.Query("sortBy")),
		Limit:        p.Limit,
		Offset:       p.Offset,
	}

	details := map[string]string{}
	if v := c.Query("minPrice"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val >= 0 {
			f.MinPrice = &val
		} else {
			details["minPrice"] = "Min price must be a non-negative number"
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val >= 0 {
			f.MaxPrice = &val
		} else {
			details["maxPrice"] = "Max price must be a non-negative number"
		}
	}
	if len(details) > 0 {
		response.ValidationError(c, details)
		return
	}

	list, total, err := h.service.Browse(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, BrowseResponse{
		Listings:   list,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: utils.TotalPages(total, p.Limit),
	})
}

func (h *Handler) GetListing(c *gin.Context) {
	detail, err := h.service.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) CreateListing(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	l, err := h.service.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"listing": l})
}

func (h *Handler) UpdateListing(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	l, err := h.service.UpdateListing(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}

func (h *Handler) MyListings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	list, err := h.service.MyListings(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": list})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrCategoryNotFound):
		response.Error(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You can only edit your own listings")
	case errors.Is(err, ErrNoImages):
		response.ValidationError(c, map[string]string{"images": "Images must be at least 1 item"})
	case errors.Is(err, images.ErrInvalidImage):
		response.ValidationError(c, map[string]string{"images": err.Error()})
	default:
		response.Internal(c, err)
	}
}
