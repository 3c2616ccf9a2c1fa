package booking

import (
	"errors"
	"net/http"

	"rentanything/internal/middleware"
	"rentanything/internal/pkg/response"
	"rentanything/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authenticated booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PATCH("/bookings/:id", h.UpdateStatus)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/listings/:id/availability", h.Availability)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	tab, err := ParseTab(c.Query("tab"))
	if err != nil {
		response.ValidationError(c, map[string]string{"tab": "Tab must be one of: bookings, rentals"})
		return
	}

	list, err := h.service.ListBookings(c.Request.Context(), userID, tab)
	if err != nil {
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, ListResponse{Tab: tab, Bookings: list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// Availability handles GET /api/v1/listings/:id/availability[?startDate=&endDate=]
func (h *Handler) Availability(c *gin.Context) {
	var window *DateRange
	start, end := c.Query("startDate"), c.Query("endDate")
	switch {
	case start != "" && end != "":
		r, err := ParseRange(start, end)
		if err != nil {
			h.writeError(c, err)
			return
		}
		window = &r
	case start != "" || end != "":
		response.ValidationError(c, map[string]string{"dates": "startDate and endDate must be given together"})
		return
	}

	out, err := h.service.Availability(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		response.ValidationError(c, map[string]string{"dates": "Dates must be YYYY-MM-DD or RFC 3339"})
	case errors.Is(err, ErrEndBeforeStart):
		response.ValidationError(c, map[string]string{"endDate": "End date must not be before start date"})
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, "LISTING_NOT_FOUND", "Listing not found")
	case errors.Is(err, ErrListingUnavailable):
		response.Error(c, http.StatusBadRequest, "LISTING_UNAVAILABLE", "This listing is not available for booking")
	case errors.Is(err, ErrSelfBooking):
		response.Error(c, http.StatusBadRequest, "SELF_BOOKING", "You cannot book your own listing")
	case errors.Is(err, ErrBookingConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "These dates are already booked")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "You are not allowed to access this booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", "Only pending bookings can be confirmed or cancelled")
	default:
		response.Internal(c, err)
	}
}
