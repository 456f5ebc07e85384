package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/internal/models"
	"home-services-server/internal/services"
)

type BookingHandler struct {
	bookings services.BookingService
}

func NewBookingHandler(bookings services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// MyBookings lists the caller's bookings joined with their services. The
// email query parameter must match the verified identity.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" || email != identityEmail(c) {
		respondWithError(c, http.StatusForbidden, "forbidden access")
		return
	}

	result, err := h.bookings.ListByCustomer(c.Request.Context(), email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if err := h.bookings.Create(c.Request.Context(), &booking); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	err := h.bookings.Cancel(c.Request.Context(), c.Param("id"), identityEmail(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// AddReview records the caller's review on a service and returns the
// service with its refreshed rating.
func (h *BookingHandler) AddReview(c *gin.Context) {
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := h.bookings.AddReview(c.Request.Context(), c.Param("id"), identityEmail(c), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
