package booking

import (
	"errors"
	"net/http"
	"strconv"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"
	"featuresgym/internal/gym"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RequestSlot godoc
// @Summary      Request a time slot
// @Description  Creates a pending booking. Admission rules or the owner decide it later.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        slotID  path      int  true  "Time slot ID"
// @Success      201     {object}  Booking
// @Failure      400     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Failure      409     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /slots/{slotID}/book [post]
func (h *Handler) RequestSlot(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	b, err := h.service.RequestBooking(c.Request.Context(), userID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
		case errors.Is(err, ErrSlotInPast):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Cannot book a slot in the past"})
		case errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "You already have a booking for this slot"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListGymBookings godoc
// @Summary      List bookings of the owner's gym
// @Tags         owner,bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/bookings [get]
func (h *Handler) ListGymBookings(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	bookings, err := h.service.GetBookingsByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// AcceptBooking godoc
// @Summary      Accept a pending booking
// @Tags         owner,bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  BookingWithDetails
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /owner/bookings/{bookingID}/accept [post]
func (h *Handler) AcceptBooking(c *gin.Context) {
	h.decide(c, StatusAccepted)
}

// CancelBooking godoc
// @Summary      Cancel a pending booking
// @Tags         owner,bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int              true   "Booking ID"
// @Param        request    body      DecisionRequest  false  "Reason shown to the member"
// @Success      200        {object}  BookingWithDetails
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /owner/bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	h.decide(c, StatusCancelled)
}

func (h *Handler) decide(c *gin.Context, status Status) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	b, err := h.service.DecideManually(c.Request.Context(), gymID, bookingID, status, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrAlreadyDecided):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking already decided"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}
