package gym

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create a gym
// @Description  Admin-only: register a gym and its owner contact
// @Tags         admin,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gym.CreateGymRequest true "Gym payload"
// @Success      201 {object} gym.Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gym, err := h.service.CreateGym(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gym"})
		return
	}

	c.JSON(http.StatusCreated, gym)
}

// @Summary      Create a time slot
// @Description  Admin-only: create a time slot for a gym
// @Tags         admin,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body gym.CreateTimeSlotRequest true "Time slot payload"
// @Success      201 {object} gym.TimeSlot
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/slots [post]
func (h *Handler) CreateTimeSlot(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	slot, err := h.service.CreateTimeSlot(c.Request.Context(), gymID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		case errors.Is(err, ErrTimeSlotInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid time slot data"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create time slot"})
		}
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// @Summary      List the owner's time slots with occupancy
// @Tags         owner,gyms
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "RFC3339 start, defaults to now"
// @Param        to   query string false "RFC3339 end, defaults to a week after from"
// @Success      200 {array} gym.TimeSlotWithOccupancy
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /owner/slots [get]
func (h *Handler) ListTimeSlots(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	from := time.Now()
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from time"})
			return
		}
		from = t
	}

	to := from.AddDate(0, 0, 7)
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to time"})
			return
		}
		to = t
	}

	slots, err := h.service.GetTimeSlots(c.Request.Context(), gymID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRange):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "to must be after from"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch time slots"})
		}
		return
	}

	c.JSON(http.StatusOK, slots)
}

// @Summary      Flag a slot for maintenance
// @Description  Bookings for a slot under maintenance can be auto-cancelled by admission rules.
// @Tags         owner,gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slotID  path int true "Time slot ID"
// @Param        request body gym.SetMaintenanceRequest true "Maintenance flag"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /owner/slots/{slotID}/maintenance [put]
func (h *Handler) SetMaintenance(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid slot ID"})
		return
	}

	var req SetMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.SetMaintenance(c.Request.Context(), gymID, slotID, *req.Maintenance); err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Time slot not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update time slot"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Maintenance updated"})
}
