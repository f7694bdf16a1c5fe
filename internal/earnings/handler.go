package earnings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"
	"featuresgym/internal/booking"
	"featuresgym/internal/cutrate"
	"featuresgym/internal/plan"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CompleteSession godoc
// @Summary      Mark a session completed
// @Description  Completes an accepted booking and credits the owner's cut of one amortized day.
// @Tags         owner,earnings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Credit
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Failure      422        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /owner/sessions/{bookingID}/complete [post]
func (h *Handler) CompleteSession(c *gin.Context) {
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

	credit, err := h.service.RecordCompletion(c.Request.Context(), gymID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, booking.ErrNotCompletable):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Only accepted membership bookings can be completed, once"})
		case errors.Is(err, cutrate.ErrNoCutRuleFound):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "No cut rule applies to this plan"})
		case errors.Is(err, plan.ErrConfiguration), errors.Is(err, plan.ErrPlanNotFound):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to complete session"})
		}
		return
	}

	c.JSON(http.StatusOK, credit)
}

// GetSummary godoc
// @Summary      Earnings summary
// @Description  Session earnings (withdrawable) next to membership sales (informational).
// @Tags         owner,earnings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Summary
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/earnings [get]
func (h *Handler) GetSummary(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load earnings"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetDaily godoc
// @Summary      Daily earnings
// @Tags         owner,earnings
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "First day, YYYY-MM-DD (default 30 days ago)"
// @Param        to    query     string  false  "Day after the last, YYYY-MM-DD (default tomorrow)"
// @Success      200   {array}   Entry
// @Failure      400   {object}  api.ErrorResponse
// @Failure      500   {object}  api.ErrorResponse
// @Router       /owner/earnings/daily [get]
func (h *Handler) GetDaily(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	today := ledgerDate(h.service.now())
	from, err := parseDay(c.Query("from"), today.AddDate(0, 0, -30))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from date"})
		return
	}
	to, err := parseDay(c.Query("to"), today.AddDate(0, 0, 1))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to date"})
		return
	}

	entries, err := h.service.DailyBreakdown(c.Request.Context(), gymID, from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load earnings"})
		return
	}

	if entries == nil {
		entries = []Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func parseDay(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(time.DateOnly, s)
}
