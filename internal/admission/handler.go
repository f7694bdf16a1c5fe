package admission

import (
	"errors"
	"net/http"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"
	"featuresgym/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetRules godoc
// @Summary      Admission rules
// @Description  Returns a disabled rule set when the gym has not configured one.
// @Tags         owner,admission
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  RuleSet
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/admission/rules [get]
func (h *Handler) GetRules(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	rs, err := h.service.GetRuleSet(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load admission rules"})
		return
	}

	c.JSON(http.StatusOK, rs)
}

// SaveRules godoc
// @Summary      Replace admission rules
// @Tags         owner,admission
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RuleSetRequest  true  "Rule set"
// @Success      200      {object}  RuleSet
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /owner/admission/rules [put]
func (h *Handler) SaveRules(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	var req RuleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	rs, err := h.service.SaveRuleSet(c.Request.Context(), gymID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidRuleSet) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to save admission rules"})
		return
	}

	c.JSON(http.StatusOK, rs)
}

// Evaluate godoc
// @Summary      Run admission now
// @Description  Decides the gym's pending bookings immediately instead of waiting for the next scheduled pass.
// @Tags         owner,admission
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Report
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/admission/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	report, err := h.service.EvaluateAllPending(c.Request.Context(), gymID)
	if err != nil {
		logger.Error("Admission pass failed", "gym_id", gymID, "error", err)
		if report == nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to evaluate bookings"})
			return
		}
	}

	c.JSON(http.StatusOK, report)
}
