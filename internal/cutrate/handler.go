package cutrate

import (
	"errors"
	"net/http"
	"strconv"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"
	"featuresgym/internal/plan"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *RateService
}

func NewHandler(service *RateService) *Handler {
	return &Handler{service: service}
}

// GetPlanRate godoc
// @Summary      Per-visit earnings for a plan
// @Description  Daily rate of the plan, the owner's cut percentage and the resulting amount credited per completed visit.
// @Tags         owner,plans
// @Security     BearerAuth
// @Produce      json
// @Param        planID  path      int  true  "Plan ID"
// @Success      200     {object}  plan.RateResponse
// @Failure      404     {object}  api.ErrorResponse
// @Failure      422     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /owner/plans/{planID}/rate [get]
func (h *Handler) GetPlanRate(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	planID, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	rate, err := h.service.PlanRate(c.Request.Context(), gymID, planID)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
		case errors.Is(err, ErrNoCutRuleFound), errors.Is(err, plan.ErrConfiguration):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to resolve plan rate"})
		}
		return
	}

	c.JSON(http.StatusOK, rate)
}

// @Summary      Add a tier/duration cut rule
// @Description  Admin-only. Omit gym_id for a platform-wide rule.
// @Tags         admin,cut-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      TierDurationRuleRequest  true  "Rule"
// @Success      201      {object}  TierDurationRule
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/cut-rules/tier [post]
func (h *Handler) CreateTierDurationRule(c *gin.Context) {
	var req TierDurationRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rule, err := h.service.AddTierDurationRule(c.Request.Context(), TierDurationRule{
		GymID:      req.GymID,
		Tier:       req.Tier,
		Duration:   req.Duration,
		Percentage: req.Percentage,
	})
	if err != nil {
		h.respondRuleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// @Summary      Add a price-range cut rule
// @Tags         admin,cut-rules
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      PriceRangeRuleRequest  true  "Rule"
// @Success      201      {object}  PriceRangeRule
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/cut-rules/price-range [post]
func (h *Handler) CreatePriceRangeRule(c *gin.Context) {
	var req PriceRangeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rule, err := h.service.AddPriceRangeRule(c.Request.Context(), PriceRangeRule{
		GymID:      req.GymID,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Percentage: req.Percentage,
	})
	if err != nil {
		h.respondRuleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) respondRuleError(c *gin.Context, err error) {
	if errors.Is(err, plan.ErrConfiguration) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to save cut rule"})
}
