package plan

import (
	"errors"
	"net/http"

	"featuresgym/internal/api"
	"featuresgym/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreatePlan godoc
// @Summary      Create a membership plan
// @Tags         owner,plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan"
// @Success      201      {object}  MembershipPlan
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /owner/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "price must be positive"})
		return
	}

	p, err := h.repo.CreatePlan(c.Request.Context(), MembershipPlan{
		GymID:    gymID,
		Name:     req.Name,
		Tier:     req.Tier,
		Duration: req.Duration,
		Price:    req.Price,
	})
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListPlans godoc
// @Summary      List the gym's membership plans
// @Tags         owner,plans
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   MembershipPlan
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Gym not found in token"})
		return
	}

	plans, err := h.repo.GetPlansByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load plans"})
		return
	}
	if plans == nil {
		plans = []MembershipPlan{}
	}

	c.JSON(http.StatusOK, plans)
}
