package membership

import (
	"context"
	"errors"
	"net/http"
	"time"

	"featuresgym/internal/api"
	"featuresgym/internal/logger"
	"featuresgym/internal/metrics"
	"featuresgym/internal/plan"

	"github.com/gin-gonic/gin"
)

type PlanLookup interface {
	GetPlanByID(ctx context.Context, id int) (*plan.MembershipPlan, error)
}

type Handler struct {
	repo  Repository
	plans PlanLookup
	now   func() time.Time
}

func NewHandler(repo Repository, plans PlanLookup) *Handler {
	return &Handler{repo: repo, plans: plans, now: time.Now}
}

// Sell godoc
// @Summary      Sell a membership
// @Description  Admin-only. Records the membership and its up-front sale; the sale is platform revenue, not owner balance.
// @Tags         admin,memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SellRequest  true  "Buyer and plan"
// @Success      201      {object}  Membership
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/memberships [post]
func (h *Handler) Sell(c *gin.Context) {
	var req SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	validFrom := h.now().UTC().Truncate(24 * time.Hour)
	if req.ValidFrom != "" {
		t, err := time.Parse(time.DateOnly, req.ValidFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "valid_from must be YYYY-MM-DD"})
			return
		}
		validFrom = t
	}

	ctx := c.Request.Context()
	p, err := h.plans.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load plan"})
		return
	}

	m, err := h.repo.CreateMembership(ctx, req.UserID, *p, validFrom)
	if err != nil {
		if errors.Is(err, plan.ErrConfiguration) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Membership sale failed", "user_id", req.UserID, "plan_id", req.PlanID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to sell membership"})
		return
	}

	metrics.RecordMembershipSale(string(p.Duration))
	logger.Info("Membership sold", "membership_id", m.ID, "gym_id", m.GymID, "plan_id", p.ID)

	c.JSON(http.StatusCreated, m)
}
