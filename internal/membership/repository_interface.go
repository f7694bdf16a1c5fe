package membership

import (
	"context"
	"time"

	"featuresgym/internal/plan"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateMembership(ctx context.Context, userID int, p plan.MembershipPlan, validFrom time.Time) (*Membership, error)
	GetActiveForUserAndGym(ctx context.Context, userID, gymID int, at time.Time) (*Membership, error)
	HasActiveMembership(ctx context.Context, userID, gymID int, at time.Time) (bool, error)
	SalesRevenue(ctx context.Context, gymID int) (decimal.Decimal, error)
}
