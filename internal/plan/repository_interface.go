package plan

import "context"

type Repository interface {
	CreatePlan(ctx context.Context, p MembershipPlan) (*MembershipPlan, error)
	GetPlanByID(ctx context.Context, id int) (*MembershipPlan, error)
	GetPlansByGym(ctx context.Context, gymID int) ([]MembershipPlan, error)
}
