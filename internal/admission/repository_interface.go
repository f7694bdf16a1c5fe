package admission

import "context"

type Repository interface {
	GetRuleSet(ctx context.Context, gymID int) (*RuleSet, error)
	SaveRuleSet(ctx context.Context, rs RuleSet) (*RuleSet, error)
}
