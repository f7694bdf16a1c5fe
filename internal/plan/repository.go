package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("membership plan not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePlan(ctx context.Context, p MembershipPlan) (*MembershipPlan, error) {
	if !p.Tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrConfiguration, string(p.Tier))
	}
	if _, err := AmortizeDailyRate(p.Price, p.Duration); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO membership_plans (gym_id, name, tier, duration, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, name, tier, duration, price, created_at
	`

	var created MembershipPlan
	err := r.db.GetContext(ctx, &created, query, p.GymID, p.Name, p.Tier, p.Duration, p.Price)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetPlanByID(ctx context.Context, id int) (*MembershipPlan, error) {
	query := `
		SELECT id, gym_id, name, tier, duration, price, created_at
		FROM membership_plans
		WHERE id = $1
	`

	var p MembershipPlan
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetPlansByGym(ctx context.Context, gymID int) ([]MembershipPlan, error) {
	query := `
		SELECT id, gym_id, name, tier, duration, price, created_at
		FROM membership_plans
		WHERE gym_id = $1
		ORDER BY price ASC, id ASC
	`

	var plans []MembershipPlan
	err := r.db.SelectContext(ctx, &plans, query, gymID)
	if err != nil {
		return nil, err
	}

	return plans, nil
}
