package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"featuresgym/internal/plan"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrNoActiveMembership = errors.New("no active membership")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateMembership sells p to the user and records the sale in the same
// transaction. The validity window uses the plan's fixed day count.
func (r *repository) CreateMembership(ctx context.Context, userID int, p plan.MembershipPlan, validFrom time.Time) (*Membership, error) {
	days, err := p.Duration.Days()
	if err != nil {
		return nil, err
	}
	validUntil := validFrom.AddDate(0, 0, int(days))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := &Membership{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (user_id, gym_id, plan_id, status, price_paid, valid_from, valid_until)
		VALUES ($1, $2, $3, 'active', $4, $5, $6)
		RETURNING id, user_id, gym_id, plan_id, status, price_paid, valid_from, valid_until, created_at
	`, userID, p.GymID, p.ID, p.Price, validFrom, validUntil).StructScan(m)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (gym_id, source, membership_id, amount)
		VALUES ($1, 'membership', $2, $3)
	`, p.GymID, m.ID, p.Price)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *repository) GetActiveForUserAndGym(ctx context.Context, userID, gymID int, at time.Time) (*Membership, error) {
	m := &Membership{}
	err := r.db.GetContext(ctx, m, `
		SELECT id, user_id, gym_id, plan_id, status, price_paid, valid_from, valid_until, created_at
		FROM memberships
		WHERE user_id = $1
		  AND gym_id = $2
		  AND status = 'active'
		  AND valid_from <= $3
		  AND valid_until > $3
		ORDER BY valid_until DESC
		LIMIT 1
	`, userID, gymID, at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveMembership
		}
		return nil, err
	}

	return m, nil
}

func (r *repository) HasActiveMembership(ctx context.Context, userID, gymID int, at time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM memberships
			WHERE user_id = $1 AND gym_id = $2 AND status = 'active'
			  AND valid_from <= $3 AND valid_until > $3
		)
	`, userID, gymID, at)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// SalesRevenue totals membership sales for analytics. Tournament sales are
// excluded.
func (r *repository) SalesRevenue(ctx context.Context, gymID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM sales
		WHERE gym_id = $1 AND source = 'membership'
	`, gymID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
