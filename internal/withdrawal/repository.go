package withdrawal

import (
	"context"
	"database/sql"
	"errors"

	"featuresgym/internal/gym"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrNotPending             = errors.New("withdrawal is not pending")
	ErrMethodNotFound         = errors.New("payout method not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	ErrConcurrentModification = errors.New("balance changed by a concurrent withdrawal")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `id, gym_id, method_id, amount, status, failure_reason, created_at, updated_at`

const balanceQuery = `
	SELECT
		(SELECT COALESCE(SUM(amount), 0) FROM earnings_ledger WHERE gym_id = $1) AS earned,
		COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS completed,
		COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS pending
	FROM withdrawals
	WHERE gym_id = $1
`

func balance(ctx context.Context, q sqlx.QueryerContext, gymID int) (Balance, error) {
	var b Balance
	if err := sqlx.GetContext(ctx, q, &b, balanceQuery, gymID); err != nil {
		return Balance{}, err
	}
	return b.withAvailable(), nil
}

func (r *repository) Balance(ctx context.Context, gymID int) (Balance, error) {
	return balance(ctx, r.db, gymID)
}

// CreatePending books a pending withdrawal while holding the gym row lock.
// The balance is recomputed under the lock; if it no longer matches the one
// the caller checked against, nothing is written and
// ErrConcurrentModification is returned.
func (r *repository) CreatePending(ctx context.Context, gymID, methodID int, amount, observedAvailable decimal.Decimal) (*Request, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var locked int
	err = tx.GetContext(ctx, &locked, `SELECT id FROM gyms WHERE id = $1 FOR UPDATE`, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gym.ErrGymNotFound
		}
		return nil, err
	}

	current, err := balance(ctx, tx, gymID)
	if err != nil {
		return nil, err
	}
	if !current.Available.Equal(observedAvailable) {
		return nil, ErrConcurrentModification
	}
	if amount.GreaterThan(current.Available) {
		return nil, ErrInsufficientBalance
	}

	req := &Request{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO withdrawals (gym_id, method_id, amount, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING `+requestColumns,
		gymID, methodID, amount,
	).StructScan(req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Request, error) {
	req := &Request{}
	err := r.db.GetContext(ctx, req, `SELECT `+requestColumns+` FROM withdrawals WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}

	return req, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Request, error) {
	var reqs []Request
	err := r.db.SelectContext(ctx, &reqs, `
		SELECT `+requestColumns+`
		FROM withdrawals
		WHERE gym_id = $1
		ORDER BY created_at DESC, id DESC
	`, gymID)
	if err != nil {
		return nil, err
	}

	return reqs, nil
}

// Transition settles a pending withdrawal. Completed and failed are final.
func (r *repository) Transition(ctx context.Context, id int, to Status, reason string) (*Request, error) {
	req := &Request{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE withdrawals
		SET status = $1, failure_reason = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING `+requestColumns,
		to, reason, id,
	).StructScan(req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, err
	}

	return req, nil
}

func (r *repository) CreateMethod(ctx context.Context, gymID int, kind, details string) (*Method, error) {
	m := &Method{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payout_methods (gym_id, kind, details)
		VALUES ($1, $2, $3)
		RETURNING id, gym_id, kind, details, created_at
	`, gymID, kind, details).StructScan(m)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *repository) GetMethod(ctx context.Context, gymID, methodID int) (*Method, error) {
	m := &Method{}
	err := r.db.GetContext(ctx, m, `
		SELECT id, gym_id, kind, details, created_at
		FROM payout_methods
		WHERE id = $1 AND gym_id = $2
	`, methodID, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMethodNotFound
		}
		return nil, err
	}

	return m, nil
}

func (r *repository) ListMethods(ctx context.Context, gymID int) ([]Method, error) {
	var methods []Method
	err := r.db.SelectContext(ctx, &methods, `
		SELECT id, gym_id, kind, details, created_at
		FROM payout_methods
		WHERE gym_id = $1
		ORDER BY id ASC
	`, gymID)
	if err != nil {
		return nil, err
	}

	return methods, nil
}
