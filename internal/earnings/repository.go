package earnings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"featuresgym/internal/booking"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CompleteAndCredit marks an accepted booking completed and adds amount to
// the gym's ledger row for the completion date, in one transaction. A
// booking that is not accepted, has no plan, or whose slot starts after
// completedAt is left untouched.
func (r *repository) CompleteAndCredit(ctx context.Context, bookingID int, dailyRate, amount decimal.Decimal, completedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var gymID int
	err = tx.QueryRowxContext(ctx, `
		UPDATE bookings
		SET status = 'completed', daily_rate = $1, completed_at = $2
		WHERE id = $3 AND status = 'accepted' AND plan_id IS NOT NULL
			AND EXISTS (
				SELECT 1 FROM time_slots ts
				WHERE ts.id = bookings.time_slot_id AND ts.start_time <= $2
			)
		RETURNING gym_id
	`, dailyRate, completedAt, bookingID).Scan(&gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrNotCompletable
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO earnings_ledger (gym_id, entry_date, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (gym_id, entry_date)
		DO UPDATE SET amount = earnings_ledger.amount + EXCLUDED.amount
	`, gymID, ledgerDate(completedAt), amount)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Total(ctx context.Context, gymID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM earnings_ledger
		WHERE gym_id = $1
	`, gymID)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

// Daily returns ledger rows with from <= date < to, oldest first.
func (r *repository) Daily(ctx context.Context, gymID int, from, to time.Time) ([]Entry, error) {
	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT gym_id, entry_date, amount
		FROM earnings_ledger
		WHERE gym_id = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date ASC
	`, gymID, ledgerDate(from), ledgerDate(to))
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func ledgerDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
