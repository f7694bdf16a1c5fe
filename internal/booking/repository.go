package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAlreadyDecided  = errors.New("booking already decided")
	ErrNotCompletable  = errors.New("booking is not accepted or already completed")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, user_id, gym_id, plan_id, time_slot_id, status, decision_reason, daily_rate, decided_at, completed_at, created_at`

const detailsSelect = `
	SELECT
		b.id, b.user_id, b.gym_id, b.plan_id, b.time_slot_id, b.status,
		b.decision_reason, b.daily_rate, b.decided_at, b.completed_at, b.created_at,
		ts.start_time AS slot_start,
		ts.end_time AS slot_end,
		u.name AS user_name,
		u.email AS user_email
	FROM bookings b
	JOIN time_slots ts ON b.time_slot_id = ts.id
	JOIN users u ON b.user_id = u.id
`

func (r *repository) CreateBooking(ctx context.Context, userID, gymID, timeSlotID int, planID *int) (*Booking, error) {
	query := `
		INSERT INTO bookings (user_id, gym_id, time_slot_id, plan_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, userID, gymID, timeSlotID, planID)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetDetailsByID(ctx context.Context, id int) (*BookingWithDetails, error) {
	var b BookingWithDetails
	err := r.db.GetContext(ctx, &b, detailsSelect+` WHERE b.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) UserHasBookingForSlot(ctx context.Context, userID, timeSlotID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND time_slot_id = $2 AND status IN ('pending', 'accepted')
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, timeSlotID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// ListPendingByGym returns the gym's undecided bookings oldest first, the
// order admission decides them in.
func (r *repository) ListPendingByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	query := detailsSelect + `
	WHERE b.gym_id = $1 AND b.status = 'pending'
	ORDER BY b.created_at ASC, b.id ASC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, gymID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByGym(ctx context.Context, gymID int) ([]BookingWithDetails, error) {
	query := detailsSelect + `
	WHERE b.gym_id = $1
	ORDER BY ts.start_time DESC, b.created_at DESC
	`

	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, query, gymID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// Decide moves a pending booking to accepted or cancelled. A booking that is
// no longer pending is left untouched and ErrAlreadyDecided is returned.
func (r *repository) Decide(ctx context.Context, id int, status Status, reason string) error {
	if status != StatusAccepted && status != StatusCancelled {
		return fmt.Errorf("cannot decide booking %d as %q", id, status)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, decision_reason = NULLIF($2, ''), decided_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`, status, reason, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAlreadyDecided
	}

	return nil
}
