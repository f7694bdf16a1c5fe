package gym

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrGymNotFound  = errors.New("gym not found")
	ErrSlotNotFound = errors.New("time slot not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, location, ownerName, ownerEmail string) (*Gym, error) {
	query := `
		INSERT INTO gyms (name, location, owner_name, owner_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, location, owner_name, owner_email, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, name, location, ownerName, ownerEmail)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, location, owner_name, owner_email, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	return &gym, nil
}

func (r *repository) ListGymIDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM gyms ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) CreateTimeSlot(ctx context.Context, gymID int, startTime, endTime time.Time, capacity int) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (gym_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, start_time, end_time, capacity, maintenance, created_at
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, gymID, startTime, endTime, capacity)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error) {
	query := `
		SELECT id, gym_id, start_time, end_time, capacity, maintenance, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlotsWithOccupancy(ctx context.Context, gymID int, from, to time.Time) ([]TimeSlotWithOccupancy, error) {
	query := `
		SELECT
			ts.id, ts.gym_id, ts.start_time, ts.end_time, ts.capacity, ts.maintenance, ts.created_at,
			COUNT(b.id) FILTER (WHERE b.status IN ('accepted', 'completed')) AS booked
		FROM time_slots ts
		LEFT JOIN bookings b ON b.time_slot_id = ts.id
		WHERE ts.gym_id = $1 AND ts.start_time >= $2 AND ts.start_time < $3
		GROUP BY ts.id
		ORDER BY ts.start_time ASC
	`

	var slots []TimeSlotWithOccupancy
	err := r.db.SelectContext(ctx, &slots, query, gymID, from, to)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		occ := Occupancy{Booked: slots[i].Booked, Capacity: slots[i].Capacity}
		slots[i].Available = slots[i].Capacity - slots[i].Booked
		slots[i].Percent = occ.Percent()
	}

	return slots, nil
}

func (r *repository) SetMaintenance(ctx context.Context, gymID, slotID int, maintenance bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE time_slots
		SET maintenance = $1
		WHERE id = $2 AND gym_id = $3
	`, maintenance, slotID, gymID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *repository) OccupancyForSlot(ctx context.Context, slotID int) (Occupancy, error) {
	query := `
		SELECT
			ts.id AS time_slot_id,
			ts.capacity,
			ts.maintenance,
			COUNT(b.id) FILTER (WHERE b.status IN ('accepted', 'completed')) AS booked
		FROM time_slots ts
		LEFT JOIN bookings b ON b.time_slot_id = ts.id
		WHERE ts.id = $1
		GROUP BY ts.id
	`

	var occ Occupancy
	err := r.db.GetContext(ctx, &occ, query, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Occupancy{}, ErrSlotNotFound
		}
		return Occupancy{}, err
	}

	return occ, nil
}
