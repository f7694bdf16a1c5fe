package gym

import (
	"time"

	"github.com/shopspring/decimal"
)

type Gym struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Location   string    `db:"location" json:"location"`
	OwnerName  string    `db:"owner_name" json:"owner_name"`
	OwnerEmail string    `db:"owner_email" json:"owner_email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type TimeSlot struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Maintenance bool      `db:"maintenance" json:"maintenance"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Occupancy is the booked-versus-capacity state of one slot at the moment
// it was read. Only accepted and completed bookings occupy a place.
type Occupancy struct {
	TimeSlotID  int  `db:"time_slot_id" json:"time_slot_id"`
	Booked      int  `db:"booked" json:"booked"`
	Capacity    int  `db:"capacity" json:"capacity"`
	Maintenance bool `db:"maintenance" json:"maintenance"`
}

var hundred = decimal.NewFromInt(100)

// Percent returns Booked as a percentage of Capacity. A slot with no
// capacity is reported as full.
func (o Occupancy) Percent() decimal.Decimal {
	if o.Capacity <= 0 {
		return hundred
	}
	return decimal.NewFromInt(int64(o.Booked)).Mul(hundred).Div(decimal.NewFromInt(int64(o.Capacity)))
}

type TimeSlotWithOccupancy struct {
	TimeSlot
	Booked    int             `db:"booked" json:"booked"`
	Available int             `json:"available"`
	Percent   decimal.Decimal `json:"occupancy_percent"`
}

type SetMaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

type CreateGymRequest struct {
	Name       string `json:"name" binding:"required"`
	Location   string `json:"location" binding:"required"`
	OwnerName  string `json:"owner_name" binding:"required"`
	OwnerEmail string `json:"owner_email" binding:"required,email"`
}

type CreateTimeSlotRequest struct {
	StartTime string `json:"start_time" binding:"required" example:"2026-03-10T18:00:00Z"`
	EndTime   string `json:"end_time" binding:"required" example:"2026-03-10T19:00:00Z"`
	Capacity  int    `json:"capacity" binding:"required,gt=0"`
}
