package gym

import (
	"context"
	"time"
)

type Repository interface {
	CreateGym(ctx context.Context, name, location, ownerName, ownerEmail string) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	ListGymIDs(ctx context.Context) ([]int, error)
	CreateTimeSlot(ctx context.Context, gymID int, startTime, endTime time.Time, capacity int) (*TimeSlot, error)
	GetTimeSlotByID(ctx context.Context, id int) (*TimeSlot, error)
	GetTimeSlotsWithOccupancy(ctx context.Context, gymID int, from, to time.Time) ([]TimeSlotWithOccupancy, error)
	SetMaintenance(ctx context.Context, gymID, slotID int, maintenance bool) error
	OccupancyForSlot(ctx context.Context, slotID int) (Occupancy, error)
}
