package admission

import (
	"time"

	"github.com/lib/pq"
)

type Condition string

const (
	MembersOnly  Condition = "members_only"
	OffPeak      Condition = "off_peak"
	LowOccupancy Condition = "low_occupancy"

	HighOccupancy Condition = "high_occupancy"
	Maintenance   Condition = "maintenance"
	NonMemberPeak Condition = "non_member_peak"
)

// Fixed evaluation order within each set, so the reported condition is
// always the same for the same inputs.
var (
	cancelOrder = []Condition{HighOccupancy, Maintenance, NonMemberPeak}
	acceptOrder = []Condition{MembersOnly, OffPeak, LowOccupancy}
)

type Outcome string

const (
	Accepted   Outcome = "accepted"
	Cancelled  Outcome = "cancelled"
	Unresolved Outcome = "unresolved"
)

// RuleSet is one gym's admission configuration. Windows are HH:MM clock
// times; a window whose start is after its end wraps past midnight.
type RuleSet struct {
	GymID                int            `db:"gym_id" json:"gym_id"`
	AutoAcceptEnabled    bool           `db:"auto_accept_enabled" json:"auto_accept_enabled"`
	AcceptConditions     pq.StringArray `db:"accept_conditions" json:"accept_conditions"`
	AcceptThreshold      int            `db:"accept_occupancy_threshold" json:"accept_occupancy_threshold"`
	AutoCancelEnabled    bool           `db:"auto_cancel_enabled" json:"auto_cancel_enabled"`
	CancelConditions     pq.StringArray `db:"cancel_conditions" json:"cancel_conditions"`
	CancelThreshold      int            `db:"cancel_occupancy_threshold" json:"cancel_occupancy_threshold"`
	CancelReasonTemplate string         `db:"cancel_reason_template" json:"cancel_reason_template"`
	OffPeakStart         string         `db:"off_peak_start" json:"off_peak_start"`
	OffPeakEnd           string         `db:"off_peak_end" json:"off_peak_end"`
	PeakStart            string         `db:"peak_start" json:"peak_start"`
	PeakEnd              string         `db:"peak_end" json:"peak_end"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

func (rs *RuleSet) has(set pq.StringArray, c Condition) bool {
	for _, s := range set {
		if Condition(s) == c {
			return true
		}
	}
	return false
}

// PendingBooking is what the engine needs to know about one request.
// IsMember is resolved at decision time, not at request time.
type PendingBooking struct {
	BookingID  int       `json:"booking_id"`
	UserID     int       `json:"user_id"`
	GymID      int       `json:"gym_id"`
	TimeSlotID int       `json:"time_slot_id"`
	SlotStart  time.Time `json:"slot_start"`
	IsMember   bool      `json:"is_member"`
}

type Decision struct {
	BookingID int       `json:"booking_id"`
	Outcome   Outcome   `json:"outcome"`
	Condition Condition `json:"condition,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

type RuleSetRequest struct {
	AutoAcceptEnabled    bool     `json:"auto_accept_enabled"`
	AcceptConditions     []string `json:"accept_conditions" validate:"dive,oneof=members_only off_peak low_occupancy"`
	AcceptThreshold      int      `json:"accept_occupancy_threshold" validate:"gte=0,lte=100"`
	AutoCancelEnabled    bool     `json:"auto_cancel_enabled"`
	CancelConditions     []string `json:"cancel_conditions" validate:"dive,oneof=high_occupancy maintenance non_member_peak"`
	CancelThreshold      int      `json:"cancel_occupancy_threshold" validate:"gte=0,lte=100"`
	CancelReasonTemplate string   `json:"cancel_reason_template" validate:"max=500"`
	OffPeakStart         string   `json:"off_peak_start" validate:"omitempty,clock"`
	OffPeakEnd           string   `json:"off_peak_end" validate:"omitempty,clock"`
	PeakStart            string   `json:"peak_start" validate:"omitempty,clock"`
	PeakEnd              string   `json:"peak_end" validate:"omitempty,clock"`
}

func (r RuleSetRequest) RuleSet(gymID int) RuleSet {
	return RuleSet{
		GymID:                gymID,
		AutoAcceptEnabled:    r.AutoAcceptEnabled,
		AcceptConditions:     r.AcceptConditions,
		AcceptThreshold:      r.AcceptThreshold,
		AutoCancelEnabled:    r.AutoCancelEnabled,
		CancelConditions:     r.CancelConditions,
		CancelThreshold:      r.CancelThreshold,
		CancelReasonTemplate: r.CancelReasonTemplate,
		OffPeakStart:         r.OffPeakStart,
		OffPeakEnd:           r.OffPeakEnd,
		PeakStart:            r.PeakStart,
		PeakEnd:              r.PeakEnd,
	}
}
