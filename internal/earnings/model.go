package earnings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the aggregated owner earning of one gym on one day.
type Entry struct {
	GymID  int             `db:"gym_id" json:"gym_id"`
	Date   time.Time       `db:"entry_date" json:"date"`
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

// Credit describes what one completed session added to the ledger.
type Credit struct {
	BookingID     int             `json:"booking_id"`
	GymID         int             `json:"gym_id"`
	PlanID        int             `json:"plan_id"`
	Date          time.Time       `json:"date"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	CutPercentage decimal.Decimal `json:"cut_percentage"`
	Amount        decimal.Decimal `json:"amount"`
}

// Summary puts session earnings next to membership sales. MembershipSales
// is platform-held and informational; it is never part of Withdrawable.
type Summary struct {
	GymID           int             `json:"gym_id"`
	SessionEarnings decimal.Decimal `json:"session_earnings"`
	Withdrawable    decimal.Decimal `json:"withdrawable"`
	MembershipSales decimal.Decimal `json:"membership_sales"`
}
