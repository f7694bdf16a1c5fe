package admission

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRuleSetNotFound = errors.New("admission rules not configured")
	ErrInvalidRuleSet  = errors.New("invalid admission rules")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const ruleSetColumns = `gym_id, auto_accept_enabled, accept_conditions, accept_occupancy_threshold,
	auto_cancel_enabled, cancel_conditions, cancel_occupancy_threshold, cancel_reason_template,
	off_peak_start, off_peak_end, peak_start, peak_end, updated_at`

func (r *repository) GetRuleSet(ctx context.Context, gymID int) (*RuleSet, error) {
	var rs RuleSet
	err := r.db.GetContext(ctx, &rs, `SELECT `+ruleSetColumns+` FROM admission_rules WHERE gym_id = $1`, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleSetNotFound
		}
		return nil, err
	}

	return &rs, nil
}

// SaveRuleSet replaces the gym's rule set wholesale.
func (r *repository) SaveRuleSet(ctx context.Context, rs RuleSet) (*RuleSet, error) {
	query := `
		INSERT INTO admission_rules (
			gym_id, auto_accept_enabled, accept_conditions, accept_occupancy_threshold,
			auto_cancel_enabled, cancel_conditions, cancel_occupancy_threshold, cancel_reason_template,
			off_peak_start, off_peak_end, peak_start, peak_end, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (gym_id) DO UPDATE SET
			auto_accept_enabled = EXCLUDED.auto_accept_enabled,
			accept_conditions = EXCLUDED.accept_conditions,
			accept_occupancy_threshold = EXCLUDED.accept_occupancy_threshold,
			auto_cancel_enabled = EXCLUDED.auto_cancel_enabled,
			cancel_conditions = EXCLUDED.cancel_conditions,
			cancel_occupancy_threshold = EXCLUDED.cancel_occupancy_threshold,
			cancel_reason_template = EXCLUDED.cancel_reason_template,
			off_peak_start = EXCLUDED.off_peak_start,
			off_peak_end = EXCLUDED.off_peak_end,
			peak_start = EXCLUDED.peak_start,
			peak_end = EXCLUDED.peak_end,
			updated_at = NOW()
		RETURNING ` + ruleSetColumns

	var saved RuleSet
	err := r.db.GetContext(ctx, &saved, query,
		rs.GymID, rs.AutoAcceptEnabled, rs.AcceptConditions, rs.AcceptThreshold,
		rs.AutoCancelEnabled, rs.CancelConditions, rs.CancelThreshold, rs.CancelReasonTemplate,
		rs.OffPeakStart, rs.OffPeakEnd, rs.PeakStart, rs.PeakEnd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleSetNotFound
		}
		return nil, err
	}

	return &saved, nil
}
