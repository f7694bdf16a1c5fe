package integration_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"featuresgym/internal/db"
	"featuresgym/internal/notify"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var migrateOnce sync.Once

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	// TEST_DSN points at a disposable database, for example inside Docker.
	dsn := os.Getenv("TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping integration tests: TEST_DSN not set")
	}

	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	migrateOnce.Do(func() {
		err = db.RunMigrations(database, filepath.Join("..", "migrations"))
	})
	require.NoError(t, err, "Failed to run migrations")

	cleanDatabase(t, database)
	return database
}

func cleanDatabase(t *testing.T, database *sqlx.DB) {
	tables := []string{
		"withdrawals",
		"payout_methods",
		"earnings_ledger",
		"admission_rules",
		"bookings",
		"sales",
		"memberships",
		"time_slots",
		"cut_price_rules",
		"cut_tier_rules",
		"membership_plans",
		"users",
		"gyms",
	}

	for _, table := range tables {
		_, err := database.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clean table "+table)
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Dispatch(ctx context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func createGym(t *testing.T, database *sqlx.DB, name string) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO gyms (name, location, owner_name, owner_email)
		VALUES ($1, 'Test Location', 'Owner', 'owner@test.com')
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createUser(t *testing.T, database *sqlx.DB, email string) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO users (name, email) VALUES ('Member', $1) RETURNING id
	`, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func createPlan(t *testing.T, database *sqlx.DB, gymID int, tier, duration, price string) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO membership_plans (gym_id, name, tier, duration, price)
		VALUES ($1, 'Plan', $2, $3, $4)
		RETURNING id
	`, gymID, tier, duration, price).Scan(&id)
	require.NoError(t, err)
	return id
}

func createPlatformTierRule(t *testing.T, database *sqlx.DB, tier, duration, pct string) {
	_, err := database.Exec(`
		INSERT INTO cut_tier_rules (gym_id, tier, duration, percentage) VALUES (NULL, $1, $2, $3)
	`, tier, duration, pct)
	require.NoError(t, err)
}

func createMembership(t *testing.T, database *sqlx.DB, userID, gymID, planID int) {
	now := time.Now()
	_, err := database.Exec(`
		INSERT INTO memberships (user_id, gym_id, plan_id, price_paid, valid_from, valid_until)
		VALUES ($1, $2, $3, 0, $4, $5)
	`, userID, gymID, planID, now.Add(-24*time.Hour), now.Add(30*24*time.Hour))
	require.NoError(t, err)
}

func createSlot(t *testing.T, database *sqlx.DB, gymID, capacity int, start time.Time) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO time_slots (gym_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, gymID, start, start.Add(time.Hour), capacity).Scan(&id)
	require.NoError(t, err)
	return id
}

func createBooking(t *testing.T, database *sqlx.DB, userID, gymID, slotID int, planID *int, status string) int {
	var id int
	err := database.QueryRow(`
		INSERT INTO bookings (user_id, gym_id, plan_id, time_slot_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, gymID, planID, slotID, status).Scan(&id)
	require.NoError(t, err)
	return id
}
