package membership

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"featuresgym/internal/plan"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var membershipColumns = []string{"id", "user_id", "gym_id", "plan_id", "status", "price_paid", "valid_from", "valid_until", "created_at"}

func setupMembershipMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateMembership_RecordsSale(t *testing.T) {
	repo, mock, close := setupMembershipMock(t)
	defer close()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 30)
	p := plan.MembershipPlan{ID: 4, GymID: 2, Tier: plan.Tier2, Duration: plan.DurationMonthly, Price: decimal.NewFromInt(3000)}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO memberships (user_id, gym_id, plan_id, status, price_paid, valid_from, valid_until)")).
		WithArgs(8, 2, 4, sqlmock.AnyArg(), from, until).
		WillReturnRows(sqlmock.NewRows(membershipColumns).AddRow(15, 8, 2, 4, "active", "3000.00", from, until, from))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales (gym_id, source, membership_id, amount) VALUES ($1, 'membership', $2, $3)")).
		WithArgs(2, 15, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	m, err := repo.CreateMembership(context.Background(), 8, p, from)
	require.NoError(t, err)
	require.Equal(t, 15, m.ID)
	require.Equal(t, until, m.ValidUntil)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMembership_RollsBackOnSaleFailure(t *testing.T) {
	repo, mock, close := setupMembershipMock(t)
	defer close()

	from := time.Now()
	p := plan.MembershipPlan{ID: 4, GymID: 2, Duration: plan.DurationWeekly, Price: decimal.NewFromInt(700)}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO memberships")).
		WillReturnRows(sqlmock.NewRows(membershipColumns).AddRow(15, 8, 2, 4, "active", "700.00", from, from, from))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sales")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := repo.CreateMembership(context.Background(), 8, p, from)
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveForUserAndGym_NotFound(t *testing.T) {
	repo, mock, close := setupMembershipMock(t)
	defer close()

	at := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM memberships WHERE user_id = $1 AND gym_id = $2 AND status = 'active'")).
		WithArgs(1, 10, at).
		WillReturnError(sql.ErrNoRows)

	m, err := repo.GetActiveForUserAndGym(context.Background(), 1, 10, at)
	require.Nil(t, m)
	require.Equal(t, ErrNoActiveMembership, err)
}

func TestHasActiveMembership(t *testing.T) {
	repo, mock, close := setupMembershipMock(t)
	defer close()

	at := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS( SELECT 1 FROM memberships")).
		WithArgs(1, 10, at).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasActiveMembership(context.Background(), 1, 10, at)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSalesRevenue_ExcludesTournaments(t *testing.T) {
	repo, mock, close := setupMembershipMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM sales WHERE gym_id = $1 AND source = 'membership'")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("12500.00"))

	total, err := repo.SalesRevenue(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(12500)))
}
