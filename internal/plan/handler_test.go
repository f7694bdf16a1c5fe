package plan

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newPlanRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(repo)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("gym_id", 3); c.Next() })
	r.POST("/owner/plans", h.CreatePlan)
	r.GET("/owner/plans", h.ListPlans)
	return r
}

func postPlan(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/owner/plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreatePlan(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()
	r := newPlanRouter(repo)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO membership_plans")).
		WillReturnRows(sqlmock.NewRows(planColumns).AddRow(7, 3, "Gold", "Tier 2", "Monthly", "3000.00", time.Now()))

	w := postPlan(r, `{"name":"Gold","tier":"Tier 2","duration":"Monthly","price":"3000"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_CreatePlan_Rejected(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()
	r := newPlanRouter(repo)

	require.Equal(t, http.StatusBadRequest, postPlan(r, `{"name":"Gold","tier":"Tier 2","duration":"Monthly","price":"0"}`).Code)
	require.Equal(t, http.StatusBadRequest, postPlan(r, `{"name":"Gold","tier":"Tier 2","duration":"Fortnightly","price":"500"}`).Code)
	require.Equal(t, http.StatusBadRequest, postPlan(r, `{"tier":"Tier 2","duration":"Monthly","price":"500"}`).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ListPlans_Empty(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()
	r := newPlanRouter(repo)

	mock.ExpectQuery(regexp.QuoteMeta("FROM membership_plans WHERE gym_id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(planColumns))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/owner/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", w.Body.String())
}
