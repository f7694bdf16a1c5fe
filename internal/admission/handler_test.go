package admission

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"featuresgym/internal/booking"
	"featuresgym/internal/gymlock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("gym_id", 1)
		c.Next()
	})
	r.GET("/owner/admission/rules", h.GetRules)
	r.PUT("/owner/admission/rules", h.SaveRules)
	r.POST("/owner/admission/evaluate", h.Evaluate)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetRules_Default(t *testing.T) {
	repo := new(MockRuleRepo)
	repo.On("GetRuleSet", mock.Anything, 1).Return(nil, ErrRuleSetNotFound)
	r := newRouter(NewHandler(NewService(repo, nil, nil, nil, nil, gymlock.New(), testWindows, 1)))

	w := doJSON(r, http.MethodGet, "/owner/admission/rules", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rs RuleSet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rs))
	assert.Equal(t, 1, rs.GymID)
	assert.Equal(t, "10:00", rs.OffPeakStart)
}

func TestHandler_SaveRules_ValidationError(t *testing.T) {
	repo := new(MockRuleRepo)
	r := newRouter(NewHandler(NewService(repo, nil, nil, nil, nil, gymlock.New(), testWindows, 1)))

	w := doJSON(r, http.MethodPut, "/owner/admission/rules", map[string]any{
		"accept_conditions":          []string{"sunny"},
		"accept_occupancy_threshold": 150,
		"peak_start":                 "7pm",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	repo.AssertNotCalled(t, "SaveRuleSet", mock.Anything, mock.Anything)
}

func TestHandler_SaveRules(t *testing.T) {
	repo := new(MockRuleRepo)
	repo.On("SaveRuleSet", mock.Anything, mock.AnythingOfType("admission.RuleSet")).
		Return(&RuleSet{GymID: 1, AutoCancelEnabled: true, CancelThreshold: 85}, nil)
	r := newRouter(NewHandler(NewService(repo, nil, nil, nil, nil, gymlock.New(), testWindows, 1)))

	w := doJSON(r, http.MethodPut, "/owner/admission/rules", map[string]any{
		"auto_cancel_enabled":        true,
		"cancel_conditions":          []string{"high_occupancy"},
		"cancel_occupancy_threshold": 85,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"cancel_occupancy_threshold":85`)
}

func TestHandler_Evaluate(t *testing.T) {
	bookings := &fakeBookings{rows: []booking.BookingWithDetails{pendingRow(1, 10, 5, at("12:00"))}}
	rs := baseRules()
	rs.AutoAcceptEnabled = true
	rs.AcceptConditions = []string{"off_peak"}

	repo := new(MockRuleRepo)
	repo.On("GetRuleSet", mock.Anything, 1).Return(rs, nil)
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, bookings, &fakeSlots{bookings: bookings, capacity: 10}, fakeMembers{}, dispatcher, gymlock.New(), testWindows, 1)
	r := newRouter(NewHandler(svc))

	w := doJSON(r, http.MethodPost, "/owner/admission/evaluate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, Accepted, report.Decisions[0].Outcome)
}
