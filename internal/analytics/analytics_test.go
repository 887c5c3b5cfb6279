package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRepository is a mock implementation of AnalyticsRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCounts(ctx context.Context, w Window) (*Counts, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Counts), args.Error(1)
}

var aden = time.FixedZone("AST", 3*60*60)

func newTestService(repo *MockRepository) *Service {
	svc := NewService(repo, aden)
	svc.Now = func() time.Time { return time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC) }
	return svc
}

// ============== Service Tests ==============

func TestGetOverview_WindowUsesLocalDay(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	// 22:30 UTC is already 01:30 on the 11th in Aden
	expected := Window{
		DayStart:    time.Date(2025, 3, 11, 0, 0, 0, 0, aden),
		DayEnd:      time.Date(2025, 3, 12, 0, 0, 0, 0, aden),
		RecentSince: time.Date(2025, 2, 8, 22, 30, 0, 0, time.UTC).In(aden),
	}
	repo.On("GetCounts", mock.Anything, mock.MatchedBy(func(w Window) bool {
		return w.DayStart.Equal(expected.DayStart) && w.DayEnd.Equal(expected.DayEnd) && w.RecentSince.Equal(expected.RecentSince)
	})).Return(&Counts{}, nil)

	_, err := svc.GetOverview(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetOverview_Aggregates(t *testing.T) {
	tests := []struct {
		name     string
		counts   *Counts
		expected *Overview
	}{
		{
			name: "busy day",
			counts: &Counts{
				TodayBookings:     8,
				PendingBookings:   5,
				CompletedToday:    3,
				RevenueToday:      decimal.RequireFromString("45000.50"),
				AvgServiceMinutes: 52.5,
				RecentBookings:    30,
				RecentFinished:    20,
			},
			expected: &Overview{
				TodayBookings:        8,
				PendingBookings:      5,
				CompletedBookings:    3,
				RevenueToday:         45000.5,
				AvgServiceTime:       53,
				CompletionPercentage: 67,
			},
		},
		{
			name:     "no bookings",
			counts:   &Counts{RevenueToday: decimal.Zero},
			expected: &Overview{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetCounts", mock.Anything, mock.Anything).Return(tt.counts, nil)

			overview, err := newTestService(repo).GetOverview(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, overview)
		})
	}
}

// ============== Handler Tests ==============

func TestHandler_GetOverview(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetCounts", mock.Anything, mock.Anything).Return(&Counts{
		TodayBookings: 2,
		RevenueToday:  decimal.RequireFromString("15000"),
	}, nil)

	router := gin.New()
	NewHandler(newTestService(repo)).RegisterAdminRoutes(router.Group("/api/v1/admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/overview", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["today_bookings"])
	assert.Equal(t, float64(15000), data["revenue_today"])
}

func TestHandler_GetOverview_Error(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetCounts", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	router := gin.New()
	NewHandler(newTestService(repo)).RegisterAdminRoutes(router.Group("/api/v1/admin"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/overview", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
