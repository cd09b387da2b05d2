package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "admin-token"

type fakeAdminUseCase struct {
	orders      []*domain.Order
	stats       domain.OrderStats
	err         error
	gotStatuses []domain.OrderStatus
}

func (f *fakeAdminUseCase) ListOrders(_ context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	f.gotStatuses = statuses
	return f.orders, f.err
}

func (f *fakeAdminUseCase) Stats(context.Context) (domain.OrderStats, error) {
	return f.stats, f.err
}

func newRouter(uc *fakeAdminUseCase, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(uc, token, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)
	return router
}

func doGet(router *gin.Engine, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		wantStatus int
	}{
		{name: "valid token", configured: testToken, sent: testToken, wantStatus: http.StatusOK},
		{name: "wrong token", configured: testToken, sent: "guess", wantStatus: http.StatusUnauthorized},
		{name: "no token sent", configured: testToken, wantStatus: http.StatusUnauthorized},
		{name: "api token not configured", sent: "anything", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(newRouter(&fakeAdminUseCase{}, tt.configured), "/admin/stats", tt.sent)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestListOrders(t *testing.T) {
	order := &domain.Order{
		ID:         "42_1",
		UserID:     42,
		Username:   "buyer",
		Recipient:  "friend_one",
		StarsCount: 100,
		Cost:       decimal.RequireFromString("259.5"),
		Status:     domain.OrderStatusPaid,
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantStatuses []domain.OrderStatus
	}{
		{name: "all", target: "/admin/orders", wantStatus: http.StatusOK},
		{
			name:         "comma separated",
			target:       "/admin/orders?status=pending,PAID",
			wantStatus:   http.StatusOK,
			wantStatuses: []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusPaid},
		},
		{
			name:         "repeated",
			target:       "/admin/orders?status=completed&status=cancelled",
			wantStatus:   http.StatusOK,
			wantStatuses: []domain.OrderStatus{domain.OrderStatusCompleted, domain.OrderStatusCancelled},
		},
		{name: "unknown status", target: "/admin/orders?status=refunded", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAdminUseCase{orders: []*domain.Order{order}}
			w := doGet(newRouter(uc, testToken), tt.target, testToken)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantStatuses, uc.gotStatuses)

			var body struct {
				Count  int            `json:"count"`
				Orders []domain.Order `json:"orders"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, 1, body.Count)
			require.Len(t, body.Orders, 1)
			assert.Equal(t, "42_1", body.Orders[0].ID)
			assert.True(t, order.Cost.Equal(body.Orders[0].Cost))
		})
	}
}

func TestListOrdersEmptyIsArray(t *testing.T) {
	w := doGet(newRouter(&fakeAdminUseCase{}, testToken), "/admin/orders", testToken)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"orders":[]}`, w.Body.String())
}

func TestStats(t *testing.T) {
	uc := &fakeAdminUseCase{stats: domain.OrderStats{
		Total:     3,
		Paid:      1,
		Completed: 1,
		Cancelled: 1,
		Revenue:   decimal.RequireFromString("500"),
	}}

	w := doGet(newRouter(uc, testToken), "/admin/stats", testToken)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"pending":0,"paid":1,"completed":1,"cancelled":1,"revenue":"500"}`, w.Body.String())
}

func TestStatsError(t *testing.T) {
	w := doGet(newRouter(&fakeAdminUseCase{err: errors.New("db down")}, testToken), "/admin/stats", testToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
