package alerter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlerter struct {
	err      error
	messages []string
}

func (f *fakeAlerter) SendAlert(_ context.Context, message string) error {
	f.messages = append(f.messages, message)
	return f.err
}

func post(router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRouter(alerter *fakeAlerter, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(alerter, token, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)
	return router
}

func TestGenericAlert(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		target      string
		body        string
		sendErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "plain", target: "/webhooks/alert", body: `{"message":"disk full"}`, wantStatus: http.StatusOK, wantMessage: "disk full"},
		{
			name:        "with source",
			target:      "/webhooks/alert",
			body:        `{"message":"disk full","source":"grafana"}`,
			wantStatus:  http.StatusOK,
			wantMessage: "🔔 Источник: grafana\n\ndisk full",
		},
		{name: "empty message", target: "/webhooks/alert", body: `{"source":"grafana"}`, wantStatus: http.StatusBadRequest},
		{name: "broken json", target: "/webhooks/alert", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "token required", token: "t", target: "/webhooks/alert", body: `{"message":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "token ok", token: "t", target: "/webhooks/alert?token=t", body: `{"message":"x"}`, wantStatus: http.StatusOK, wantMessage: "x"},
		{
			name:        "send failure still 200",
			target:      "/webhooks/alert",
			body:        `{"message":"x"}`,
			sendErr:     errors.New("telegram down"),
			wantStatus:  http.StatusOK,
			wantMessage: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerter := &fakeAlerter{err: tt.sendErr}
			w := post(newRouter(alerter, tt.token), tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage == "" {
				assert.Empty(t, alerter.messages)
				return
			}
			require.Len(t, alerter.messages, 1)
			assert.Equal(t, tt.wantMessage, alerter.messages[0])
		})
	}
}

func TestRailwayWebhook(t *testing.T) {
	body := `{
		"type": "DEPLOY.FAILED",
		"severity": "ERROR",
		"timestamp": "2025-01-02T03:04:05Z",
		"details": {"status": "failed", "branch": "main", "commitHash": "0123456789abcdef", "commitAuthor": "dev"},
		"resource": {"project": {"name": "stars"}, "service": {"name": "bot"}, "environment": {"name": "production"}}
	}`

	alerter := &fakeAlerter{}
	w := post(newRouter(alerter, ""), "/webhooks/railway", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, alerter.messages, 1)

	msg := alerter.messages[0]
	assert.Contains(t, msg, "🚨 Deploy Failed [ERROR]")
	assert.Contains(t, msg, "📦 stars / bot")
	assert.Contains(t, msg, "🌍 Окружение: production")
	assert.Contains(t, msg, "📊 Статус: FAILED")
	assert.Contains(t, msg, "🔹 Коммит: 0123456 (dev)")
	assert.Contains(t, msg, "⏰ 02.01.2025 03:04:05")
	assert.NotContains(t, msg, "💬")
}
