package alerter

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
	"github.com/gin-gonic/gin"
)

// Controller пересылает внешние алерты (деплои Railway, мониторинг) в чат алертов
type Controller struct {
	AlerterService service.IAlerterService
	// Token ожидается в ?token=, Railway не умеет слать свои заголовки
	Token string
	Log   *slog.Logger
}

func New(alerterService service.IAlerterService, token string, log *slog.Logger) *Controller {
	return &Controller{
		AlerterService: alerterService,
		Token:          token,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/webhooks", c.authorize)
	group.POST("/railway", c.handleRailwayWebhook)
	group.POST("/alert", c.handleGenericAlert)
}

func (c *Controller) authorize(ctx *gin.Context) {
	if c.Token == "" {
		ctx.Next()
		return
	}
	if subtle.ConstantTimeCompare([]byte(ctx.Query("token")), []byte(c.Token)) != 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx.Next()
}

func (c *Controller) handleRailwayWebhook(ctx *gin.Context) {
	var payload RailwayWebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		c.Log.Warn("failed to bind railway webhook request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Log.Debug("received railway webhook",
		"type", payload.Type,
		"service", payload.Resource.Service.Name,
		"severity", payload.Severity,
	)

	c.forward(ctx, payload.Message(), "source", "railway", "type", payload.Type)
}

func (c *Controller) handleGenericAlert(ctx *gin.Context) {
	var payload GenericAlertPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		c.Log.Warn("failed to bind generic alert request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if payload.Message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	message := payload.Message
	if payload.Source != "" {
		message = fmt.Sprintf("🔔 Источник: %s\n\n%s", payload.Source, payload.Message)
	}

	c.forward(ctx, message, "source", payload.Source)
}

// forward отвечает 200 даже при ошибке отправки, иначе отправитель будет ретраить
func (c *Controller) forward(ctx *gin.Context, message string, logArgs ...any) {
	if err := c.AlerterService.SendAlert(ctx.Request.Context(), message); err != nil {
		c.Log.Warn("failed to forward alert", append([]any{"error", err}, logArgs...)...)
		ctx.JSON(http.StatusOK, gin.H{"ok": false, "error": "failed to send alert"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
