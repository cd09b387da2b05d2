package telegram

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/gin-gonic/gin"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler роутинг апдейта, реализует services/telegram
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *domain.Update) error
}

type Controller struct {
	Handler UpdateHandler
	Secret  string
	Log     *slog.Logger
}

func New(handler UpdateHandler, secret string, log *slog.Logger) *Controller {
	return &Controller{
		Handler: handler,
		Secret:  secret,
		Log:     log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook/", c.handleWebhook)
}

func (c *Controller) handleWebhook(ctx *gin.Context) {
	if c.Secret != "" {
		got := ctx.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.Secret)) != 1 {
			c.Log.Warn("webhook secret token mismatch", "client_ip", ctx.ClientIP())
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
			return
		}
	}

	var update domain.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		c.Log.Error("failed to bind webhook request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.Log.Debug("received webhook update", "update_id", update.UpdateID)

	if err := c.Handler.HandleUpdate(ctx.Request.Context(), &update); err != nil {
		// бизнес-ошибка уже показана пользователю, повтор от Telegram не нужен
		if domain.IsBusinessError(err) {
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		c.Log.Error("failed to handle update",
			"error", err,
			"update_id", update.UpdateID,
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process update"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
