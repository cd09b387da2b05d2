package payment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

// ответы кассе, формат задан протоколом FreeKassa
const (
	responseAccepted  = "YES"
	responseWrongSign = "wrong sign"
	responseBadAmount = "wrong amount"
)

type Controller struct {
	PaymentUseCase usecase.IPaymentUseCase
	Log            *slog.Logger
}

func New(paymentUseCase usecase.IPaymentUseCase, log *slog.Logger) *Controller {
	return &Controller{
		PaymentUseCase: paymentUseCase,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/payment/callback", c.handleCallback)
	router.GET("/payment/callback", c.handleCallback)
}

func (c *Controller) handleCallback(ctx *gin.Context) {
	req := ctx.Request
	notification := domain.PaymentNotification{
		MerchantID: req.FormValue("MERCHANT_ID"),
		Amount:     req.FormValue("AMOUNT"),
		OrderID:    req.FormValue("MERCHANT_ORDER_ID"),
		Sign:       req.FormValue("SIGN"),
		UserID:     req.FormValue("us_user_id"),
	}

	outcome, err := c.PaymentUseCase.ConfirmPayment(req.Context(), notification)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			ctx.String(http.StatusBadRequest, responseWrongSign)
		case errors.Is(err, domain.ErrInvalidAmount):
			ctx.String(http.StatusBadRequest, responseBadAmount)
		default:
			c.Log.Error("failed to confirm payment",
				"error", err,
				"order_id", notification.OrderID,
			)
			ctx.String(http.StatusInternalServerError, "error")
		}
		return
	}

	c.Log.Info("payment callback processed",
		"order_id", notification.OrderID,
		"outcome", outcome,
	)

	if outcome == domain.PaymentNotApplicable {
		ctx.String(http.StatusNotFound, "payment callbacks are disabled")
		return
	}

	// неизвестный заказ и недоплата тоже подтверждаются, чтобы касса не ретраила
	ctx.String(http.StatusOK, responseAccepted)
}
