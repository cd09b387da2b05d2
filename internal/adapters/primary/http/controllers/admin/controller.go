package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

const tokenHeader = "X-Admin-Token"

type Controller struct {
	AdminUseCase usecase.IAdminUseCase
	Token        string
	Log          *slog.Logger
}

func New(adminUseCase usecase.IAdminUseCase, token string, log *slog.Logger) *Controller {
	return &Controller{
		AdminUseCase: adminUseCase,
		Token:        token,
		Log:          log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/admin", c.authorize)
	group.GET("/orders", c.listOrders)
	group.GET("/stats", c.stats)
}

func (c *Controller) authorize(ctx *gin.Context) {
	got := ctx.GetHeader(tokenHeader)
	if c.Token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(c.Token)) != 1 {
		c.Log.Warn("admin api access denied", "path", ctx.Request.URL.Path, "client_ip", ctx.ClientIP())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ctx.Next()
}

// listOrders ?status=pending,paid или ?status=pending&status=paid, без параметра все заказы
func (c *Controller) listOrders(ctx *gin.Context) {
	statuses := parseStatuses(ctx.QueryArray("status"))
	for _, st := range statuses {
		if !st.IsValid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + st.String()})
			return
		}
	}

	orders, err := c.AdminUseCase.ListOrders(ctx.Request.Context(), statuses)
	if err != nil {
		c.Log.Error("failed to list orders", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	if orders == nil {
		orders = []*domain.Order{}
	}
	ctx.JSON(http.StatusOK, gin.H{
		"count":  len(orders),
		"orders": orders,
	})
}

func (c *Controller) stats(ctx *gin.Context) {
	stats, err := c.AdminUseCase.Stats(ctx.Request.Context())
	if err != nil {
		c.Log.Error("failed to calculate stats", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate stats"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func parseStatuses(values []string) []domain.OrderStatus {
	var statuses []domain.OrderStatus
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			statuses = append(statuses, domain.OrderStatus(strings.ToLower(part)))
		}
	}
	return statuses
}
