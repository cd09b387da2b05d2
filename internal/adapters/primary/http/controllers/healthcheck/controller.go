package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger зависимость, без которой бот не готов принимать трафик
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check именованная проверка для /ready
type Check struct {
	Name   string
	Pinger Pinger
}

type HealthCheckController struct {
	checks []Check
	log    *slog.Logger
}

func New(log *slog.Logger, checks ...Check) *HealthCheckController {
	return &HealthCheckController{
		checks: checks,
		log:    log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health всегда 200
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "stars-bot",
	})
}

// ready пингует все зависимости, 503 если хоть одна недоступна
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()

	failed := make([]string, 0)
	for _, check := range c.checks {
		if err := check.Pinger.Ping(pingCtx); err != nil {
			c.log.Error("dependency not ready", "dependency", check.Name, "error", err)
			failed = append(failed, check.Name)
		}
	}

	if len(failed) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "not ready",
			"unavailable": failed,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
