package app

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/admin/tg-bots/stars-bot/internal/pkg/logger"
)

type App struct {
	Name string
	Cfg  *Config
	Log  *slog.Logger
}

func New(name string, cfg *Config) *App {
	log := logger.New(name, cfg.Log)
	logger.SetDefault(log)

	return &App{
		Name: name,
		Cfg:  cfg,
		Log:  log,
	}
}

func (a *App) Run(ctx context.Context) error {
	a.Log.Info("starting stars bot",
		"storage_driver", a.Cfg.StorageDriver,
		"payment_mode", a.Cfg.Payment.Mode,
		"pricing_policy", a.Cfg.Shop.PricingPolicy,
	)

	deps, err := a.initDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to init dependencies: %w", err)
	}

	return a.runServices(ctx, deps)
}
