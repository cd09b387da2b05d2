package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func (a *App) runServices(ctx context.Context, deps *Dependencies) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port)

		err := deps.HTTPServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	// Telegram Updates: либо Webhook (prod), либо Polling (local dev)
	if deps.TelegramPoller != nil {
		g.Go(func() error {
			return a.runPolling(gCtx, deps)
		})
	} else {
		a.Log.Info("telegram updates mode: webhook", "webhook_url", a.Cfg.Telegram.WebhookURL)
	}

	g.Go(func() error {
		return deps.JobScheduler.Start(gCtx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := deps.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}

		a.closeStorage(deps)

		if err := deps.EventPublisher.Close(); err != nil {
			a.Log.Error("failed to close event publisher", "error", err)
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}

func (a *App) closeStorage(deps *Dependencies) {
	if deps.DB != nil {
		if err := deps.DB.Close(); err != nil {
			a.Log.Error("failed to close database", "error", err)
		}
	}

	if deps.SQLite != nil {
		if sqlDB, err := deps.SQLite.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Error("failed to close sqlite", "error", err)
			}
		}
	}

	if deps.Cache != nil {
		if err := deps.Cache.Close(); err != nil {
			a.Log.Error("failed to close cache", "error", err)
		}
	}
}

// runPolling снимает webhook и читает апдейты через getUpdates
func (a *App) runPolling(ctx context.Context, deps *Dependencies) error {
	deleteCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := deps.TelegramPoller.DeleteWebhook(deleteCtx); err != nil {
		a.Log.Warn("failed to delete webhook, continuing anyway", "error", err)
		// даём Telegram время снять webhook
		time.Sleep(2 * time.Second)
	} else {
		a.Log.Info("webhook deleted successfully, starting polling")
	}

	return deps.TelegramPoller.Start(ctx)
}
