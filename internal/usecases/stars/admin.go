package stars

import (
	"context"
	"fmt"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
	"github.com/admin/tg-bots/stars-bot/internal/usecases/stars/texts"
)

// ListOrders пустой statuses - все заказы
func (s *Service) ListOrders(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, fmt.Errorf("unknown order status %q", st)
		}
	}

	orders, err := s.OrderRepo.List(ctx, repository.OrderFilter{Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *Service) Stats(ctx context.Context) (domain.OrderStats, error) {
	orders, err := s.OrderRepo.List(ctx, repository.OrderFilter{})
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return domain.CalculateStats(orders), nil
}

// HandleAdminOrders /orders: pending и paid
func (s *Service) HandleAdminOrders(ctx context.Context, account *domain.Account, chatID int64) error {
	if err := s.requireAdmin(ctx, account.UserID, "orders"); err != nil {
		return err
	}

	orders, err := s.ListOrders(ctx, []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusPaid})
	if err != nil {
		s.Log.Error("failed to list active orders", "error", err)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return err
	}

	return s.sendMessage(ctx, chatID, texts.FormatOrdersList(orders))
}

// HandleAdminStats /stats
func (s *Service) HandleAdminStats(ctx context.Context, account *domain.Account, chatID int64) error {
	if err := s.requireAdmin(ctx, account.UserID, "stats"); err != nil {
		return err
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		s.Log.Error("failed to calculate stats", "error", err)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return err
	}

	return s.sendMessage(ctx, chatID, texts.FormatStats(stats))
}

// HandleAdminExport /export: CSV всех заказов в S3 и ссылка на скачивание
func (s *Service) HandleAdminExport(ctx context.Context, account *domain.Account, chatID int64) error {
	if err := s.requireAdmin(ctx, account.UserID, "export"); err != nil {
		return err
	}

	url, count, err := s.ExportOrders(ctx)
	if err != nil {
		s.Log.Error("failed to export orders", "error", err)
		_ = s.sendMessage(ctx, chatID, texts.ErrorGeneric)
		return err
	}
	if count == 0 {
		return s.sendMessage(ctx, chatID, texts.ExportEmpty)
	}

	return s.sendMessage(ctx, chatID, texts.FormatExportReady(url, count))
}
