package stars

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
)

var ErrExportDisabled = errors.New("report storage is not configured")

var exportHeader = []string{
	"order_id", "user_id", "username", "recipient", "stars_count",
	"cost", "status", "created_at", "paid_at", "completed_at",
}

// ExportOrders выгружает все заказы в CSV и возвращает временную ссылку
func (s *Service) ExportOrders(ctx context.Context) (string, int, error) {
	if s.ReportStorage == nil {
		return "", 0, ErrExportDisabled
	}

	orders, err := s.OrderRepo.List(ctx, repository.OrderFilter{})
	if err != nil {
		return "", 0, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return "", 0, nil
	}

	data, err := ordersCSV(orders)
	if err != nil {
		return "", 0, err
	}

	now := s.now()
	path := fmt.Sprintf("exports/%s/orders_%s.csv", now.Format("2006-01-02"), uuid.NewString())
	if err := s.ReportStorage.PutFile(ctx, path, data, "text/csv"); err != nil {
		return "", 0, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.ReportStorage.GetPresignedURL(ctx, path, s.Cfg.ExportURLTTL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to presign export: %w", err)
	}

	s.Log.Info("orders exported", "path", path, "count", len(orders))
	return url, len(orders), nil
}

func ordersCSV(orders []*domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, o := range orders {
		record := []string{
			o.ID,
			strconv.FormatInt(o.UserID, 10),
			o.Username,
			o.Recipient,
			strconv.Itoa(o.StarsCount),
			o.Cost.StringFixed(2),
			o.Status.String(),
			domain.FormatTimestamp(o.CreatedAt),
			formatOptionalTime(o.PaidAt),
			formatOptionalTime(o.CompletedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return domain.FormatTimestamp(*t)
}
