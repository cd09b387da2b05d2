package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/admin/tg-bots/stars-bot/internal/domain"
	"github.com/admin/tg-bots/stars-bot/internal/ports/repository"
)

// OrderStore реестр заказов в памяти процесса, теряется при рестарте.
// Все read-modify-write идут под одним мьютексом.
type OrderStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]*domain.Order),
	}
}

var _ repository.IOrderRepo = (*OrderStore)(nil)

func (s *OrderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *OrderStore) Get(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return order.Clone(), nil
}

func (s *OrderStore) Update(_ context.Context, id string, fn func(order *domain.Order) error) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}

	// fn работает с копией, при ошибке сохранённый заказ не меняется
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return current.Clone(), err
	}

	s.orders[id] = updated
	return updated.Clone(), nil
}

func (s *OrderStore) DeletePending(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok || order.Status != domain.OrderStatusPending {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func (s *OrderStore) List(_ context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if matchStatus(order.Status, filter.Statuses) {
			result = append(result, order.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func matchStatus(status domain.OrderStatus, statuses []domain.OrderStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
