package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher events.Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, publisher events.Publisher) *OrderService {
	return &OrderService{orderRepo: orderRepo, publisher: publisher}
}

// OrderItemInput is one line of a new order as submitted by the client.
type OrderItemInput struct {
	Title    string
	Price    decimal.Decimal
	Quantity int
	Image    *string
}

// CreateOrderInput is a new order as submitted by the client.
type CreateOrderInput struct {
	Total  decimal.Decimal
	Status string
	Items  []OrderItemInput
}

type orderEvent struct {
	OrderID string             `json:"orderId"`
	UserID  string             `json:"userId"`
	Status  models.OrderStatus `json:"status"`
	Total   decimal.Decimal    `json:"total"`
	Items   int                `json:"items,omitempty"`
}

func validateOrder(in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("an order needs at least one item: %w", ErrValidation)
	}
	if in.Total.IsNegative() {
		return fmt.Errorf("total must not be negative: %w", ErrValidation)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("item %d: title is required: %w", i, ErrValidation)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("item %d: price must not be negative: %w", i, ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1: %w", i, ErrValidation)
		}
	}
	return nil
}

// Create persists the order and its item snapshots atomically. The total is
// stored as submitted and is not recomputed from the items.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	if err := validateOrder(in); err != nil {
		return nil, err
	}

	status := models.OrderStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.OrderStatusPending
	}
	s.warnUnknownStatus(ctx, status)

	order := &models.Order{
		UserID: userID,
		Date:   time.Now().UTC(),
		Total:  in.Total,
		Status: status,
		Items:  make([]models.OrderItem, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		order.Items = append(order.Items, models.OrderItem{
			Title:    it.Title,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	metrics.OrdersCreated.Inc()
	emit(ctx, s.publisher, events.OrderCreated, order.ID, orderEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Total,
		Items:   len(order.Items),
	})
	return order, nil
}

// FindByUser returns the user's orders, newest first.
func (s *OrderService) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

// FindOne returns an order owned by userID. Orders of other users are
// reported as ErrNotFound.
func (s *OrderService) FindOne(ctx context.Context, id, userID string) (*models.Order, error) {
	return s.orderRepo.FindOne(ctx, id, userID)
}

// UpdateStatus overwrites the status of an order. Any non-empty value is
// accepted; values outside the known vocabulary are logged.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	st := models.OrderStatus(strings.TrimSpace(status))
	if st == "" {
		return nil, fmt.Errorf("status is required: %w", ErrValidation)
	}
	s.warnUnknownStatus(ctx, st)

	order, err := s.orderRepo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	emit(ctx, s.publisher, events.OrderStatusUpdated, order.ID, orderEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Total,
	})
	return order, nil
}

// Remove deletes an order owned by userID together with its items.
func (s *OrderService) Remove(ctx context.Context, id, userID string) error {
	if err := s.orderRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	emit(ctx, s.publisher, events.OrderDeleted, id, map[string]string{"orderId": id, "userId": userID})
	return nil
}

// GetStats counts all orders and sums their stored totals.
func (s *OrderService) GetStats(ctx context.Context) (models.OrderStats, error) {
	return s.orderRepo.Stats(ctx)
}

func (s *OrderService) warnUnknownStatus(ctx context.Context, st models.OrderStatus) {
	if !st.Known() {
		logging.FromContext(ctx).Warn("order status outside known vocabulary", "status", st)
	}
}
