package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quisine/models"
	"quisine/repository"
	"quisine/utils"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, in models.PlaceOrderInput) (*models.Order, error)
	ListOrders(ctx context.Context, tenantID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, tenantID, orderID string, next models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, tenantID, orderID string) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders, now: time.Now}
}

// PlaceOrder records the basket exactly as the storefront sent it. Prices are a snapshot and
// the total is trusted as submitted.
func (s *orderService) PlaceOrder(ctx context.Context, in models.PlaceOrderInput) (*models.Order, error) {
	if strings.TrimSpace(in.ShopID) == "" {
		return nil, utils.Invalid("Shop id is required")
	}
	if len(in.Items) == 0 {
		return nil, utils.Invalid("Order must contain at least one item")
	}
	for _, li := range in.Items {
		if strings.TrimSpace(li.Name) == "" || li.Qty <= 0 || li.Price < 0 {
			return nil, utils.Invalid("Every item needs a name, a positive quantity and a price")
		}
	}
	if in.Total == nil || *in.Total < 0 {
		return nil, utils.Invalid("Total is required")
	}
	if in.Table < 0 {
		return nil, utils.Invalid("Table number cannot be negative")
	}

	now := s.now()
	order := &models.Order{
		UserID:    in.ShopID,
		Table:     int(in.Table),
		Items:     in.Items,
		Total:     *in.Total,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range order.Items {
		if order.Items[i].Modifiers == nil {
			order.Items[i].Modifiers = []models.OrderOption{}
		}
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	utils.OrdersPlaced.Inc()
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, tenantID string) ([]models.Order, error) {
	return s.orders.ListByTenant(ctx, tenantID)
}

// UpdateStatus checks the transition against the order as loaded and then writes it only if
// nobody moved the order in between.
func (s *orderService) UpdateStatus(ctx context.Context, tenantID, orderID string, next models.OrderStatus) (*models.Order, error) {
	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, utils.Invalid("Unknown order status %q", next)
	}

	current, err := s.tenantOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, utils.Invalid("Cannot move order from %s to %s", current.Status, next)
	}

	updated, err := s.orders.CompareAndSetStatus(ctx, tenantID, id, current.Status, next, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.Conflict("Order status changed, reload and try again")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *orderService) tenantOrder(ctx context.Context, tenantID string, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	if order.UserID != tenantID {
		return nil, utils.NotFound("Order not found")
	}
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, tenantID, orderID string) error {
	id, err := parseID(orderID, "order")
	if err != nil {
		return err
	}
	return s.orders.Delete(ctx, tenantID, id)
}

// GetOrder backs the public receipt page. A malformed id is reported as a missing order.
func (s *orderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, utils.NotFound("Order not found")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	return order, nil
}
