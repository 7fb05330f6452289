package services

import (
	"context"
	"fmt"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/repositories/cart"
)

// OrderService places and lists orders. Checkout turns the locally persisted
// cart into orders, one per cart line.
type OrderService interface {
	// ListOrders returns the orders visible to the user. forUserID narrows
	// the list client-side; empty means no narrowing (administrators).
	ListOrders(ctx context.Context, forUserID string) ([]models.Order, error)

	// PlaceOrder creates a single order directly, bypassing the cart.
	PlaceOrder(ctx context.Context, o models.Order) (*models.Order, error)

	// UpdateOrderStatus moves an order to the given status.
	UpdateOrderStatus(ctx context.Context, o models.Order, status string) (*models.Order, error)

	// Checkout creates one order per cart line for the given buyer. The cart
	// is cleared only when every line succeeded; on a failure the lines that
	// were already ordered are removed and the rest stay in the cart.
	Checkout(ctx context.Context, userID string) ([]models.Order, error)
}

type orderService struct {
	api  api.Client
	cart cart.Repository
}

// NewOrderService constructs an OrderService over the REST client and the
// local cart.
func NewOrderService(client api.Client, cartRepo cart.Repository) OrderService {
	return &orderService{api: client, cart: cartRepo}
}

func (s *orderService) ListOrders(ctx context.Context, forUserID string) ([]models.Order, error) {
	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if forUserID == "" {
		return orders, nil
	}
	var own []models.Order
	for _, o := range orders {
		if o.UserID == forUserID {
			own = append(own, o)
		}
	}
	return own, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	return s.api.CreateOrder(ctx, o)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, o models.Order, status string) (*models.Order, error) {
	o.Status = status
	return s.api.UpdateOrder(ctx, o)
}

func (s *orderService) Checkout(ctx context.Context, userID string) ([]models.Order, error) {
	items, err := s.cart.List(ctx)
	if err != nil {
		return nil, err
	}

	var placed []models.Order
	for _, item := range items {
		order, err := s.api.CreateOrder(ctx, models.Order{
			UserID:    userID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Total:     item.Price * float64(item.Quantity),
			Status:    models.OrderStatusPending,
		})
		if err != nil {
			return placed, fmt.Errorf("checkout %q: %w", item.Name, err)
		}
		placed = append(placed, *order)
		// The ordered line leaves the cart immediately so a retry after a
		// later failure cannot order it twice.
		if err := s.cart.Remove(ctx, item.LineID); err != nil {
			return placed, fmt.Errorf("checkout %q: order placed but cart line not removed: %w", item.Name, err)
		}
	}

	if err := s.cart.Clear(ctx); err != nil {
		return placed, err
	}
	return placed, nil
}
