package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
)

// Notification heuristics. Thresholds are client-side policy, not backend
// state; the feed is recomputed on every request.
const (
	// LowStockThreshold is the quantity at or below which a product is
	// flagged for its farmer.
	LowStockThreshold = 5

	// RecentOrderWindow bounds how far back the order feed looks.
	RecentOrderWindow = 7 * 24 * time.Hour
)

// NotificationKind distinguishes feed entries.
type NotificationKind string

const (
	NotificationLowStock NotificationKind = "low_stock"
	NotificationNewOrder NotificationKind = "new_order"
)

// Notification is one entry of the farmer feed.
type Notification struct {
	Kind      NotificationKind
	Text      string
	ProductID string
	OrderID   string
	CreatedAt int64
}

// NotificationService computes the farmer-facing feed: low-stock products
// and recent incoming orders.
type NotificationService interface {
	Feed(ctx context.Context, farmID string) ([]Notification, error)
}

type notificationService struct {
	api api.Client
	now func() time.Time
}

// NewNotificationService constructs a NotificationService over the REST
// client.
func NewNotificationService(client api.Client) NotificationService {
	return &notificationService{api: client, now: time.Now}
}

func (s *notificationService) Feed(ctx context.Context, farmID string) ([]Notification, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	var feed []Notification
	mine := make(map[string]models.Product)
	for _, p := range products {
		if farmID != "" && p.FarmID != farmID {
			continue
		}
		mine[p.ID] = p
		if p.Quantity <= LowStockThreshold {
			feed = append(feed, Notification{
				Kind:      NotificationLowStock,
				Text:      fmt.Sprintf("%s is low on stock (%d left)", p.Name, p.Quantity),
				ProductID: p.ID,
			})
		}
	}

	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(-RecentOrderWindow).UnixMilli()
	for _, o := range orders {
		p, ok := mine[o.ProductID]
		if !ok || o.CreatedAt < cutoff {
			continue
		}
		feed = append(feed, Notification{
			Kind:      NotificationNewOrder,
			Text:      fmt.Sprintf("new order for %s (x%d)", p.Name, o.Quantity),
			ProductID: o.ProductID,
			OrderID:   o.ID,
			CreatedAt: o.CreatedAt,
		})
	}
	return feed, nil
}
