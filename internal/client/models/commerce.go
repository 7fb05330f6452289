package models

// Product is a catalog item offered by a farm.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CategoryID  string  `json:"categoryId,omitempty"`
	FarmID      string  `json:"farmId,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Category groups products for browsing and filtering.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Farm is a seller's storefront.
type Farm struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	OwnerID     string `json:"ownerId"`
}

// Order is a single purchased line. Checkout creates one order per cart
// line, so there is no separate order-item level.
type Order struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
}

// Order statuses used by the backend.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// CartItem is one line of the locally persisted cart. LineID is assigned
// client-side; the cart is convenience state, never authoritative.
type CartItem struct {
	LineID    string  `json:"lineId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
