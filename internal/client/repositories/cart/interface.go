// Package cart persists the shopping cart in the local SQLite database.
// The cart is convenience state consumed by checkout; the backend never
// reads it.
package cart

import (
	"context"

	"github.com/mkalvans/farmline/internal/client/models"
)

// Repository describes cart line operations.
type Repository interface {
	// Add inserts a new line for the product or, if one already exists,
	// increments its quantity.
	Add(ctx context.Context, item models.CartItem) error

	// List returns all cart lines.
	List(ctx context.Context) ([]models.CartItem, error)

	// Remove deletes a single line by its line ID.
	Remove(ctx context.Context, lineID string) error

	// Clear empties the cart (checkout success, logout).
	Clear(ctx context.Context) error
}
