package cart

import (
	"context"
	"fmt"

	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add upserts by product: a second Add for the same product increments the
// stored quantity instead of creating a duplicate line.
func (r *SQLiteRepository) Add(ctx context.Context, item models.CartItem) error {
	query := `INSERT INTO cart_items (line_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(product_id) DO UPDATE SET quantity = quantity + excluded.quantity
	`
	_, err := r.db.ExecContext(ctx, query,
		item.LineID, item.ProductID, item.Name, item.Price, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT line_id, product_id, name, price, quantity FROM cart_items`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var result []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.LineID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, lineID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE line_id = ?`, lineID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
