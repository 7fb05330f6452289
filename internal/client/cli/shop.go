package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/services"
)

// Products handles the product command family:
//
//	products [query]      — browse the catalog, optionally filtered by name
//	products show <id>    — product details
//	products buy <id> [n] — put n units into the cart (buyer)
//	products add          — create a product interactively (farmer)
//	products del <id>     — remove a product (farmer, admin)
func (a *App) Products(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.listProducts(ctx, services.CatalogFilter{})
	}

	switch args[0] {
	case "show":
		if len(args) < 2 {
			printlnFn("Usage: products show <id>")
			return nil
		}
		p, err := a.catalog.GetProduct(ctx, args[1])
		if err != nil {
			printlnFn("Failed to load product:", err.Error())
			return err
		}
		printlnFn(fmt.Sprintf("%s — %.2f (%d in stock)\n%s", p.Name, p.Price, p.Quantity, p.Description))
		return nil

	case "buy":
		return a.buyProduct(ctx, args[1:])

	case "add":
		return a.addProduct(ctx)

	case "del":
		if a.requireRole(models.RoleFarmer, models.RoleAdmin) == nil {
			return nil
		}
		if len(args) < 2 {
			printlnFn("Usage: products del <id>")
			return nil
		}
		if err := a.catalog.DeleteProduct(ctx, args[1]); err != nil {
			printlnFn("Failed to delete product:", err.Error())
			return err
		}
		printlnFn("Deleted.")
		return nil

	default:
		return a.listProducts(ctx, services.CatalogFilter{Query: strings.Join(args, " ")})
	}
}

func (a *App) listProducts(ctx context.Context, filter services.CatalogFilter) error {
	products, err := a.catalog.ListProducts(ctx, filter)
	if err != nil {
		printlnFn("Failed to load products:", err.Error())
		return err
	}
	if len(products) == 0 {
		printlnFn("No products found.")
		return nil
	}
	for _, p := range products {
		printlnFn(fmt.Sprintf("%-10s %-30s %8.2f  stock %d", p.ID, p.Name, p.Price, p.Quantity))
	}
	return nil
}

func (a *App) buyProduct(ctx context.Context, args []string) error {
	if a.requireRole(models.RoleBuyer, models.RoleAdmin) == nil {
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: products buy <id> [quantity]")
		return nil
	}
	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			printlnFn("Quantity must be a positive number.")
			return nil
		}
		qty = n
	}

	p, err := a.catalog.GetProduct(ctx, args[0])
	if err != nil {
		printlnFn("Failed to load product:", err.Error())
		return err
	}
	err = a.cartRepo.Add(ctx, models.CartItem{
		LineID:    uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
	})
	if err != nil {
		printlnFn("Failed to update cart:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Added %d x %s to the cart.", qty, p.Name))
	return nil
}

func (a *App) addProduct(ctx context.Context) error {
	user := a.requireRole(models.RoleFarmer)
	if user == nil {
		return nil
	}

	name, err := getSimpleText(a.reader, "Product name", os.Stdout)
	if err != nil {
		return err
	}
	priceText, err := getSimpleText(a.reader, "Price", os.Stdout)
	if err != nil {
		return err
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price < 0 {
		printlnFn("Price must be a non-negative number.")
		return nil
	}
	qtyText, err := getSimpleText(a.reader, "Quantity", os.Stdout)
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty < 0 {
		printlnFn("Quantity must be a non-negative number.")
		return nil
	}

	p, err := a.catalog.SaveProduct(ctx, models.Product{
		Name:     name,
		Price:    price,
		Quantity: qty,
		FarmID:   user.FarmID,
	})
	if err != nil {
		printlnFn("Failed to create product:", err.Error())
		return err
	}
	printlnFn("Created product", p.ID)
	return nil
}

// Categories lists categories; admins can add and delete them.
func (a *App) Categories(ctx context.Context, args []string) error {
	if len(args) == 0 {
		categories, err := a.catalog.ListCategories(ctx)
		if err != nil {
			printlnFn("Failed to load categories:", err.Error())
			return err
		}
		for _, c := range categories {
			printlnFn(fmt.Sprintf("%-10s %s", c.ID, c.Name))
		}
		return nil
	}

	switch args[0] {
	case "add":
		if a.requireRole(models.RoleAdmin) == nil {
			return nil
		}
		if len(args) < 2 {
			printlnFn("Usage: categories add <name>")
			return nil
		}
		c, err := a.catalog.SaveCategory(ctx, models.Category{Name: strings.Join(args[1:], " ")})
		if err != nil {
			printlnFn("Failed to create category:", err.Error())
			return err
		}
		printlnFn("Created category", c.ID)
		return nil

	case "del":
		if a.requireRole(models.RoleAdmin) == nil {
			return nil
		}
		if len(args) < 2 {
			printlnFn("Usage: categories del <id>")
			return nil
		}
		if err := a.catalog.DeleteCategory(ctx, args[1]); err != nil {
			printlnFn("Failed to delete category:", err.Error())
			return err
		}
		printlnFn("Deleted.")
		return nil

	default:
		printlnFn("Usage: categories [add <name> | del <id>]")
		return nil
	}
}

// Farms lists farms or shows one.
func (a *App) Farms(ctx context.Context, args []string) error {
	if len(args) >= 2 && args[0] == "show" {
		f, err := a.catalog.GetFarm(ctx, args[1])
		if err != nil {
			printlnFn("Failed to load farm:", err.Error())
			return err
		}
		printlnFn(fmt.Sprintf("%s (%s)\n%s", f.Name, f.Location, f.Description))
		return nil
	}

	farms, err := a.catalog.ListFarms(ctx)
	if err != nil {
		printlnFn("Failed to load farms:", err.Error())
		return err
	}
	for _, f := range farms {
		printlnFn(fmt.Sprintf("%-10s %-30s %s", f.ID, f.Name, f.Location))
	}
	return nil
}

// Cart shows and edits the local cart.
func (a *App) Cart(ctx context.Context, args []string) error {
	if a.currentUser() == nil {
		return nil
	}

	if len(args) > 0 {
		switch args[0] {
		case "rm":
			if len(args) < 2 {
				printlnFn("Usage: cart rm <line-id>")
				return nil
			}
			if err := a.cartRepo.Remove(ctx, args[1]); err != nil {
				printlnFn("Failed to update cart:", err.Error())
				return err
			}
			printlnFn("Removed.")
			return nil
		case "clear":
			if err := a.cartRepo.Clear(ctx); err != nil {
				printlnFn("Failed to clear cart:", err.Error())
				return err
			}
			printlnFn("Cart cleared.")
			return nil
		default:
			printlnFn("Usage: cart [rm <line-id> | clear]")
			return nil
		}
	}

	items, err := a.cartRepo.List(ctx)
	if err != nil {
		printlnFn("Failed to load cart:", err.Error())
		return err
	}
	if len(items) == 0 {
		printlnFn("The cart is empty.")
		return nil
	}
	var total float64
	for _, item := range items {
		line := item.Price * float64(item.Quantity)
		total += line
		printlnFn(fmt.Sprintf("%-36s %-30s %3d x %8.2f = %8.2f", item.LineID, item.Name, item.Quantity, item.Price, line))
	}
	printlnFn(fmt.Sprintf("Total: %.2f", total))
	return nil
}

// Checkout turns the cart into orders, one per line.
func (a *App) Checkout(ctx context.Context) error {
	user := a.requireRole(models.RoleBuyer, models.RoleAdmin)
	if user == nil {
		return nil
	}

	placed, err := a.orders.Checkout(ctx, user.ID)
	if err != nil {
		printlnFn("Checkout failed:", err.Error())
		if len(placed) > 0 {
			printlnFn(fmt.Sprintf("%d order(s) were placed before the failure; the remaining lines stay in the cart.", len(placed)))
		}
		return err
	}
	if len(placed) == 0 {
		printlnFn("The cart is empty.")
		return nil
	}
	printlnFn(fmt.Sprintf("Placed %d order(s).", len(placed)))
	return nil
}

// Orders lists orders and, for farmers and admins, updates their status.
func (a *App) Orders(ctx context.Context, args []string) error {
	user := a.currentUser()
	if user == nil {
		return nil
	}

	if len(args) >= 3 && args[0] == "status" {
		if a.requireRole(models.RoleFarmer, models.RoleAdmin) == nil {
			return nil
		}
		o, err := a.orders.UpdateOrderStatus(ctx, models.Order{ID: args[1]}, args[2])
		if err != nil {
			printlnFn("Failed to update order:", err.Error())
			return err
		}
		printlnFn("Order", o.ID, "is now", o.Status)
		return nil
	}

	forUser := user.ID
	if user.CanonicalRole() == models.RoleAdmin {
		forUser = ""
	}
	orders, err := a.orders.ListOrders(ctx, forUser)
	if err != nil {
		printlnFn("Failed to load orders:", err.Error())
		return err
	}
	if len(orders) == 0 {
		printlnFn("No orders yet.")
		return nil
	}
	for _, o := range orders {
		printlnFn(fmt.Sprintf("%-10s product %-10s x%-3d %8.2f  %s", o.ID, o.ProductID, o.Quantity, o.Total, o.Status))
	}
	return nil
}
