package cli

import (
	"context"
	"fmt"

	"github.com/mkalvans/farmline/internal/client/models"
)

// Users lists accounts or deletes one. Admin only.
func (a *App) Users(ctx context.Context, args []string) error {
	if a.requireRole(models.RoleAdmin) == nil {
		return nil
	}

	if len(args) >= 2 && args[0] == "del" {
		if err := a.users.DeleteUser(ctx, args[1]); err != nil {
			printlnFn("Failed to delete user:", err.Error())
			return err
		}
		printlnFn("Deleted.")
		return nil
	}

	users, err := a.users.ListUsers(ctx)
	if err != nil {
		printlnFn("Failed to load users:", err.Error())
		return err
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%-10s %-25s %-30s %s", u.ID, u.Name, u.Email, u.Role))
	}
	return nil
}

// Notifications prints the farmer feed: low-stock products and recent
// orders for the user's farm. Admins see the feed across all farms.
func (a *App) Notifications(ctx context.Context) error {
	user := a.requireRole(models.RoleFarmer, models.RoleAdmin)
	if user == nil {
		return nil
	}

	farmID := user.FarmID
	if user.CanonicalRole() == models.RoleAdmin {
		farmID = ""
	}
	feed, err := a.notifications.Feed(ctx, farmID)
	if err != nil {
		printlnFn("Failed to load notifications:", err.Error())
		return err
	}
	if len(feed) == 0 {
		printlnFn("Nothing new.")
		return nil
	}
	for _, n := range feed {
		printlnFn(fmt.Sprintf("[%s] %s", n.Kind, n.Text))
	}
	return nil
}
