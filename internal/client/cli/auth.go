package cli

import (
	"context"
	"os"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// landingBanner maps the post-login landing area to the banner shown in
// place of a page redirect.
func landingBanner(l models.Landing) string {
	switch l {
	case models.LandingAdmin:
		return "Logged in. Admin tools available: users, categories, orders."
	case models.LandingFarmer:
		return "Logged in. Farm tools available: products, orders, notifications, chat."
	default:
		return "Logged in. Happy shopping: products, cart, checkout, chat."
	}
}

// Login prompts for credentials and authenticates. On success the 401 watcher
// is re-armed and the messaging bridge reopened for the new identity.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	landing, err := a.session.Login(ctx, email, password)
	if err != nil {
		printlnFn("Login failed:", a.session.LastError())
		return err
	}

	a.api.ResetUnauthorized()
	a.openBridge(ctx)
	printlnFn(landingBanner(landing))
	return nil
}

// Register prompts for the registration fields and creates an account. The
// server logs the new user in immediately, same as Login.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", os.Stdout)
	if err != nil {
		return err
	}
	userType, err := getSimpleText(a.reader, "Account type (buyer/seller)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	landing, err := a.session.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		UserType: userType,
		Password: password,
	})
	if err != nil {
		printlnFn("Registration failed:", a.session.LastError())
		return err
	}

	a.api.ResetUnauthorized()
	a.openBridge(ctx)
	printlnFn(landingBanner(landing))
	return nil
}

// ForgotPassword requests a reset for the given email and relays the
// server's confirmation text.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	msg, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		printlnFn("Request failed:", a.session.LastError())
		return err
	}
	printlnFn(msg)
	return nil
}

// Logout destroys the local session, including the persisted cart, and
// closes the messaging bridge.
func (a *App) Logout(ctx context.Context) error {
	a.closeBridge()
	if err := a.session.Logout(ctx); err != nil {
		printlnFn("Logout finished with errors:", err.Error())
		return err
	}
	a.api.ResetUnauthorized()
	printlnFn("Logged out.")
	return nil
}
