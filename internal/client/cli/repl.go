package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Products(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	Farms(ctx context.Context, args []string) error
	Cart(ctx context.Context, args []string) error
	Checkout(ctx context.Context) error
	Orders(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error
	Notifications(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Browsing commands (products, categories, farms) work logged out; anything
// touching the account requires a session. Errors returned by command
// handlers are ignored here; handlers print their own errors. This keeps
// the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("farmline %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (p)roducts, categories, farms, cart, checkout, orders, chat <user-id>, users, notifications, logout, exit")
			} else {
				printlnFn("Available commands: login, register, forgot, (p)roducts, categories, farms, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "p", "products":
			_ = a.Products(ctx, args)

		case "categories":
			_ = a.Categories(ctx, args)

		case "farms":
			_ = a.Farms(ctx, args)

		case "cart":
			_ = a.Cart(ctx, args)

		case "checkout":
			_ = a.Checkout(ctx)

		case "orders":
			_ = a.Orders(ctx, args)

		case "chat":
			_ = a.Chat(ctx, args)

		case "users":
			_ = a.Users(ctx, args)

		case "notifications":
			_ = a.Notifications(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
