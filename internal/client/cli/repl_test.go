package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) ForgotPassword(ctx context.Context) error {
	f.record("forgot", nil)
	return nil
}
func (f *fakeExec) Products(ctx context.Context, args []string) error {
	f.record("products", args)
	return nil
}
func (f *fakeExec) Categories(ctx context.Context, args []string) error {
	f.record("categories", args)
	return nil
}
func (f *fakeExec) Farms(ctx context.Context, args []string) error {
	f.record("farms", args)
	return nil
}
func (f *fakeExec) Cart(ctx context.Context, args []string) error {
	f.record("cart", args)
	return nil
}
func (f *fakeExec) Checkout(ctx context.Context) error {
	f.record("checkout", nil)
	return nil
}
func (f *fakeExec) Orders(ctx context.Context, args []string) error {
	f.record("orders", args)
	return nil
}
func (f *fakeExec) Chat(ctx context.Context, args []string) error {
	f.record("chat", args)
	return nil
}
func (f *fakeExec) Users(ctx context.Context, args []string) error {
	f.record("users", args)
	return nil
}
func (f *fakeExec) Notifications(ctx context.Context) error {
	f.record("notifications", nil)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"products buy p1 2",
		"cart",
		"checkout",
		"chat u42",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "products", "cart", "checkout", "chat", "logout"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgsPassedThrough(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("chat user-7\nproducts show p3\nexit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.args) != 2 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	if exec.args[0][0] != "user-7" {
		t.Fatalf("chat args: %v", exec.args[0])
	}
	if exec.args[1][0] != "show" || exec.args[1][1] != "p3" {
		t.Fatalf("products args: %v", exec.args[1])
	}
}

func TestRunREPL_AliasAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("p\nquit\nnever-reached\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "products" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_EmptyLinesIgnored(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n\n   \nexit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
