package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/bridge"
	"github.com/mkalvans/farmline/internal/client/config"
	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/realtime"
	"github.com/mkalvans/farmline/internal/client/repositories/cart"
	"github.com/mkalvans/farmline/internal/client/repositories/state"
	"github.com/mkalvans/farmline/internal/client/services"
	"github.com/mkalvans/farmline/internal/client/session"
	"github.com/mkalvans/farmline/internal/client/storage"
	"github.com/mkalvans/farmline/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the Farmline client together: local state database, optional
// Redis realtime backend, REST client, session store, services and the
// messaging bridge. It satisfies both execIface and session.Reactor.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	rdb     *redis.Client
	api     *api.RESTClient
	session *session.Store
	rt      realtime.Store

	catalog       services.CatalogService
	orders        services.OrderService
	users         services.UserService
	notifications services.NotificationService
	cartRepo      cart.Repository

	reader *bufio.Reader

	mu     sync.Mutex
	bridge *bridge.Bridge
}

// NewApp bootstraps the client. Redis being unreachable is not fatal: the
// client comes up with realtime disabled and every conversation degraded to
// REST history fetches.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	scope := storage.ParseScope(cfg.StorageScope)
	db, err := storage.OpenDatabase(ctx, scope, cfg.StateDir)
	if err != nil {
		return nil, err
	}

	medium := storage.NewSQLMedium(state.NewSQLiteRepository(db))
	cartRepo := cart.NewSQLiteRepository(db)

	// The instance ID keeps this process from reacting to its own
	// cross-instance broadcasts.
	origin := uuid.NewString()

	var (
		rdb         *redis.Client
		rt          realtime.Store
		broadcaster storage.Broadcaster = storage.NopBroadcaster{}
	)
	rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Warn(ctx, "redis unreachable, realtime features disabled", "addr", cfg.RedisAddr, "err", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		rt = realtime.NewRedisStore(rdb, cfg.OnlineTTL, log)
		if scope == storage.ScopeShared {
			broadcaster = storage.NewRedisBroadcaster(rdb, origin, log)
		}
	}

	app := &App{
		config:   cfg,
		log:      log,
		db:       db,
		rdb:      rdb,
		rt:       rt,
		cartRepo: cartRepo,
		reader:   bufio.NewReader(os.Stdin),
	}

	// The token source and 401 hook are bound to the app so the REST client
	// can be constructed before the session store that feeds it.
	apiClient := api.NewRESTClient(cfg.APIBaseURL,
		func() string { return app.currentToken() },
		func() { app.onUnauthorized() },
	)

	app.api = apiClient
	app.session = session.NewStore(apiClient, medium, broadcaster, cartRepo, scope, log)
	app.catalog = services.NewCatalogService(apiClient)
	app.orders = services.NewOrderService(apiClient, cartRepo)
	app.users = services.NewUserService(apiClient)
	app.notifications = services.NewNotificationService(apiClient)
	return app, nil
}

// Run bootstraps the persisted session, arms the cross-instance watcher and
// enters the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	if user := a.session.CurrentUser(); user != nil && a.session.IsAuthenticated(ctx) {
		printlnFn("Welcome back,", user.Name)
		a.openBridge(ctx)
	}

	stop, err := a.session.Watch(ctx, a)
	if err != nil {
		a.log.Warn(ctx, "session watcher unavailable", "err", err)
	} else {
		defer stop()
	}

	printlnFn("Farmline CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
	a.Close()
	return nil
}

// Close releases the bridge, the database and the Redis connection.
func (a *App) Close() {
	a.closeBridge()
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

// isLoggedIn requires both halves of the authenticated state: the in-memory
// identity and a persisted token. Identity alone (say, after an expired
// token was purged at bootstrap) presents the logged-out command set.
func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated(context.Background())
}

func (a *App) currentToken() string {
	if a.session == nil {
		return ""
	}
	return a.session.Token()
}

func (a *App) getStatus() string {
	user := a.session.CurrentUser()
	if user == nil {
		return ""
	}
	return "(" + user.Name + " " + string(user.CanonicalRole()) + ") "
}

// currentUser returns the identity or prints a hint when logged out.
func (a *App) currentUser() *models.Identity {
	user := a.session.CurrentUser()
	if user == nil {
		printlnFn("Please log in first.")
	}
	return user
}

// requireRole checks the current user against the allowed roles.
func (a *App) requireRole(roles ...models.Role) *models.Identity {
	user := a.currentUser()
	if user == nil {
		return nil
	}
	role := user.CanonicalRole()
	for _, r := range roles {
		if role == r {
			return user
		}
	}
	printlnFn("This command is not available for your role.")
	return nil
}

// openBridge builds a fresh bridge for the current identity and arms the
// account-wide streams. Any previous bridge is torn down first.
func (a *App) openBridge(ctx context.Context) {
	user := a.session.CurrentUser()
	if user == nil {
		return
	}
	a.closeBridge()

	b := bridge.New(a.api, a.rt, a.log, *user, bridge.WithTypingExpiry(a.config.TypingExpiry))
	b.Start(ctx)

	a.mu.Lock()
	a.bridge = b
	a.mu.Unlock()
}

func (a *App) closeBridge() {
	a.mu.Lock()
	b := a.bridge
	a.bridge = nil
	a.mu.Unlock()
	if b != nil {
		b.Close()
	}
}

func (a *App) currentBridge() *bridge.Bridge {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bridge
}

// onUnauthorized fires once per client lifetime when a protected endpoint
// answers 401: the session is torn down and the user sent back to login.
func (a *App) onUnauthorized() {
	ctx := context.Background()
	a.log.Warn(ctx, "server rejected credentials, ending session")
	a.session.HandleUnauthorized(ctx, a)
}

// Reload re-bootstraps the whole client from storage after another instance
// switched identities. The process analog of a full page reload.
func (a *App) Reload() {
	ctx := context.Background()
	a.closeBridge()
	if err := a.session.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "reload failed", "err", err)
		return
	}
	a.api.ResetUnauthorized()
	if user := a.session.CurrentUser(); user != nil {
		printlnFn("\nSession switched to", user.Name, "by another instance.")
		a.openBridge(ctx)
	} else {
		printlnFn("\nSession ended in another instance. Please log in.")
	}
}

// RedirectToLogin drops the user to the logged-out prompt.
func (a *App) RedirectToLogin() {
	a.closeBridge()
	printlnFn("\nYour session has ended. Please log in.")
}
