package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/storage"
	"github.com/mkalvans/farmline/internal/common"
	"github.com/mkalvans/farmline/internal/logging"
)

// ---- fakes ----

// memMedium is an in-memory storage.Medium.
type memMedium struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemMedium() *memMedium { return &memMedium{m: make(map[string][]byte)} }

func (s *memMedium) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memMedium) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memMedium) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// fakeAPI implements the auth subset of api.Client used by the store.
// The embedded interface panics for anything a test does not expect.
type fakeAPI struct {
	api.Client

	loginCalls int
	loginRes   *api.AuthResult
	loginErr   error

	registerRes *api.AuthResult
	registerErr error

	forgotMsg string
	forgotErr error
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	f.loginCalls++
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
	return f.registerRes, f.registerErr
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	return f.forgotMsg, f.forgotErr
}

// fakeCart records Clear calls.
type fakeCart struct {
	cleared int
}

func (f *fakeCart) Add(context.Context, models.CartItem) error          { return nil }
func (f *fakeCart) List(context.Context) ([]models.CartItem, error)    { return nil, nil }
func (f *fakeCart) Remove(context.Context, string) error               { return nil }
func (f *fakeCart) Clear(context.Context) error                        { f.cleared++; return nil }

func newStore(t *testing.T, apiClient api.Client, scope storage.Scope) (*Store, *memMedium, *storage.MemoryBroadcaster, *fakeCart) {
	t.Helper()
	medium := newMemMedium()
	broadcaster := storage.NewMemoryBroadcaster("inst-1")
	cartRepo := &fakeCart{}
	s := NewStore(apiClient, medium, broadcaster, cartRepo, scope, logging.Nop())
	return s, medium, broadcaster, cartRepo
}

func okLogin(role string) *api.AuthResult {
	return &api.AuthResult{
		AccessToken: "tk-1",
		User:        models.Identity{ID: "u1", Name: "Anna", Email: "a@b.c", Role: role},
	}
}

// ---- login ----

func TestLogin_Success_AuthenticatedAfterNotBefore(t *testing.T) {
	f := &fakeAPI{loginRes: okLogin("buyer")}
	s, medium, _, _ := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	require.False(t, s.IsAuthenticated(ctx))

	landing, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	require.Equal(t, models.LandingShop, landing)

	require.True(t, s.IsAuthenticated(ctx))
	require.Equal(t, "u1", s.CurrentUser().ID)

	tk, err := medium.Get(ctx, common.StorageKeyToken)
	require.NoError(t, err)
	require.Equal(t, "tk-1", string(tk))
}

func TestLogin_LandingByRole(t *testing.T) {
	tests := []struct {
		role string
		want models.Landing
	}{
		{"admin", models.LandingAdmin},
		{"seller", models.LandingFarmer},
		{"farmer", models.LandingFarmer},
		{"buyer", models.LandingShop},
		{"customer", models.LandingShop},
		{"something-new", models.LandingShop},
	}

	for _, tc := range tests {
		f := &fakeAPI{loginRes: okLogin(tc.role)}
		s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

		landing, err := s.Login(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)
		require.Equal(t, tc.want, landing, "role=%q", tc.role)
	}
}

func TestLogin_ServerMessagePreserved(t *testing.T) {
	f := &fakeAPI{loginErr: &api.StatusError{Code: 401, Message: "invalid email or password"}}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, err := s.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	require.Equal(t, "invalid email or password", s.LastError())
}

func TestLogin_GenericMessageWhenServerGaveNone(t *testing.T) {
	f := &fakeAPI{loginErr: common.ErrUnavailable}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	require.Equal(t, "login failed", s.LastError())
}

func TestLogin_ValidationBlocksNetworkCall(t *testing.T) {
	f := &fakeAPI{loginRes: okLogin("buyer")}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, err := s.Login(context.Background(), "not-an-email", "pw")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, f.loginCalls)

	_, err = s.Login(context.Background(), "a@b.c", "")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, f.loginCalls)
}

func TestLogin_SuccessClearsErrorState(t *testing.T) {
	f := &fakeAPI{loginErr: &api.StatusError{Code: 401, Message: "nope"}}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, _ = s.Login(context.Background(), "a@b.c", "bad")
	require.NotEmpty(t, s.LastError())

	f.loginErr = nil
	f.loginRes = okLogin("buyer")
	_, err := s.Login(context.Background(), "a@b.c", "good")
	require.NoError(t, err)
	require.Empty(t, s.LastError())
}

// ---- register / forgot ----

func TestRegister_Success(t *testing.T) {
	f := &fakeAPI{registerRes: okLogin("seller")}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	landing, err := s.Register(context.Background(), api.RegisterRequest{
		Name:     "Anna",
		Email:    "a@b.c",
		UserType: "seller",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, models.LandingFarmer, landing)
	require.Equal(t, "u1", s.CurrentUser().ID)
}

func TestRegister_RejectsUnknownUserType(t *testing.T) {
	f := &fakeAPI{registerRes: okLogin("admin")}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, err := s.Register(context.Background(), api.RegisterRequest{
		Name:     "Eve",
		Email:    "e@b.c",
		UserType: "admin",
		Password: "secret1",
	})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestForgotPassword_DoesNotTouchSession(t *testing.T) {
	f := &fakeAPI{loginRes: okLogin("buyer"), forgotMsg: "reset email sent"}
	s, _, _, _ := newStore(t, f, storage.ScopeIsolated)

	_, err := s.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	msg, err := s.ForgotPassword(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.Equal(t, "reset email sent", msg)
	require.Equal(t, "u1", s.CurrentUser().ID)
	require.True(t, s.IsAuthenticated(context.Background()))
}

// ---- logout ----

func TestLogout_ClearsEverything(t *testing.T) {
	f := &fakeAPI{loginRes: okLogin("buyer")}
	s, medium, _, cartRepo := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	_, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))

	require.False(t, s.IsAuthenticated(ctx))
	require.Nil(t, s.CurrentUser())
	require.Equal(t, 1, cartRepo.cleared)

	for _, key := range []string{common.StorageKeyToken, common.StorageKeyIdentity} {
		v, err := medium.Get(ctx, key)
		require.NoError(t, err)
		require.Nil(t, v)
	}
}

// ---- bootstrap ----

func TestBootstrap_RestoresPersistedSession(t *testing.T) {
	f := &fakeAPI{}
	s, medium, _, _ := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	require.NoError(t, medium.Set(ctx, common.StorageKeyToken, []byte("tk-1")))
	require.NoError(t, medium.Set(ctx, common.StorageKeyIdentity, []byte(`{"id":"u1","name":"Anna","userType":"farmer"}`)))

	require.NoError(t, s.Bootstrap(ctx))
	require.True(t, s.IsAuthenticated(ctx))
	require.Equal(t, "u1", s.CurrentUser().ID)
	require.Equal(t, "tk-1", s.Token())
}

func TestBootstrap_CorruptIdentityPurged(t *testing.T) {
	f := &fakeAPI{}
	s, medium, _, _ := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	require.NoError(t, medium.Set(ctx, common.StorageKeyIdentity, []byte(`{not json`)))

	require.NoError(t, s.Bootstrap(ctx))
	require.Nil(t, s.CurrentUser())

	v, err := medium.Get(ctx, common.StorageKeyIdentity)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestBootstrap_ExpiredJWTPurged(t *testing.T) {
	f := &fakeAPI{}
	s, medium, _, _ := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, medium.Set(ctx, common.StorageKeyToken, []byte(signed)))
	require.NoError(t, s.Bootstrap(ctx))

	require.Empty(t, s.Token())
	v, err := medium.Get(ctx, common.StorageKeyToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestBootstrap_OpaqueTokenKept(t *testing.T) {
	f := &fakeAPI{}
	s, medium, _, _ := newStore(t, f, storage.ScopeShared)
	ctx := context.Background()

	require.NoError(t, medium.Set(ctx, common.StorageKeyToken, []byte("opaque-token")))
	require.NoError(t, s.Bootstrap(ctx))
	require.Equal(t, "opaque-token", s.Token())
}
