package cli

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/session"
	"github.com/mkalvans/farmline/internal/client/storage"
	"github.com/mkalvans/farmline/internal/common"
)

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
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memMedium) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func TestIsLoggedInRequiresPersistedToken(t *testing.T) {
	ctx := context.Background()
	med := newMemMedium()

	raw, err := json.Marshal(models.Identity{ID: "u1", Name: "Anna", Role: "customer"})
	require.NoError(t, err)
	require.NoError(t, med.Set(ctx, common.StorageKeyIdentity, raw))

	sess := session.NewStore(nil, med, storage.NopBroadcaster{}, nil, storage.ScopeIsolated, nil)
	require.NoError(t, sess.Bootstrap(ctx))

	app := &App{session: sess}

	// Identity survived bootstrap but the token is gone: the prompt still
	// shows who we were, yet authenticated commands must not unlock.
	require.NotNil(t, sess.CurrentUser())
	require.False(t, app.isLoggedIn())

	require.NoError(t, med.Set(ctx, common.StorageKeyToken, []byte("opaque-token")))
	require.NoError(t, sess.Bootstrap(ctx))
	require.True(t, app.isLoggedIn())
}
