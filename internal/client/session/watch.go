package session

import (
	"context"

	"github.com/mkalvans/farmline/internal/client/storage"
)

// Reactor receives the resynchronization reactions of the cross-instance
// protocol. Reload re-bootstraps the whole client from storage (the analog
// of a full page reload); RedirectToLogin drops the user to the login entry
// point.
type Reactor interface {
	Reload()
	RedirectToLogin()
}

// Watch subscribes to cross-instance session events and applies the
// reload-or-redirect policy:
//
//   - another instance logged in as a different user → Reload
//   - another instance ended the session → purge local state, RedirectToLogin
//
// No partial state is ever merged. In isolated scope Watch is a no-op and
// the returned stop function does nothing.
func (s *Store) Watch(ctx context.Context, reactor Reactor) (func(), error) {
	if s.scope != storage.ScopeShared {
		return func() {}, nil
	}

	return s.broadcaster.Subscribe(ctx, func(ev storage.Event) {
		switch ev.Kind {
		case storage.EventIdentityChanged:
			current := s.CurrentUser()
			if current == nil || current.ID != ev.UserID {
				s.log.Info(ctx, "identity changed in another instance, reloading", "user", ev.UserID)
				reactor.Reload()
			}
		case storage.EventSessionEnded:
			s.log.Info(ctx, "session ended in another instance")
			s.HandleUnauthorized(ctx, reactor)
		}
	})
}

// HandleUnauthorized tears the session down after a 401 on a protected
// endpoint or a foreign logout: persisted state is purged, in-memory
// identity cleared, and the reactor sent to the login entry point.
func (s *Store) HandleUnauthorized(ctx context.Context, reactor Reactor) {
	if err := s.purgePersisted(ctx); err != nil {
		s.log.Warn(ctx, "failed to purge session state", "err", err)
	}

	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()

	reactor.RedirectToLogin()
}
