package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
	"github.com/mkalvans/farmline/internal/client/repositories/cart"
	"github.com/mkalvans/farmline/internal/client/storage"
	"github.com/mkalvans/farmline/internal/common"
	"github.com/mkalvans/farmline/internal/logging"
)

// Credentials is the login payload, validated before any network call.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Store owns the authenticated identity and its persistence.
type Store struct {
	api         api.Client
	medium      storage.Medium
	broadcaster storage.Broadcaster
	cart        cart.Repository
	scope       storage.Scope
	log         logging.Logger
	validate    *validator.Validate

	mu       sync.RWMutex
	identity *models.Identity
	token    string
	lastErr  string
}

// NewStore builds a session store. broadcaster may be NopBroadcaster in
// isolated scope; cartRepo may be nil when the caller has no cart to clear.
func NewStore(apiClient api.Client, medium storage.Medium, broadcaster storage.Broadcaster,
	cartRepo cart.Repository, scope storage.Scope, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		api:         apiClient,
		medium:      medium,
		broadcaster: broadcaster,
		cart:        cartRepo,
		scope:       scope,
		log:         log,
		validate:    validator.New(),
	}
}

// Bootstrap loads persisted session state into memory. Corrupt entries are
// treated as absent and purged; a bearer token that is a JWT with an already
// passed expiry is likewise treated as absent.
func (s *Store) Bootstrap(ctx context.Context) error {
	raw, err := s.medium.Get(ctx, common.StorageKeyIdentity)
	if err != nil {
		return fmt.Errorf("failed to read persisted identity: %w", err)
	}

	var identity *models.Identity
	if len(raw) > 0 {
		var id models.Identity
		if err := json.Unmarshal(raw, &id); err != nil {
			s.log.Warn(ctx, "purging corrupt persisted identity", "err", err)
			_ = s.medium.Delete(ctx, common.StorageKeyIdentity)
		} else {
			identity = &id
		}
	}

	rawToken, err := s.medium.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return fmt.Errorf("failed to read persisted token: %w", err)
	}
	token := string(rawToken)
	if token != "" && tokenExpired(token) {
		s.log.Info(ctx, "persisted token expired, purging")
		_ = s.medium.Delete(ctx, common.StorageKeyToken)
		token = ""
	}

	s.mu.Lock()
	s.identity = identity
	s.token = token
	s.mu.Unlock()
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque (non-JWT) tokens are never considered expired client-side.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

// Login authenticates against the backend and, on success, replaces the
// persisted and in-memory session wholesale. It returns the landing area for
// the user's canonical role. On failure the textual error state is set and
// the error returned so the caller can also react.
func (s *Store) Login(ctx context.Context, email, password string) (models.Landing, error) {
	if err := s.validate.Struct(Credentials{Email: email, Password: password}); err != nil {
		s.setError("email and password are required")
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.setError(failureMessage(err, "login failed"))
		return "", err
	}
	return s.adopt(ctx, res)
}

// Register creates an account and logs the new user in, same contract as
// Login.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) (models.Landing, error) {
	if err := s.validate.Struct(req); err != nil {
		s.setError("registration details are incomplete")
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	res, err := s.api.Register(ctx, req)
	if err != nil {
		s.setError(failureMessage(err, "registration failed"))
		return "", err
	}
	return s.adopt(ctx, res)
}

// adopt persists and installs a fresh session returned by the backend.
func (s *Store) adopt(ctx context.Context, res *api.AuthResult) (models.Landing, error) {
	identityJSON, err := json.Marshal(res.User)
	if err != nil {
		return "", fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := s.medium.Set(ctx, common.StorageKeyToken, []byte(res.AccessToken)); err != nil {
		return "", err
	}
	if err := s.medium.Set(ctx, common.StorageKeyIdentity, identityJSON); err != nil {
		return "", err
	}

	user := res.User
	s.mu.Lock()
	s.identity = &user
	s.token = res.AccessToken
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.broadcaster.Publish(ctx, storage.Event{
		Kind:   storage.EventIdentityChanged,
		UserID: user.ID,
	}); err != nil {
		s.log.Warn(ctx, "failed to announce login", "err", err)
	}

	return models.LandingFor(user.CanonicalRole()), nil
}

// ForgotPassword requests a reset email. Session state is not touched.
func (s *Store) ForgotPassword(ctx context.Context, email string) (string, error) {
	msg, err := s.api.ForgotPassword(ctx, email)
	if err != nil {
		s.setError(failureMessage(err, "password reset request failed"))
		return "", err
	}
	return msg, nil
}

// Logout clears the persisted token, identity and cart, then the in-memory
// identity. It does not navigate; the interactive layer reacts to the
// returned state.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.purgePersisted(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.broadcaster.Publish(ctx, storage.Event{Kind: storage.EventSessionEnded}); err != nil {
		s.log.Warn(ctx, "failed to announce logout", "err", err)
	}
	return nil
}

func (s *Store) purgePersisted(ctx context.Context) error {
	var errs []error
	if err := s.medium.Delete(ctx, common.StorageKeyToken); err != nil {
		errs = append(errs, err)
	}
	if err := s.medium.Delete(ctx, common.StorageKeyIdentity); err != nil {
		errs = append(errs, err)
	}
	if s.cart != nil {
		if err := s.cart.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CurrentUser returns the in-memory identity; it never reads storage.
func (s *Store) CurrentUser() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token returns the current bearer token for the HTTP auth interceptor.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a non-empty token exists in storage AND an
// in-memory identity is set. Both are required: a stale token without
// identity, or identity without token, is not authenticated.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()
	if identity == nil {
		return false
	}

	raw, err := s.medium.Get(ctx, common.StorageKeyToken)
	if err != nil {
		s.log.Warn(ctx, "failed to read token from storage", "err", err)
		return false
	}
	return len(raw) > 0
}

// LastError returns the captured textual error state for the calling screen.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// failureMessage prefers the server-supplied message and falls back to a
// generic one.
func failureMessage(err error, fallback string) string {
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
