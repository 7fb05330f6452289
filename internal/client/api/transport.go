package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/mkalvans/farmline/internal/common"
)

// Interceptor wraps an http.RoundTripper, the HTTP analog of a unary client
// interceptor chain.
type Interceptor func(http.RoundTripper) http.RoundTripper

// Chain applies interceptors to base so that the first interceptor is the
// outermost one.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		rt = interceptors[i](rt)
	}
	return rt
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// AuthInterceptor attaches "Authorization: Bearer <token>" to every request
// for which tokenSource yields a non-empty token. The token is read per
// request, so a login that happens after the client was built is picked up.
func AuthInterceptor(tokenSource func() string) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if token := tokenSource(); token != "" {
				clone := req.Clone(req.Context())
				clone.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
				return next.RoundTrip(clone)
			}
			return next.RoundTrip(req)
		})
	}
}

// isAuthPath reports whether the request path belongs to the auth surface.
// 401 responses there mean "bad credentials", not "session expired", and
// must not trigger session teardown.
func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth/")
}

// UnauthorizedWatcher invokes hook when a 401 response arrives from any
// endpoint outside the auth surface. The hook fires at most once per watcher
// lifetime: one teardown is enough, and concurrent in-flight requests must
// not stampede it.
type UnauthorizedWatcher struct {
	once sync.Once
	hook func()
}

func NewUnauthorizedWatcher(hook func()) *UnauthorizedWatcher {
	return &UnauthorizedWatcher{hook: hook}
}

// Reset re-arms the watcher, e.g. after a fresh login.
func (w *UnauthorizedWatcher) Reset() {
	w.once = sync.Once{}
}

// Interceptor returns the chain element performing the watching.
func (w *UnauthorizedWatcher) Interceptor() Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) && w.hook != nil {
				w.once.Do(w.hook)
			}
			return resp, nil
		})
	}
}
