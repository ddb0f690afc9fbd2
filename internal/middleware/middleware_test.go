package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentx-admin/internal/domain"
	"rentx-admin/internal/session"
	"rentx-admin/pkg/utils/cache"
	xerrors "rentx-admin/pkg/utils/errors"
)

type fakeVerifier struct {
	calls atomic.Int32
	err   error
}

func (f *fakeVerifier) CurrentUser(context.Context) (*domain.User, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: "u1", Name: "Ada", Email: "ada@rentx.io"}, nil
}

type fixture struct {
	cache    *cache.Cache
	redis    *miniredis.Miniredis
	sessions *session.Manager
}

func newFixture(t *testing.T, verifyTTL time.Duration) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.Dial(mr.Addr(), "")
	t.Cleanup(func() { _ = c.Close() })
	m := session.NewManager(session.NewRedisStore(c), session.NewSigner("secret"), time.Hour, verifyTTL, zap.NewNop())
	return &fixture{cache: c, redis: mr, sessions: m}
}

// login creates a session and returns the cookies a browser would send back.
func (f *fixture) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	_, err := f.sessions.Create(context.Background(), w, httptest.NewRequest(http.MethodPost, "/login", nil),
		domain.SessionUser{Email: "ada@rentx.io"}, []*http.Cookie{{Name: "session", Value: "b"}})
	require.NoError(t, err)
	return w.Result().Cookies()
}

func withCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}

func shell() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("shell"))
	})
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	f := newFixture(t, 0)
	v := &fakeVerifier{}
	h := NewGate(f.sessions, v, zap.NewNop()).RequireSession(shell())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "shell")
	assert.Zero(t, v.calls.Load())
}

func TestGateRendersShellWhenBackendAccepts(t *testing.T) {
	f := newFixture(t, 0)
	v := &fakeVerifier{}
	h := NewGate(f.sessions, v, zap.NewNop()).RequireSession(shell())
	cookies := f.login(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "shell", w.Body.String())
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestGateFailsClosedOnBackendError(t *testing.T) {
	for _, backendErr := range []error{xerrors.ErrUnauthorized, xerrors.ErrBackendUnavailable, xerrors.ErrEmptyResponse} {
		f := newFixture(t, 0)
		v := &fakeVerifier{err: backendErr}
		h := NewGate(f.sessions, v, zap.NewNop()).RequireSession(shell())
		cookies := f.login(t)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/customers", nil), cookies))

		assert.Equal(t, http.StatusSeeOther, w.Code, backendErr.Error())
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.NotContains(t, w.Body.String(), "shell")

		// The session is gone: the next request does not reach the backend again.
		w = httptest.NewRecorder()
		h.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/customers", nil), cookies))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, int32(1), v.calls.Load())
	}
}

func TestGateCachesVerification(t *testing.T) {
	f := newFixture(t, time.Minute)
	v := &fakeVerifier{}
	h := NewGate(f.sessions, v, zap.NewNop()).RequireSession(shell())
	cookies := f.login(t)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, withCookies(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies))
		require.Equal(t, http.StatusOK, w.Code)
	}
	// Sessions are verified at login, so the window is still open.
	assert.Zero(t, v.calls.Load())
}

func TestGateAnswersJSONCallersWith401(t *testing.T) {
	f := newFixture(t, 0)
	h := NewGate(f.sessions, &fakeVerifier{}, zap.NewNop()).RequireSession(shell())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/anything", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"unauthorized"}`, w.Body.String())
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	f := newFixture(t, 0)
	var blocked int
	onBlocked := func(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
		blocked++
		w.WriteHeader(http.StatusTooManyRequests)
	}
	h := RateLimiter(f.cache, 2, time.Minute, 10*time.Minute, "login_rate", onBlocked, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429}, codes)
	assert.Equal(t, 2, blocked)
	assert.True(t, f.redis.Exists("login_rate:ip:10.0.0.7:blocked"))

	// Other clients are unaffected.
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.RemoteAddr = "10.0.0.8:5555"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterIgnoresForwardingHeaders(t *testing.T) {
	f := newFixture(t, 0)
	h := RateLimiter(f.cache, 2, time.Minute, 10*time.Minute, "login_rate", nil, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = "10.0.0.9:5555"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		r.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429}, codes)
	assert.True(t, f.redis.Exists("login_rate:ip:10.0.0.9:blocked"))
}

func TestGuardRejectsDuplicateInFlightSubmission(t *testing.T) {
	f := newFixture(t, time.Minute)
	cookies := f.login(t)
	gate := NewGate(f.sessions, &fakeVerifier{}, zap.NewNop())
	guard := NewGuard(f.cache, f.sessions, time.Minute, zap.NewNop())

	entered := make(chan struct{})
	release := make(chan struct{})
	var writes atomic.Int32
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writes.Add(1)
		close(entered)
		<-release
		http.Redirect(w, r, "/facilities", http.StatusSeeOther)
	})
	h := gate.RequireSession(guard.Once("/facilities")(slow))

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(first, withCookies(httptest.NewRequest(http.MethodPost, "/facilities/f1/delete", nil), cookies))
	}()
	<-entered

	second := httptest.NewRecorder()
	h.ServeHTTP(second, withCookies(httptest.NewRequest(http.MethodPost, "/facilities/f1/delete", nil), cookies))
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, "/facilities", second.Header().Get("Location"))

	close(release)
	<-done
	assert.Equal(t, int32(1), writes.Load())

	s, err := f.sessions.Load(context.Background(), withCookies(httptest.NewRequest(http.MethodGet, "/", nil), cookies))
	require.NoError(t, err)
	require.NotNil(t, s.Flash)
	assert.Equal(t, MsgActionInProgress, s.Flash.Message)

	// Once the first submission finished the lock is free again.
	assert.False(t, f.redis.Exists("dashboard_submit_guard:"+s.ID+":POST:/facilities/f1/delete"))
}
