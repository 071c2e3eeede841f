package handlers_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake store implementing every handler-side store interface

type fakeUsersRepo struct {
	getFn     func(ctx context.Context, email string) (user.User, error)
	createFn  func(ctx context.Context, u user.User) error
	replaceFn func(ctx context.Context, email string, data onboarding.Data) (bool, error)
	appendFn  func(ctx context.Context, email string, e trend.Entry) (bool, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}

	return nil
}

func (f *fakeUsersRepo) ReplaceOnboarding(ctx context.Context, email string, data onboarding.Data) (bool, error) {
	if f.replaceFn != nil {
		return f.replaceFn(ctx, email, data)
	}

	return true, nil
}

func (f *fakeUsersRepo) AppendTrend(ctx context.Context, email string, e trend.Entry) (bool, error) {
	if f.appendFn != nil {
		return f.appendFn(ctx, email, e)
	}

	return true, nil
}

// Fake averages cache backed by a map

type fakeCache struct {
	mu          sync.Mutex
	items       map[string]trend.Averages
	gens        map[string]uint64
	getErr      error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]trend.Averages{}, gens: map[string]uint64{}}
}

func (c *fakeCache) Get(_ context.Context, email string) (trend.Averages, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return trend.Averages{}, false, c.getErr
	}

	avg, ok := c.items[email]
	return avg, ok, nil
}

func (c *fakeCache) Generation(_ context.Context, email string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gens[email], nil
}

func (c *fakeCache) Set(_ context.Context, avg trend.Averages, gen uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[avg.Email] == gen {
		c.items[avg.Email] = avg
	}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, email)
	c.gens[email]++
	c.invalidated = append(c.invalidated, email)
	return nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
