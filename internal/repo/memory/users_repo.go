package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/domain/user"
)

// UsersRepo keeps users in process. It mirrors the document store's
// modified-count behaviour: replacing onboarding data with an equal value is
// reported as no change.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[u.Email]; ok {
		return user.ErrEmailTaken
	}

	r.items[u.Email] = clone(u)
	return nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return clone(u), nil
}

func (r *UsersRepo) ReplaceOnboarding(_ context.Context, email string, data onboarding.Data) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[email]
	if !ok {
		return false, user.ErrNotFound
	}

	if u.Onboarding != nil && u.Onboarding.Equal(data) {
		return false, nil
	}

	d := data
	d.Sport = slices.Clone(data.Sport)
	u.Onboarding = &d
	r.items[email] = u

	return true, nil
}

func (r *UsersRepo) AppendTrend(_ context.Context, email string, e trend.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[email]
	if !ok {
		return false, user.ErrNotFound
	}

	// a fresh backing array keeps previously returned clones untouched
	u.PerformanceTrends = append(slices.Clip(u.PerformanceTrends), e)
	r.items[email] = u

	return true, nil
}

// Put stores u as is, overwriting any record with the same email. It exists
// for seeding records in shapes registration never produces, such as a user
// without a trend list.
func (r *UsersRepo) Put(u user.User) {
	r.mu.Lock()
	r.items[u.Email] = clone(u)
	r.mu.Unlock()
}

func (r *UsersRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *UsersRepo) Ping(context.Context) error { return nil }

func clone(u user.User) user.User {
	out := u
	if u.Onboarding != nil {
		d := *u.Onboarding
		d.Sport = slices.Clone(u.Onboarding.Sport)
		out.Onboarding = &d
	}
	if u.PerformanceTrends != nil {
		out.PerformanceTrends = slices.Clone(u.PerformanceTrends)
	}
	return out
}
