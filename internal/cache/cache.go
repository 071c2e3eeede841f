package cache

import (
	"context"
	"sync"
	"time"

	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/eliteprep/eliteprep-api/internal/utils"
)

// Memory is a per-process TTL cache of computed averages. Every key carries a
// generation that Invalidate bumps; Set only stores when the generation the
// caller read before loading the user is still current.
type Memory struct {
	mu   sync.RWMutex
	ttl  time.Duration
	m    map[string]entry
	gens map[string]uint64
	now  func() time.Time
}

type entry struct {
	val trend.Averages
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:    make(map[string]entry),
		gens: make(map[string]uint64),
		now:  time.Now,
	}
}

func (c *Memory) Get(_ context.Context, email string) (trend.Averages, bool, error) {
	key := utils.AveragesCacheKey(email)
	now := c.now()

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return trend.Averages{}, false, nil
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return trend.Averages{}, false, nil
	}

	return e.val, true, nil
}

func (c *Memory) Generation(_ context.Context, email string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.gens[utils.AveragesCacheKey(email)], nil
}

// Set drops avg when the key was invalidated after gen was read.
func (c *Memory) Set(_ context.Context, avg trend.Averages, gen uint64) error {
	key := utils.AveragesCacheKey(avg.Email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		return nil
	}
	c.m[key] = entry{val: avg, exp: c.now().Add(c.ttl)}
	return nil
}

func (c *Memory) Invalidate(_ context.Context, email string) error {
	key := utils.AveragesCacheKey(email)

	c.mu.Lock()
	delete(c.m, key)
	c.gens[key]++
	c.mu.Unlock()
	return nil
}

// Clear drops every entry. Generations survive so in-flight reads stay fenced.
func (c *Memory) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.mu.Unlock()
}
