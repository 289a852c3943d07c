// Package profile is the single authoritative accessor for the
// authenticated user's profile. Every consumer goes through the cache;
// concurrent fetches collapse into one request system-wide.
package profile

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"satang/internal/api"
	"satang/internal/core"
	"satang/internal/log"
	"satang/internal/session"
	"satang/internal/tokenstore"
)

const fetchKey = "profile"

const fallbackMessage = "Failed to load profile."

// Snapshot is the cache state consumers observe.
type Snapshot struct {
	Profile *core.ProfileSettings
	Loading bool
	Error   string
}

type Cache struct {
	api    *api.Client
	store  *tokenstore.Store
	logger *log.Logger

	group singleflight.Group

	mu      sync.Mutex
	profile *core.ProfileSettings
	loading bool
	errMsg  string
	nextID  int
	subs    map[int]func(Snapshot)
}

func New(client *api.Client, store *tokenstore.Store, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentProfile})
	}
	return &Cache{
		api:    client,
		store:  store,
		logger: logger.WithComponent(log.ComponentProfile),
		subs:   make(map[int]func(Snapshot)),
	}
}

// Attach subscribes the cache to session transitions: authenticated
// triggers a fetch, unauthenticated clears everything immediately so a
// stale profile is never shown for a signed-out identity.
func (c *Cache) Attach(publisher *session.Publisher) func() {
	return publisher.Subscribe(func(state session.State) {
		switch state.Status {
		case session.StatusAuthenticated:
			go func() {
				_ = c.Fetch(context.Background())
			}()
		case session.StatusUnauthenticated:
			c.clear()
		}
	})
}

// Prime fetches the profile if a token is already stored, covering the
// cold-start path before any session transition arrives.
func (c *Cache) Prime(ctx context.Context) error {
	if _, ok := c.store.Token(); !ok {
		return nil
	}
	return c.Fetch(ctx)
}

// Fetch loads the profile. If a fetch is already in flight the caller
// shares its outcome instead of issuing a second request; the in-flight
// marker clears only once the request settles.
func (c *Cache) Fetch(ctx context.Context) error {
	_, err, _ := c.group.Do(fetchKey, func() (any, error) {
		return nil, c.fetch(ctx)
	})
	return err
}

// Refresh forces a re-fetch, e.g. after a settings update elsewhere.
func (c *Cache) Refresh(ctx context.Context) error {
	return c.Fetch(ctx)
}

// Set replaces the cached profile directly. Used when an update call
// already returned the fresh profile, so no redundant fetch is needed.
func (c *Cache) Set(profile core.ProfileSettings) {
	c.mu.Lock()
	c.profile = &profile
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
}

// Snapshot returns the current cache state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Profile: c.profile, Loading: c.loading, Error: c.errMsg}
}

// Subscribe registers a listener for cache changes and returns an
// unsubscribe function.
func (c *Cache) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Cache) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		c.notify()
	}()

	token, ok := c.store.Token()
	if !ok {
		c.mu.Lock()
		c.profile = nil
		c.mu.Unlock()
		return nil
	}

	fetched, err := c.api.Me(ctx, token)
	if err != nil {
		msg := failureMessage(err)
		c.mu.Lock()
		c.profile = nil
		c.errMsg = msg
		c.mu.Unlock()
		c.logger.Warn("Profile fetch failed", log.FieldOperation, log.OpFetch, log.FieldError, err.Error())
		return err
	}

	c.mu.Lock()
	c.profile = &fetched
	c.errMsg = ""
	c.mu.Unlock()
	c.logger.Debug("Profile fetched", log.FieldUserID, fetched.ID)
	return nil
}

func (c *Cache) clear() {
	c.mu.Lock()
	c.profile = nil
	c.errMsg = ""
	c.loading = false
	c.mu.Unlock()
	c.notify()
}

func (c *Cache) notify() {
	c.mu.Lock()
	snapshot := Snapshot{Profile: c.profile, Loading: c.loading, Error: c.errMsg}
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// failureMessage prefers the backend-provided detail, then the raw
// transport message, then a generic fallback.
func failureMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Detail != "" {
		return statusErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallbackMessage
}
