// Package session owns the process-wide authentication state: the
// fused result of the OAuth provider identity and the backend-issued
// access token. The bridge is the only writer; everything else
// subscribes or reads snapshots.
package session

import (
	"sync"

	"satang/internal/core"
)

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticated
)

// State is an immutable snapshot of the session. Token, User and
// Profile are only meaningful when Status is StatusAuthenticated.
type State struct {
	Status  Status
	Token   string
	User    core.BackendUser
	Profile core.ProviderProfile
}

func Unauthenticated() State {
	return State{Status: StatusUnauthenticated}
}

func Authenticated(token string, user core.BackendUser, profile core.ProviderProfile) State {
	return State{
		Status:  StatusAuthenticated,
		Token:   token,
		User:    user,
		Profile: profile,
	}
}

// Publisher fans session transitions out to subscribers. Notifications
// are delivered synchronously in subscription order, so a transition
// has fully propagated by the time publish returns.
type Publisher struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
	order  []int
}

func NewPublisher() *Publisher {
	return &Publisher{
		state: Unauthenticated(),
		subs:  make(map[int]func(State)),
	}
}

// Current returns the latest published state.
func (p *Publisher) Current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers a listener for future transitions and returns an
// unsubscribe function. The current state is not replayed.
func (p *Publisher) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.order = append(p.order, id)
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Publish replaces the session state and notifies subscribers. The
// bridge is the session's only writer; nothing else may call this.
func (p *Publisher) Publish(state State) {
	p.mu.Lock()
	p.state = state
	fns := make([]func(State), 0, len(p.order))
	for _, id := range p.order {
		if fn, ok := p.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
