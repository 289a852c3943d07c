// Package resource implements the shape shared by every authenticated
// data view: wait for a token, issue an authorized request, classify
// failures through the shared taxonomy, and expose the result as
// observable state instead of thrown errors.
package resource

import (
	"context"
	"sync"

	"satang/internal/api"
	"satang/internal/log"
	"satang/internal/session"
	"satang/internal/tokenstore"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

// TokenFunc supplies the current bearer token. Resources never own
// tokens; they read whatever the session or store currently holds.
type TokenFunc func() (string, bool)

// FromSession reads the token from live session state.
func FromSession(publisher *session.Publisher) TokenFunc {
	return func() (string, bool) {
		state := publisher.Current()
		if state.Status != session.StatusAuthenticated || state.Token == "" {
			return "", false
		}
		return state.Token, true
	}
}

// FromStore reads the token from the durable store, for consumers that
// need it before the session has rehydrated.
func FromStore(store *tokenstore.Store) TokenFunc {
	return store.Token
}

// Snapshot is the externally visible resource state.
type Snapshot[T any] struct {
	Phase Phase
	Data  *T
	Error string
	Kind  api.Kind
}

// Resource runs the Idle -> Loading -> Ready|Failed machine for one
// typed payload. Refetch re-enters Loading from either terminal phase.
type Resource[T any] struct {
	name        string
	token       TokenFunc
	fetchFn     func(context.Context, string) (T, error)
	defaultMsg  string
	clearOnFail bool
	logger      *log.Logger

	mu     sync.Mutex
	phase  Phase
	data   *T
	errMsg string
	kind   api.Kind
}

// Config controls a resource instance.
type Config struct {
	// Name identifies the resource in logs.
	Name string

	// DefaultMessage is the Unknown-kind fallback for this resource.
	DefaultMessage string

	// ClearOnFail drops the previous payload when a fetch fails, so
	// stale data is never shown under an error banner.
	ClearOnFail bool

	Logger *log.Logger
}

func New[T any](cfg Config, token TokenFunc, fetch func(context.Context, string) (T, error)) *Resource[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentResource})
	}
	return &Resource[T]{
		name:        cfg.Name,
		token:       token,
		fetchFn:     fetch,
		defaultMsg:  cfg.DefaultMessage,
		clearOnFail: cfg.ClearOnFail,
		logger:      logger.WithComponent(log.ComponentResource).With(log.FieldResource, cfg.Name),
	}
}

// Refetch drives one fetch cycle. Without a token the resource fails
// with NoToken immediately and nothing is sent.
func (r *Resource[T]) Refetch(ctx context.Context) {
	token, ok := r.token()
	if !ok || token == "" || token == api.PlaceholderToken {
		r.fail(api.Classify(api.ErrNoToken, r.defaultMsg), r.clearOnFail)
		return
	}

	r.mu.Lock()
	r.phase = PhaseLoading
	r.errMsg = ""
	r.mu.Unlock()

	data, err := r.fetchFn(ctx, token)
	if err != nil {
		r.fail(api.Classify(err, r.defaultMsg), r.clearOnFail)
		r.logger.Warn("Resource fetch failed", log.FieldError, err.Error())
		return
	}

	r.mu.Lock()
	r.phase = PhaseReady
	r.data = &data
	r.errMsg = ""
	r.kind = api.KindUnknown
	r.mu.Unlock()
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{Phase: r.phase, Data: r.data, Error: r.errMsg, Kind: r.kind}
}

// IsLoading reports whether a fetch is in progress.
func (r *Resource[T]) IsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase == PhaseLoading
}

func (r *Resource[T]) fail(classified api.ClassifiedError, clearData bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseFailed
	r.errMsg = classified.Message
	r.kind = classified.Kind
	if clearData {
		r.data = nil
	}
}

// setData replaces the payload in place, for mutations whose response
// already carries the fresh state.
func (r *Resource[T]) setData(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseReady
	r.data = &data
	r.errMsg = ""
	r.kind = api.KindUnknown
}

// setFailure records a mutation failure without touching the payload,
// so a list keeps showing its last-good data while one item fails.
func (r *Resource[T]) setFailure(classified api.ClassifiedError) {
	r.fail(classified, false)
}
