package resource

import (
	"context"
	"sync"

	"satang/internal/api"
	"satang/internal/core"
	"satang/internal/log"
	"satang/internal/profile"
)

const (
	msgOverviewFailed = "Failed to load the overview."
	msgListFailed     = "Failed to load transactions."
	msgDeleteFailed   = "Failed to delete the transaction."
	msgProfileFailed  = "Failed to load the profile."
	msgUpdateFailed   = "Failed to update settings."
)

// NewOverview builds the dashboard resource. The previous payload
// survives a failed refresh; the dashboard grays out instead of going
// blank.
func NewOverview(client *api.Client, token TokenFunc, logger *log.Logger) *Resource[core.Overview] {
	return New(Config{
		Name:           "overview",
		DefaultMessage: msgOverviewFailed,
		ClearOnFail:    false,
		Logger:         logger,
	}, token, client.Overview)
}

// Transactions is the list resource plus its delete mutation. Deleting
// keeps last-good data visible while a single item mutates.
type Transactions struct {
	*Resource[[]core.Transaction]

	client *api.Client
	token  TokenFunc

	mu       sync.Mutex
	updating bool
}

func NewTransactions(client *api.Client, token TokenFunc, logger *log.Logger) *Transactions {
	return &Transactions{
		Resource: New(Config{
			Name:           "transactions",
			DefaultMessage: msgListFailed,
			ClearOnFail:    true,
			Logger:         logger,
		}, token, client.Transactions),
		client: client,
		token:  token,
	}
}

// IsUpdating reports whether a delete is in flight. Distinct from
// IsLoading so the list keeps rendering during a mutation.
func (t *Transactions) IsUpdating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updating
}

// Delete removes one transaction. On success the item is dropped from
// the cached payload without a refetch; on failure the payload stays
// and only the error state changes.
func (t *Transactions) Delete(ctx context.Context, id int64) bool {
	token, ok := t.token()
	if !ok || token == "" || token == api.PlaceholderToken {
		t.setFailure(api.Classify(api.ErrNoToken, msgDeleteFailed))
		return false
	}

	t.mu.Lock()
	t.updating = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.updating = false
		t.mu.Unlock()
	}()

	if err := t.client.DeleteTransaction(ctx, token, id); err != nil {
		t.setFailure(api.Classify(err, msgDeleteFailed))
		return false
	}

	if snapshot := t.Snapshot(); snapshot.Data != nil {
		remaining := make([]core.Transaction, 0, len(*snapshot.Data))
		for _, tx := range *snapshot.Data {
			if tx.ID != id {
				remaining = append(remaining, tx)
			}
		}
		t.setData(remaining)
	}
	return true
}

// Profile is the settings resource. Reads go through the shared
// profile cache path; the update mutation feeds its response straight
// back into the cache so no redundant fetch is triggered.
type Profile struct {
	*Resource[core.ProfileSettings]

	client *api.Client
	token  TokenFunc
	cache  *profile.Cache

	mu       sync.Mutex
	updating bool
}

func NewProfile(client *api.Client, token TokenFunc, cache *profile.Cache, logger *log.Logger) *Profile {
	return &Profile{
		Resource: New(Config{
			Name:           "profile",
			DefaultMessage: msgProfileFailed,
			ClearOnFail:    true,
			Logger:         logger,
		}, token, client.Me),
		client: client,
		token:  token,
		cache:  cache,
	}
}

// IsUpdating reports whether a settings update is in flight.
func (p *Profile) IsUpdating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updating
}

// UpdateSettings applies a partial update. The response replaces both
// the resource payload and the shared cache copy.
func (p *Profile) UpdateSettings(ctx context.Context, update core.SettingsUpdate) bool {
	token, ok := p.token()
	if !ok || token == "" || token == api.PlaceholderToken {
		p.setFailure(api.Classify(api.ErrNoToken, msgUpdateFailed))
		return false
	}

	p.mu.Lock()
	p.updating = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.updating = false
		p.mu.Unlock()
	}()

	updated, err := p.client.UpdateSettings(ctx, token, update)
	if err != nil {
		p.setFailure(api.Classify(err, msgUpdateFailed))
		return false
	}

	p.setData(updated)
	if p.cache != nil {
		p.cache.Set(updated)
	}
	return true
}
