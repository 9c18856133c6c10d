package user

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rail44/roster/internal/api"
	"github.com/rail44/roster/internal/log"
)

// Source fetches the raw users response
type Source interface {
	FetchAll(ctx context.Context) (*api.Response, error)
}

// Factory caches users by record id. Entries are only ever added.
type Factory struct {
	source Source
	logger log.Logger

	mu    sync.RWMutex
	users map[ID]*User
	order []ID
}

// NewFactory creates a factory reading from source. source may be nil when
// users only come from Collect.
func NewFactory(source Source) *Factory {
	return &Factory{
		source: source,
		logger: log.Default(),
		users:  make(map[ID]*User),
	}
}

// SetLogger replaces the logger used to report fetch failures
func (f *Factory) SetLogger(l log.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = l
}

func (f *Factory) log() log.Logger {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.logger
}

// Collect maps each record to its cached user, creating it on first sight.
// The result is in input order; repeated ids map to the same *User.
func (f *Factory) Collect(records []Record) []*User {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*User, len(records))
	for i, rec := range records {
		u, ok := f.users[rec.ID]
		if !ok {
			u = New(rec)
			f.users[rec.ID] = u
			f.order = append(f.order, rec.ID)
		}
		users[i] = u
	}
	return users
}

// Fetch retrieves all users from the source and collects them
func (f *Factory) Fetch(ctx context.Context) ([]*User, error) {
	if f.source == nil {
		return nil, fmt.Errorf("no source configured")
	}

	resp, err := f.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		return nil, err
	}

	users := f.Collect(records)
	f.log().Debug("collected users", slog.Int("received", len(records)), slog.Int("cached", f.Len()))
	return users, nil
}

// FetchAll is Fetch that never fails: errors are logged and nil is returned.
func (f *Factory) FetchAll(ctx context.Context) []*User {
	users, err := f.Fetch(ctx)
	if err != nil {
		f.log().Error("failed to fetch users", slog.String("error", err.Error()))
		return nil
	}
	return users
}

// Get returns the cached user for id
func (f *Factory) Get(id ID) (*User, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	return u, ok
}

// Users returns every cached user in first-seen order
func (f *Factory) Users() []*User {
	f.mu.RLock()
	defer f.mu.RUnlock()

	users := make([]*User, len(f.order))
	for i, id := range f.order {
		users[i] = f.users[id]
	}
	return users
}

// Len returns the number of cached users
func (f *Factory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.users)
}
