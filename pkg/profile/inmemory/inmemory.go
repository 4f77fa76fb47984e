// Package inmemory provides a volatile, process-local profile store.
// Contents are lost on restart; this driver backs local development and the
// degraded path of the fallback store.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/celestio/astromcp/pkg/profile"
)

// Driver implements profile.Store using an in-memory map.
type Driver struct {
	// mu guards the profiles map; saves and loads come from concurrent
	// request handlers.
	mu sync.RWMutex

	// profiles maps profile ID to the stored record.
	profiles map[string]*profile.Profile
}

// NewDriver creates a new in-memory profile store.
func NewDriver() *Driver {
	return &Driver{
		profiles: make(map[string]*profile.Profile),
	}
}

// Save stores a profile. Saving an existing ID is an idempotent overwrite;
// IDs are content-derived so the record is identical.
func (d *Driver) Save(_ context.Context, p *profile.Profile) error {
	if p == nil {
		return errors.New("cannot store nil profile")
	}
	if p.ID == "" {
		return errors.New("cannot store profile without ID")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.profiles[p.ID] = p
	return nil
}

// Load retrieves a profile by its ID.
func (d *Driver) Load(_ context.Context, id string) (*profile.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.profiles[id]
	if !ok {
		return nil, profile.NotFoundError{ID: id}
	}

	return p, nil
}

// Count returns the number of stored profiles.
func (d *Driver) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.profiles)
}

// Close is a no-op for the in-memory store.
func (d *Driver) Close() error {
	return nil
}

var _ profile.Store = (*Driver)(nil)
