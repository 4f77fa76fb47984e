// Package fallback composes a remote profile store with the volatile
// in-memory store. The historical behavior was to silently degrade to
// in-memory storage whenever the remote store failed a write; that policy is
// now explicit and configurable.
package fallback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/celestio/astromcp/pkg/profile"
)

// Policy controls how the store reacts to a primary write failure.
type Policy string

const (
	// PolicyDegrade logs the primary failure and writes to the volatile
	// fallback instead. Data written this way is lost on restart.
	PolicyDegrade Policy = "degrade"

	// PolicyStrict fails the request when the primary store fails.
	PolicyStrict Policy = "strict"
)

// Store wraps a primary (remote) profile store with an in-memory fallback.
type Store struct {
	primary  profile.Store
	fallback profile.Store
	policy   Policy
	logger   *slog.Logger
}

// New creates a fallback store. Both stores are required; policy defaults
// to PolicyDegrade when empty.
func New(primary, fb profile.Store, policy Policy, logger *slog.Logger) (*Store, error) {
	if primary == nil {
		return nil, errors.New("primary store is required")
	}
	if fb == nil {
		return nil, errors.New("fallback store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if policy == "" {
		policy = PolicyDegrade
	}

	return &Store{
		primary:  primary,
		fallback: fb,
		policy:   policy,
		logger:   logger,
	}, nil
}

// Save writes to the primary store. Under PolicyDegrade a primary failure
// falls through to the in-memory store so registration still succeeds;
// under PolicyStrict the failure is returned.
func (s *Store) Save(ctx context.Context, p *profile.Profile) error {
	err := s.primary.Save(ctx, p)
	if err == nil {
		return nil
	}

	if s.policy == PolicyStrict {
		return err
	}

	s.logger.Warn("primary profile store failed, degrading to in-memory storage",
		"profile_id", p.ID,
		"error", err,
	)

	return s.fallback.Save(ctx, p)
}

// Load consults the primary store first and falls back to the in-memory
// store. A profile that only ever landed in the fallback remains readable
// for the rest of the process lifetime.
func (s *Store) Load(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.primary.Load(ctx, id)
	if err == nil {
		return p, nil
	}

	if !profile.IsNotFound(err) {
		s.logger.Warn("primary profile store load failed, consulting in-memory fallback",
			"profile_id", id,
			"error", err,
		)
	}

	return s.fallback.Load(ctx, id)
}

// Close closes both stores; the first error wins.
func (s *Store) Close() error {
	err := s.primary.Close()
	if cerr := s.fallback.Close(); err == nil {
		err = cerr
	}
	return err
}

var _ profile.Store = (*Store)(nil)
