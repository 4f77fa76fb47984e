package profile

import "context"

// Store handles persistence of birth profiles. Implementations must be safe
// for concurrent use; the service issues independent saves and loads from
// in-flight requests with no coordination beyond the store itself.
//
// Drivers are pluggable via configuration: the in-memory store is always
// available, the webhook store is used when a webhook URL is configured, and
// the Qdrant store when a Qdrant host is configured. The fallback store
// composes a remote driver with the in-memory one.
type Store interface {
	// Save persists a profile. Profiles are append-only; saving an already
	// known ID overwrites with identical content and is harmless.
	Save(ctx context.Context, p *Profile) error

	// Load retrieves a profile by its ID. A missing profile yields a
	// NotFoundError.
	Load(ctx context.Context, id string) (*Profile, error)

	// Close releases driver resources.
	Close() error
}
