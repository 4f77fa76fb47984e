// Package qdrant implements profile.Store directly against a Qdrant
// instance, bypassing the n8n webhook. Profiles live in the astro_profiles
// collection; session mappings in astro_sessions.
//
// Qdrant is a vector database, but this service only needs keyed payload
// storage: each profile is a single point whose payload carries the profile
// fields. The vector attached to the point is a fixed-width placeholder
// derived from the profile ID.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/celestio/astromcp/pkg/profile"
)

const (
	// ProfilesCollection holds one point per registered profile.
	ProfilesCollection = "astro_profiles"

	// SessionsCollection maps session IDs to their active profile.
	SessionsCollection = "astro_sessions"

	// vectorSize matches the width the collections were provisioned with.
	vectorSize = 5
)

// Config holds configuration for the Qdrant profile store.
type Config struct {
	// Host is the Qdrant gRPC host.
	Host string

	// Port is the Qdrant gRPC port (typically 6334).
	Port int

	// APIKey authenticates against managed Qdrant. Optional.
	APIKey string

	// UseTLS enables TLS on the gRPC channel. Managed Qdrant requires it.
	UseTLS bool
}

// Driver implements profile.Store over the Qdrant gRPC API.
type Driver struct {
	client *qdrant.Client
}

// NewDriver connects to Qdrant and returns a profile store.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Host == "" {
		return nil, errors.New("qdrant host is required")
	}

	port := cfg.Port
	if port == 0 {
		port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Driver{client: client}, nil
}

// EnsureCollections creates the profile and session collections when they
// don't exist yet. Intended for one-time setup via the collections command.
func (d *Driver) EnsureCollections(ctx context.Context) error {
	for _, name := range []string{ProfilesCollection, SessionsCollection} {
		exists, err := d.client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("%w: checking collection %q: %v", profile.ErrUpstream, name, err)
		}
		if exists {
			continue
		}

		err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("%w: creating collection %q: %v", profile.ErrUpstream, name, err)
		}
	}

	return nil
}

// Save upserts the profile as a single point keyed by its deterministic
// point UUID. When the profile carries a session ID the session mapping is
// upserted as well; a failure there does not fail the save.
func (d *Driver) Save(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return errors.New("cannot store nil profile")
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(PointID(p.ID)),
		Vectors: qdrant.NewVectors(pointVector(p.ID)...),
		Payload: qdrant.NewValueMap(map[string]any{
			"profile_id": p.ID,
			"name":       p.Name,
			"dob":        p.DOB,
			"time":       p.Time,
			"place":      p.Place,
			"created_at": p.CreatedAt.Format(time.RFC3339),
			"session_id": p.SessionID,
		}),
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ProfilesCollection,
		Points:         []*qdrant.PointStruct{point},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upserting profile %s: %v", profile.ErrUpstream, p.ID, err)
	}

	if p.SessionID != "" {
		_ = d.saveSession(ctx, p.SessionID, p.ID)
	}

	return nil
}

// Load retrieves a profile point by its deterministic UUID.
func (d *Driver) Load(ctx context.Context, id string) (*profile.Profile, error) {
	points, err := d.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: ProfilesCollection,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(PointID(id))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving profile %s: %v", profile.ErrUpstream, id, err)
	}

	if len(points) == 0 {
		return nil, profile.NotFoundError{ID: id}
	}

	return fromPayload(points[0].Payload), nil
}

// saveSession upserts the session -> profile mapping.
func (d *Driver) saveSession(ctx context.Context, sessionID, profileID string) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(PointID(sessionID)),
		Vectors: qdrant.NewVectors(pointVector(sessionID)...),
		Payload: qdrant.NewValueMap(map[string]any{
			"session_id": sessionID,
			"profile_id": profileID,
		}),
	}

	_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: SessionsCollection,
		Points:         []*qdrant.PointStruct{point},
	})
	return err
}

// Close shuts down the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

// PointID derives the deterministic Qdrant point UUID for a profile or
// session ID. Qdrant point IDs must be UUIDs or integers, so the 12-hex
// profile ID is mapped through a namespaced UUID.
func PointID(id string) string {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(id)).String()
}

// pointVector derives the fixed placeholder vector for a point from its ID.
// The collections are keyed lookups, not similarity search; the vector only
// has to be stable and non-degenerate.
func pointVector(id string) []float32 {
	u := uuid.NewMD5(uuid.NameSpaceOID, []byte(id))
	vec := make([]float32, vectorSize)
	for i := 0; i < vectorSize; i++ {
		vec[i] = float32(u[i])/255.0 + 0.01
	}
	return vec
}

// fromPayload rebuilds a Profile from a point payload.
func fromPayload(payload map[string]*qdrant.Value) *profile.Profile {
	p := &profile.Profile{
		ID:        payload["profile_id"].GetStringValue(),
		Name:      payload["name"].GetStringValue(),
		DOB:       payload["dob"].GetStringValue(),
		Time:      payload["time"].GetStringValue(),
		Place:     payload["place"].GetStringValue(),
		SessionID: payload["session_id"].GetStringValue(),
	}

	if raw := payload["created_at"].GetStringValue(); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			p.CreatedAt = t
		}
	}

	return p
}

var _ profile.Store = (*Driver)(nil)
