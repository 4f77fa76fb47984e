// Package insight defines the interface for producing astrological readings
// from a birth profile.
package insight

import (
	"context"
	"errors"

	"github.com/celestio/astromcp/pkg/profile"
)

// ErrUpstream is returned when the hosted language model cannot be reached
// or rejects a request (auth, rate limit, timeout).
var ErrUpstream = errors.New("insight upstream error")

// Generator produces a free-text astrological reading for a profile.
// When question is empty the reading is a full birth-chart analysis;
// otherwise it addresses the question, optionally scoped by timeframe.
type Generator interface {
	Generate(ctx context.Context, p *profile.Profile, question, timeframe string) (string, error)
}
