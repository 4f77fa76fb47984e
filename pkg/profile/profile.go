// Package profile defines the birth profile record and the pluggable Store
// interface its drivers implement.
package profile

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// DOBLayout is the accepted date-of-birth format.
	DOBLayout = "2006-01-02"

	// TimeLayout is the accepted 24-hour time-of-birth format.
	TimeLayout = "15:04"

	// idLength is the number of hex characters in a profile ID.
	idLength = 12
)

// Profile is an append-only record of a user's birth details. Profiles are
// never mutated; a changed detail produces a new profile with a new ID.
type Profile struct {
	ID        string    `json:"profile_id"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob"`
	Time      string    `json:"time"`
	Place     string    `json:"place"`
	CreatedAt time.Time `json:"created_at"`
	SessionID string    `json:"session_id,omitempty"`
}

// New builds a Profile from validated birth details. The ID is derived
// deterministically from the details, so registering the same person twice
// yields the same profile ID.
func New(name, dob, timeOfBirth, place, sessionID string) (*Profile, error) {
	if err := ValidateBirthDetails(dob, timeOfBirth); err != nil {
		return nil, err
	}

	return &Profile{
		ID:        NewID(name, dob, timeOfBirth, place),
		Name:      name,
		DOB:       dob,
		Time:      timeOfBirth,
		Place:     place,
		CreatedAt: time.Now().UTC(),
		SessionID: sessionID,
	}, nil
}

// NewID derives the deterministic 12-hex-character profile ID from
// normalized birth details.
func NewID(name, dob, timeOfBirth, place string) string {
	raw := fmt.Sprintf("%s_%s_%s_%s",
		strings.ToLower(strings.TrimSpace(name)),
		dob,
		timeOfBirth,
		strings.ToLower(strings.TrimSpace(place)),
	)

	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:idLength]
}

// ValidateBirthDetails checks that dob is a real calendar date in YYYY-MM-DD
// form and timeOfBirth a real 24-hour clock time in HH:mm form.
func ValidateBirthDetails(dob, timeOfBirth string) error {
	if _, err := time.Parse(DOBLayout, dob); err != nil {
		return fmt.Errorf("%w: date of birth %q must be YYYY-MM-DD", ErrValidation, dob)
	}
	if _, err := time.Parse(TimeLayout, timeOfBirth); err != nil {
		return fmt.Errorf("%w: time of birth %q must be HH:mm (24h)", ErrValidation, timeOfBirth)
	}
	return nil
}

// BirthInfo renders the profile's birth details as a single human-readable
// sentence fragment for prompts and summaries.
func (p *Profile) BirthInfo() string {
	return fmt.Sprintf("Born on %s at %s in %s", p.DOB, p.Time, p.Place)
}
