package profile

import "errors"

// ErrValidation is returned when birth details fail format validation.
var ErrValidation = errors.New("invalid birth details")

// ErrUpstream is returned when a remote store cannot be reached or rejects
// a request.
var ErrUpstream = errors.New("profile store upstream error")

// NotFoundError is returned when a profile doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "profile not found"
	}

	return "profile not found: " + e.ID
}

// IsNotFound reports whether err is a NotFoundError from any driver.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
