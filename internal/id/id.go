// Package id produces collision-resistant identifiers for new records.
package id

import "github.com/google/uuid"

// Generator returns a fresh unique identifier on each call. Tests inject
// deterministic implementations; production code uses New.
type Generator func() string

// New returns the default UUID-backed generator.
func New() Generator {
	return uuid.NewString
}
