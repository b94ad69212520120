// Package id provides the UUIDs used for request and trace identifiers.
// They are version 1 UUIDs issued by the shared shortid sequence, so they sort
// by creation time and carry the host node id.
package id

import (
	"sync"

	"github.com/google/uuid"

	"shortid/pkg/shortid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

var (
	nodeOnce sync.Once
	node     shortid.Node
)

// New generates a time-ordered UUIDv1.
//
// If the shared sequence cannot issue one (16384 UUIDs already taken in the
// current 100ns tick, or an unusable clock) New returns a random version 4
// UUID instead. Request and trace IDs only need to be unique, so callers
// must not rely on the version or on ordering.
func New() ID {
	nodeOnce.Do(func() {
		node = shortid.HardwareNode()
	})
	return newFrom(node, shortid.NextUUID)
}

func newFrom(n shortid.Node, next func(shortid.Node) (shortid.ID128, error)) ID {
	v, err := next(n)
	if err != nil {
		return uuid.New()
	}
	return v.UUID()
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}
