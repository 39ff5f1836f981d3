// Package link describes many-to-many associations kept as explicit join
// rows, unique on their (owner, target) pair.
package link

import (
	"context"
	"fmt"
	"iter"
)

// Kind names one association.
type Kind string

const (
	// KindDescriptor links an animal (owner) to a descriptor (target).
	KindDescriptor Kind = "descriptor"
	// KindColour links an animal (owner) to an animal colour (target).
	KindColour Kind = "colour"
	// KindMembership links a user (owner) to an organisation (target).
	KindMembership Kind = "membership"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	switch k {
	case KindDescriptor, KindColour, KindMembership:
		return true
	}
	return false
}

// ParseKind converts a string to a Kind, returning an error if invalid.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid link kind: %s", s)
	}
	return k, nil
}

// Repository defines persistence operations for join rows.
type Repository interface {
	// Insert adds the join row. It returns a DuplicateLinkError when the
	// pair already exists and a ConstraintViolationError when either side
	// does not exist.
	Insert(ctx context.Context, kind Kind, ownerID, targetID uint) error

	// Delete removes the join row and reports whether one was present.
	Delete(ctx context.Context, kind Kind, ownerID, targetID uint) (bool, error)

	// Targets yields the target ids linked to owner. Every range over the
	// returned sequence queries the store again.
	Targets(ctx context.Context, kind Kind, ownerID uint) iter.Seq2[uint, error]
}
