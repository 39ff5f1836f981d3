// Package reference describes the fixed vocabularies that classify animals.
package reference

import (
	"context"
	"fmt"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// Kind names one vocabulary.
type Kind string

const (
	KindSpecies        Kind = "species"
	KindBreed          Kind = "breed"
	KindSex            Kind = "sex"
	KindDescriptorType Kind = "descriptor_type"
	KindDescriptor     Kind = "descriptor"
	KindAnimalColour   Kind = "animal_colour"
	KindSize           Kind = "size"
)

// Kinds lists every vocabulary in a stable order.
var Kinds = []Kind{
	KindSpecies, KindBreed, KindSex, KindDescriptorType, KindDescriptor, KindAnimalColour, KindSize,
}

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Parent returns the kind a row of k belongs to, if any.
func (k Kind) Parent() (Kind, bool) {
	switch k {
	case KindBreed:
		return KindSpecies, true
	case KindDescriptor:
		return KindDescriptorType, true
	}
	return "", false
}

// ParseKind converts a string to a Kind, returning an error if invalid.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid reference kind: %s", s)
	}
	return k, nil
}

// Item is one vocabulary row. ParentID is the species of a breed or the
// descriptor type of a descriptor, zero otherwise. For colours Name holds
// the colour value. Version guards updates the same way as for animals.
type Item struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ParentID uint   `json:"parent_id,omitempty"`
	Version  int64  `json:"version"`
}

// Repository defines persistence operations for every vocabulary.
type Repository interface {
	// List returns all rows of kind ordered by name.
	List(ctx context.Context, kind Kind) ([]Item, error)
	FindByID(ctx context.Context, kind Kind, id uint) (Item, error)
	Exists(ctx context.Context, kind Kind, id uint) (bool, error)
	Create(ctx context.Context, kind Kind, item Item) (Item, error)
	// Update writes item if the stored version still equals item.Version
	// and advances the stored version by one.
	Update(ctx context.Context, kind Kind, item Item) (domain.WriteOutcome, error)

	FindEstimation(ctx context.Context, breedID, sexID uint) (*Estimation, error)
	SaveEstimation(ctx context.Context, e *Estimation) (*Estimation, error)
}
