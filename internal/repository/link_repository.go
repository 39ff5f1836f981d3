package repository

import (
	"context"
	"fmt"
	"iter"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/link"
	"gorm.io/gorm"
)

// linkTable maps an association onto its join model and columns.
type linkTable struct {
	model  func() interface{}
	owner  string
	target string
}

var linkTables = map[link.Kind]linkTable{
	link.KindDescriptor: {
		model:  func() interface{} { return &DescriptorLinkModel{} },
		owner:  "animal_id",
		target: "descriptor_id",
	},
	link.KindColour: {
		model:  func() interface{} { return &AnimalColourLinkModel{} },
		owner:  "animal_id",
		target: "colour_id",
	},
	link.KindMembership: {
		model:  func() interface{} { return &UserOrganisationLinkModel{} },
		owner:  "user_id",
		target: "organisation_id",
	},
}

func lookupLinkTable(kind link.Kind) (linkTable, error) {
	t, ok := linkTables[kind]
	if !ok {
		return linkTable{}, fmt.Errorf("unknown link kind: %s", kind)
	}
	return t, nil
}

// GormLinkRepository implements the link Repository using GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository creates a new GormLinkRepository.
func NewGormLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// Insert relies on the pair's unique index so two concurrent inserts of the
// same pair produce exactly one row.
func (r *GormLinkRepository) Insert(ctx context.Context, kind link.Kind, ownerID, targetID uint) error {
	var model interface{}
	switch kind {
	case link.KindDescriptor:
		model = &DescriptorLinkModel{AnimalID: ownerID, DescriptorID: targetID}
	case link.KindColour:
		model = &AnimalColourLinkModel{AnimalID: ownerID, ColourID: targetID}
	case link.KindMembership:
		model = &UserOrganisationLinkModel{UserID: ownerID, OrganisationID: targetID}
	default:
		return fmt.Errorf("unknown link kind: %s", kind)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		err = translateError(err, string(kind)+" link")
		if isUniqueViolation(err) {
			return domain.NewDuplicateLinkError(string(kind), ownerID, targetID)
		}
		return err
	}
	return nil
}

func (r *GormLinkRepository) Delete(ctx context.Context, kind link.Kind, ownerID, targetID uint) (bool, error) {
	t, err := lookupLinkTable(kind)
	if err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Where(t.owner+" = ? AND "+t.target+" = ?", ownerID, targetID).
		Delete(t.model())
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete %s link: %w", kind, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Targets yields target ids in ascending order. Each range runs a fresh
// query and reads the whole id list before yielding, so no connection is
// held while the caller works on an id. A failed query is yielded once and
// ends the sequence.
func (r *GormLinkRepository) Targets(ctx context.Context, kind link.Kind, ownerID uint) iter.Seq2[uint, error] {
	return func(yield func(uint, error) bool) {
		t, err := lookupLinkTable(kind)
		if err != nil {
			yield(0, err)
			return
		}
		var ids []uint
		if err := r.db.WithContext(ctx).
			Model(t.model()).
			Where(t.owner+" = ?", ownerID).
			Order(t.target+" ASC").
			Pluck(t.target, &ids).Error; err != nil {
			yield(0, fmt.Errorf("failed to query %s links: %w", kind, err))
			return
		}
		for _, id := range ids {
			if !yield(id, nil) {
				return
			}
		}
	}
}
