package organisation

import (
	"strings"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// Draft is the caller-supplied state of an organisation.
type Draft struct {
	ID      uint
	Name    string
	Version int64
}

// Validate checks the fields that need no store access.
func (d Draft) Validate() *domain.ValidationError {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "name is required")
	}
	return verr
}

// Organisation is the aggregate root for a shelter or rescue that owns animals.
type Organisation struct {
	id        uint
	name      string
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewOrganisation creates a not-yet-stored organisation.
func NewOrganisation(d Draft) (*Organisation, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Organisation{
		name:      strings.TrimSpace(d.Name),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Revise builds the next version of an existing organisation.
func Revise(d Draft) (*Organisation, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}
	return &Organisation{
		id:        d.ID,
		name:      strings.TrimSpace(d.Name),
		version:   d.Version + 1,
		updatedAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an Organisation from persistence data (no validation).
func Reconstruct(id uint, name string, version int64, createdAt, updatedAt time.Time) *Organisation {
	return &Organisation{
		id:        id,
		name:      name,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o *Organisation) ID() uint               { return o.id }
func (o *Organisation) Name() string           { return o.name }
func (o *Organisation) Version() int64         { return o.version }
func (o *Organisation) ExpectedVersion() int64 { return o.version - 1 }
func (o *Organisation) CreatedAt() time.Time   { return o.createdAt }
func (o *Organisation) UpdatedAt() time.Time   { return o.updatedAt }
