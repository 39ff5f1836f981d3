package animal

import (
	"strings"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// Draft is the caller-supplied state of an animal for create and update.
// Version is the version the caller loaded; it is ignored on create.
type Draft struct {
	ID             uint
	Name           string
	Age            int
	BreedID        uint
	SexID          uint
	OrganisationID uint
	Version        int64
}

// Validate checks the fields that need no store access. The returned error
// is never nil so callers can keep adding reference checks to it.
func (d Draft) Validate() *domain.ValidationError {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.Add("name", "name is required")
	}
	if d.Age < 0 {
		verr.Add("age", "age must not be negative")
	}
	if d.BreedID == 0 {
		verr.Add("breed_id", "breed is required")
	}
	if d.SexID == 0 {
		verr.Add("sex_id", "sex is required")
	}
	if d.OrganisationID == 0 {
		verr.Add("organisation_id", "organisation is required")
	}
	return verr
}

// Animal is the aggregate root for a catalogued animal.
type Animal struct {
	id             uint
	name           string
	age            int
	breedID        uint
	sexID          uint
	organisationID uint
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewAnimal creates a not-yet-stored animal from a validated draft.
func NewAnimal(d Draft) (*Animal, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Animal{
		name:           strings.TrimSpace(d.Name),
		age:            d.Age,
		breedID:        d.BreedID,
		sexID:          d.SexID,
		organisationID: d.OrganisationID,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Revise builds the next version of an existing animal from a draft that
// carries the version the caller loaded. The store accepts it only if that
// version is still current.
func Revise(d Draft) (*Animal, error) {
	if err := d.Validate().Err(); err != nil {
		return nil, err
	}
	return &Animal{
		id:             d.ID,
		name:           strings.TrimSpace(d.Name),
		age:            d.Age,
		breedID:        d.BreedID,
		sexID:          d.SexID,
		organisationID: d.OrganisationID,
		version:        d.Version + 1,
		updatedAt:      time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an Animal from persistence data (no validation).
func Reconstruct(
	id uint,
	name string,
	age int,
	breedID, sexID, organisationID uint,
	version int64,
	createdAt, updatedAt time.Time,
) *Animal {
	return &Animal{
		id:             id,
		name:           name,
		age:            age,
		breedID:        breedID,
		sexID:          sexID,
		organisationID: organisationID,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (a *Animal) ID() uint             { return a.id }
func (a *Animal) Name() string         { return a.name }
func (a *Animal) Age() int             { return a.age }
func (a *Animal) BreedID() uint        { return a.breedID }
func (a *Animal) SexID() uint          { return a.sexID }
func (a *Animal) OrganisationID() uint { return a.organisationID }
func (a *Animal) Version() int64       { return a.version }
func (a *Animal) CreatedAt() time.Time { return a.createdAt }
func (a *Animal) UpdatedAt() time.Time { return a.updatedAt }

// ExpectedVersion is the version the stored row must carry for this
// revision to be accepted.
func (a *Animal) ExpectedVersion() int64 {
	return a.version - 1
}
