package animal

import (
	"testing"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftValidate_ReportsEveryField(t *testing.T) {
	verr := Draft{Name: "  ", Age: -1}.Validate()

	require.True(t, verr.HasErrors())
	for _, field := range []string{"name", "age", "breed_id", "sex_id", "organisation_id"} {
		_, ok := verr.Field(field)
		assert.True(t, ok, "expected error for %s", field)
	}
}

func TestNewAnimal(t *testing.T) {
	a, err := NewAnimal(Draft{Name: " Rex ", Age: 3, BreedID: 1, SexID: 1, OrganisationID: 1})
	require.NoError(t, err)

	assert.Zero(t, a.ID())
	assert.Equal(t, "Rex", a.Name())
	assert.Equal(t, int64(1), a.Version())
	assert.False(t, a.CreatedAt().IsZero())
}

func TestNewAnimal_Invalid(t *testing.T) {
	_, err := NewAnimal(Draft{Name: "Rex"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestRevise_BumpsVersion(t *testing.T) {
	a, err := Revise(Draft{ID: 9, Name: "Rex", Age: 4, BreedID: 1, SexID: 2, OrganisationID: 3, Version: 5})
	require.NoError(t, err)

	assert.Equal(t, uint(9), a.ID())
	assert.Equal(t, int64(6), a.Version())
	assert.Equal(t, int64(5), a.ExpectedVersion())
}

func TestNewPicture(t *testing.T) {
	p, err := NewPicture(1, "front", "/pics/rex-front.jpg")
	require.NoError(t, err)
	assert.Equal(t, "front", p.Name())

	_, err = NewPicture(0, "", "")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}
