package repository

import (
	"context"
	"testing"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRepository_ListOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReferenceRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Rabbit", "Cat", "Dog"} {
		_, err := repo.Create(ctx, reference.KindSpecies, reference.Item{Name: name})
		require.NoError(t, err)
	}

	items, err := repo.List(ctx, reference.KindSpecies)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Cat", items[0].Name)
	assert.Equal(t, "Rabbit", items[2].Name)

	empty, err := repo.List(ctx, reference.KindSize)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestReferenceRepository_BreedUniqueWithinSpecies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReferenceRepository(db)
	ctx := context.Background()

	dog, err := repo.Create(ctx, reference.KindSpecies, reference.Item{Name: "Dog"})
	require.NoError(t, err)
	cat, err := repo.Create(ctx, reference.KindSpecies, reference.Item{Name: "Cat"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, reference.KindBreed, reference.Item{Name: "Mixed", ParentID: dog.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, reference.KindBreed, reference.Item{Name: "Mixed", ParentID: cat.ID})
	require.NoError(t, err)

	_, err = repo.Create(ctx, reference.KindBreed, reference.Item{Name: "Mixed", ParentID: dog.ID})
	var cv *domain.ConstraintViolationError
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, domain.ConstraintUnique, cv.Kind)

	_, err = repo.Create(ctx, reference.KindBreed, reference.Item{Name: "Orphan", ParentID: 999})
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, domain.ConstraintForeignKey, cv.Kind)
}

func TestReferenceRepository_FindExistsUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReferenceRepository(db)
	ctx := context.Background()

	tan, err := repo.Create(ctx, reference.KindAnimalColour, reference.Item{Name: "Tan"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, reference.KindAnimalColour, tan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tan", found.Name)

	ok, err := repo.Exists(ctx, reference.KindAnimalColour, tan.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.FindByID(ctx, reference.KindAnimalColour, 999)
	assert.True(t, domain.IsNotFound(err))

	assert.Equal(t, int64(1), found.Version)

	rename := reference.Item{ID: tan.ID, Name: "Fawn", Version: found.Version}
	outcome, err := repo.Update(ctx, reference.KindAnimalColour, rename)
	require.NoError(t, err)
	assert.Equal(t, domain.WriteOK, outcome)

	outcome, err = repo.Update(ctx, reference.KindAnimalColour, rename)
	require.NoError(t, err)
	assert.Equal(t, domain.WriteConflict, outcome)

	outcome, err = repo.Update(ctx, reference.KindAnimalColour, reference.Item{ID: 999, Name: "Fawn", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.WriteNotFound, outcome)

	found, err = repo.FindByID(ctx, reference.KindAnimalColour, tan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fawn", found.Name)
	assert.Equal(t, int64(2), found.Version)
}

func TestReferenceRepository_Estimation(t *testing.T) {
	db := setupTestDB(t)
	c := seedCatalogue(t, db)
	repo := NewGormReferenceRepository(db)
	ctx := context.Background()

	_, err := repo.FindEstimation(ctx, c.breedID, c.sexID)
	assert.True(t, domain.IsNotFound(err))

	e, err := reference.NewEstimation(c.breedID, c.sexID, 38, 11)
	require.NoError(t, err)
	_, err = repo.SaveEstimation(ctx, e)
	require.NoError(t, err)

	found, err := repo.FindEstimation(ctx, c.breedID, c.sexID)
	require.NoError(t, err)
	assert.InDelta(t, 38.0, found.Height, 0.001)

	_, err = repo.SaveEstimation(ctx, e)
	assert.True(t, domain.IsConstraintViolation(err))
}
