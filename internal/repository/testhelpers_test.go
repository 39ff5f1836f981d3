package repository

import (
	"context"
	"testing"

	animalDomain "github.com/aidanjbailey/anidopt/internal/domain/animal"
	orgDomain "github.com/aidanjbailey/anidopt/internal/domain/organisation"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a migrated SQLite database in a per-test directory with
// foreign keys enforced.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := t.TempDir() + "/test.db?_busy_timeout=5000&_foreign_keys=ON"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// catalogue holds the ids of a minimal set of vocabulary rows.
type catalogue struct {
	speciesID    uint
	breedID      uint
	sexID        uint
	descTypeID   uint
	descriptorID uint
	colourID     uint
	orgID        uint
}

func seedCatalogue(t *testing.T, db *gorm.DB) catalogue {
	t.Helper()
	ctx := context.Background()
	refs := NewGormReferenceRepository(db)

	create := func(kind reference.Kind, name string, parent uint) uint {
		item, err := refs.Create(ctx, kind, reference.Item{Name: name, ParentID: parent})
		require.NoError(t, err)
		return item.ID
	}

	var c catalogue
	c.speciesID = create(reference.KindSpecies, "Dog", 0)
	c.breedID = create(reference.KindBreed, "Beagle", c.speciesID)
	c.sexID = create(reference.KindSex, "Female", 0)
	c.descTypeID = create(reference.KindDescriptorType, "Temperament", 0)
	c.descriptorID = create(reference.KindDescriptor, "Playful", c.descTypeID)
	c.colourID = create(reference.KindAnimalColour, "Tan", 0)

	org, err := orgDomain.NewOrganisation(orgDomain.Draft{Name: "Happy Paws"})
	require.NoError(t, err)
	saved, err := NewGormOrganisationRepository(db).Save(ctx, org)
	require.NoError(t, err)
	c.orgID = saved.ID()
	return c
}

func saveAnimal(t *testing.T, db *gorm.DB, c catalogue, name string) *animalDomain.Animal {
	t.Helper()
	a, err := animalDomain.NewAnimal(animalDomain.Draft{
		Name:           name,
		Age:            2,
		BreedID:        c.breedID,
		SexID:          c.sexID,
		OrganisationID: c.orgID,
	})
	require.NoError(t, err)
	saved, err := NewGormAnimalRepository(db).Save(context.Background(), a)
	require.NoError(t, err)
	return saved
}
