package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanjbailey/anidopt/internal/domain"
	animalDomain "github.com/aidanjbailey/anidopt/internal/domain/animal"
	"gorm.io/gorm"
)

// GormAnimalRepository implements AnimalRepository using GORM.
type GormAnimalRepository struct {
	db *gorm.DB
}

// NewGormAnimalRepository creates a new GormAnimalRepository.
func NewGormAnimalRepository(db *gorm.DB) *GormAnimalRepository {
	return &GormAnimalRepository{db: db}
}

func (r *GormAnimalRepository) FindByID(ctx context.Context, id uint) (*animalDomain.Animal, error) {
	var model AnimalModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("animal", id)
		}
		return nil, fmt.Errorf("failed to find animal by ID: %w", err)
	}
	return toAnimalDomain(&model), nil
}

func (r *GormAnimalRepository) FindAll(ctx context.Context) ([]*animalDomain.Animal, error) {
	var models []AnimalModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	animals := make([]*animalDomain.Animal, len(models))
	for i := range models {
		animals[i] = toAnimalDomain(&models[i])
	}
	return animals, nil
}

func (r *GormAnimalRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &AnimalModel{}, id)
}

// LoadRelations runs one query per relation; there is no lazy loading.
func (r *GormAnimalRepository) LoadRelations(ctx context.Context, a *animalDomain.Animal) (*animalDomain.Relations, error) {
	db := r.db.WithContext(ctx)
	rel := &animalDomain.Relations{}

	type breedRow struct {
		BreedID     uint
		BreedName   string
		SpeciesID   uint
		SpeciesName string
	}
	var breed breedRow
	if err := db.Table("breeds AS b").
		Select("b.id AS breed_id, b.name AS breed_name, s.id AS species_id, s.name AS species_name").
		Joins("JOIN species AS s ON s.id = b.species_id").
		Where("b.id = ?", a.BreedID()).
		Scan(&breed).Error; err != nil {
		return nil, fmt.Errorf("failed to load breed: %w", err)
	}
	rel.Breed = animalDomain.Ref{ID: breed.BreedID, Name: breed.BreedName}
	rel.Species = animalDomain.Ref{ID: breed.SpeciesID, Name: breed.SpeciesName}

	var sex SexModel
	if err := db.Where("id = ?", a.SexID()).Limit(1).Find(&sex).Error; err != nil {
		return nil, fmt.Errorf("failed to load sex: %w", err)
	}
	rel.Sex = animalDomain.Ref{ID: sex.ID, Name: sex.Name}

	var org OrganisationModel
	if err := db.Where("id = ?", a.OrganisationID()).Limit(1).Find(&org).Error; err != nil {
		return nil, fmt.Errorf("failed to load organisation: %w", err)
	}
	rel.Organisation = animalDomain.Ref{ID: org.ID, Name: org.Name}

	if err := db.Table("descriptor_links AS dl").
		Select("dl.id AS link_id, d.id AS descriptor_id, d.name AS name, dt.id AS type_id, dt.name AS type_name").
		Joins("JOIN descriptors AS d ON d.id = dl.descriptor_id").
		Joins("JOIN descriptor_types AS dt ON dt.id = d.descriptor_type_id").
		Where("dl.animal_id = ?", a.ID()).
		Order("dt.name ASC, d.name ASC").
		Scan(&rel.Descriptors).Error; err != nil {
		return nil, fmt.Errorf("failed to load descriptors: %w", err)
	}

	if err := db.Table("animal_colour_links AS cl").
		Select("cl.id AS link_id, c.id AS colour_id, c.colour AS colour").
		Joins("JOIN animal_colours AS c ON c.id = cl.colour_id").
		Where("cl.animal_id = ?", a.ID()).
		Order("c.colour ASC").
		Scan(&rel.Colours).Error; err != nil {
		return nil, fmt.Errorf("failed to load colours: %w", err)
	}

	var pictures []PictureModel
	if err := db.Where("animal_id = ?", a.ID()).Order("name ASC").Find(&pictures).Error; err != nil {
		return nil, fmt.Errorf("failed to load pictures: %w", err)
	}
	rel.Pictures = make([]*animalDomain.Picture, len(pictures))
	for i := range pictures {
		rel.Pictures[i] = toPictureDomain(&pictures[i])
	}

	return rel, nil
}

func (r *GormAnimalRepository) Save(ctx context.Context, a *animalDomain.Animal) (*animalDomain.Animal, error) {
	model := toAnimalModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err, "animal")
	}
	return toAnimalDomain(model), nil
}

// Update persists a revision with optimistic locking. When no row matches
// the expected version the same transaction looks the id up to tell a
// deleted row from a concurrently modified one. On success the stored row
// is read back inside the transaction and returned.
func (r *GormAnimalRepository) Update(ctx context.Context, a *animalDomain.Animal) (*animalDomain.Animal, domain.WriteOutcome, error) {
	var stored *animalDomain.Animal
	outcome := domain.WriteOK
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AnimalModel{}).
			Where("id = ? AND version = ?", a.ID(), a.ExpectedVersion()).
			Updates(map[string]interface{}{
				"name":            a.Name(),
				"age":             a.Age(),
				"breed_id":        a.BreedID(),
				"sex_id":          a.SexID(),
				"organisation_id": a.OrganisationID(),
				"version":         a.Version(),
				"updated_at":      a.UpdatedAt(),
			})
		if result.Error != nil {
			return translateError(result.Error, "animal")
		}
		if result.RowsAffected == 0 {
			var err error
			outcome, err = staleOutcome(tx, &AnimalModel{}, a.ID())
			return err
		}
		var model AnimalModel
		if err := tx.Where("id = ?", a.ID()).First(&model).Error; err != nil {
			return fmt.Errorf("failed to read back animal: %w", err)
		}
		stored = toAnimalDomain(&model)
		return nil
	})
	if err != nil {
		return nil, domain.WriteOK, err
	}
	return stored, outcome, nil
}

// Delete removes the animal and, explicitly, everything it owns.
func (r *GormAnimalRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{&DescriptorLinkModel{}, &AnimalColourLinkModel{}, &PictureModel{}}
		for _, m := range owned {
			if err := tx.Where("animal_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete animal-owned rows: %w", err)
			}
		}
		result := tx.Delete(&AnimalModel{}, id)
		if result.Error != nil {
			return translateError(result.Error, "animal")
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// --- Shared helpers ---

func exists(ctx context.Context, db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

// staleOutcome classifies a version-guarded update that matched no row.
func staleOutcome(tx *gorm.DB, model interface{}, id uint) (domain.WriteOutcome, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return domain.WriteOK, fmt.Errorf("failed to check stale row: %w", err)
	}
	if count == 0 {
		return domain.WriteNotFound, nil
	}
	return domain.WriteConflict, nil
}

// --- Conversions ---

func toAnimalModel(a *animalDomain.Animal) *AnimalModel {
	return &AnimalModel{
		ID:             a.ID(),
		Name:           a.Name(),
		Age:            a.Age(),
		BreedID:        a.BreedID(),
		SexID:          a.SexID(),
		OrganisationID: a.OrganisationID(),
		Version:        a.Version(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func toAnimalDomain(m *AnimalModel) *animalDomain.Animal {
	return animalDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Age,
		m.BreedID, m.SexID, m.OrganisationID,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
