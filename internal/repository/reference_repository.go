package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"gorm.io/gorm"
)

// referenceTable maps a vocabulary onto its table and columns.
type referenceTable struct {
	table  string
	name   string
	parent string
}

var referenceTables = map[reference.Kind]referenceTable{
	reference.KindSpecies:        {table: "species", name: "name"},
	reference.KindBreed:          {table: "breeds", name: "name", parent: "species_id"},
	reference.KindSex:            {table: "sexes", name: "name"},
	reference.KindDescriptorType: {table: "descriptor_types", name: "name"},
	reference.KindDescriptor:     {table: "descriptors", name: "name", parent: "descriptor_type_id"},
	reference.KindAnimalColour:   {table: "animal_colours", name: "colour"},
	reference.KindSize:           {table: "sizes", name: "name"},
}

func lookupReferenceTable(kind reference.Kind) (referenceTable, error) {
	t, ok := referenceTables[kind]
	if !ok {
		return referenceTable{}, fmt.Errorf("unknown reference kind: %s", kind)
	}
	return t, nil
}

func (t referenceTable) selectColumns() string {
	parent := "0"
	if t.parent != "" {
		parent = t.parent
	}
	return fmt.Sprintf("id, %s AS name, %s AS parent_id, version", t.name, parent)
}

// GormReferenceRepository implements the reference Repository using GORM.
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository.
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) List(ctx context.Context, kind reference.Kind) ([]reference.Item, error) {
	t, err := lookupReferenceTable(kind)
	if err != nil {
		return nil, err
	}
	items := make([]reference.Item, 0)
	if err := r.db.WithContext(ctx).
		Table(t.table).
		Select(t.selectColumns()).
		Order(t.name + " ASC, id ASC").
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return items, nil
}

func (r *GormReferenceRepository) FindByID(ctx context.Context, kind reference.Kind, id uint) (reference.Item, error) {
	t, err := lookupReferenceTable(kind)
	if err != nil {
		return reference.Item{}, err
	}
	var items []reference.Item
	if err := r.db.WithContext(ctx).
		Table(t.table).
		Select(t.selectColumns()).
		Where("id = ?", id).
		Limit(1).
		Scan(&items).Error; err != nil {
		return reference.Item{}, fmt.Errorf("failed to find %s: %w", kind, err)
	}
	if len(items) == 0 {
		return reference.Item{}, domain.NewNotFoundError(string(kind), id)
	}
	return items[0], nil
}

func (r *GormReferenceRepository) Exists(ctx context.Context, kind reference.Kind, id uint) (bool, error) {
	t, err := lookupReferenceTable(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Table(t.table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", kind, err)
	}
	return count > 0, nil
}

// Create inserts a vocabulary row. Duplicates (including a breed name
// repeated within one species) surface as ConstraintViolationError.
func (r *GormReferenceRepository) Create(ctx context.Context, kind reference.Kind, item reference.Item) (reference.Item, error) {
	model, err := toReferenceModel(kind, item)
	if err != nil {
		return reference.Item{}, err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return reference.Item{}, translateError(err, string(kind))
	}
	item.ID = referenceModelID(model)
	item.Version = 1
	return item, nil
}

// Update renames or re-parents a row with optimistic locking, the same way
// animals are updated.
func (r *GormReferenceRepository) Update(ctx context.Context, kind reference.Kind, item reference.Item) (domain.WriteOutcome, error) {
	t, err := lookupReferenceTable(kind)
	if err != nil {
		return domain.WriteOK, err
	}
	values := map[string]interface{}{
		t.name:    item.Name,
		"version": item.Version + 1,
	}
	if t.parent != "" {
		values[t.parent] = item.ParentID
	}

	outcome := domain.WriteOK
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := toReferenceModel(kind, reference.Item{})
		if err != nil {
			return err
		}
		result := tx.Model(model).
			Where("id = ? AND version = ?", item.ID, item.Version).
			Updates(values)
		if result.Error != nil {
			return translateError(result.Error, string(kind))
		}
		if result.RowsAffected == 0 {
			outcome, err = staleOutcome(tx, model, item.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.WriteOK, err
	}
	return outcome, nil
}

func (r *GormReferenceRepository) FindEstimation(ctx context.Context, breedID, sexID uint) (*reference.Estimation, error) {
	var model EstimationModel
	if err := r.db.WithContext(ctx).
		Where("breed_id = ? AND sex_id = ?", breedID, sexID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{
				Entity: "estimation",
				ID:     fmt.Sprintf("breed %d/sex %d", breedID, sexID),
			}
		}
		return nil, fmt.Errorf("failed to find estimation: %w", err)
	}
	return toEstimationDomain(&model), nil
}

func (r *GormReferenceRepository) SaveEstimation(ctx context.Context, e *reference.Estimation) (*reference.Estimation, error) {
	model := EstimationModel{
		ID:      e.ID,
		Height:  e.Height,
		Weight:  e.Weight,
		BreedID: e.BreedID,
		SexID:   e.SexID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, translateError(err, "estimation")
	}
	return toEstimationDomain(&model), nil
}

// --- Conversions ---

func toReferenceModel(kind reference.Kind, item reference.Item) (interface{}, error) {
	switch kind {
	case reference.KindSpecies:
		return &SpeciesModel{Name: item.Name, Version: 1}, nil
	case reference.KindBreed:
		return &BreedModel{Name: item.Name, SpeciesID: item.ParentID, Version: 1}, nil
	case reference.KindSex:
		return &SexModel{Name: item.Name, Version: 1}, nil
	case reference.KindDescriptorType:
		return &DescriptorTypeModel{Name: item.Name, Version: 1}, nil
	case reference.KindDescriptor:
		return &DescriptorModel{Name: item.Name, DescriptorTypeID: item.ParentID, Version: 1}, nil
	case reference.KindAnimalColour:
		return &AnimalColourModel{Colour: item.Name, Version: 1}, nil
	case reference.KindSize:
		return &SizeModel{Name: item.Name, Version: 1}, nil
	}
	return nil, fmt.Errorf("unknown reference kind: %s", kind)
}

func referenceModelID(model interface{}) uint {
	switch m := model.(type) {
	case *SpeciesModel:
		return m.ID
	case *BreedModel:
		return m.ID
	case *SexModel:
		return m.ID
	case *DescriptorTypeModel:
		return m.ID
	case *DescriptorModel:
		return m.ID
	case *AnimalColourModel:
		return m.ID
	case *SizeModel:
		return m.ID
	}
	return 0
}

func toEstimationDomain(m *EstimationModel) *reference.Estimation {
	return &reference.Estimation{
		ID:      m.ID,
		BreedID: m.BreedID,
		SexID:   m.SexID,
		Height:  m.Height,
		Weight:  m.Weight,
	}
}
