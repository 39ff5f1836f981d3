package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanjbailey/anidopt/internal/domain"
	orgDomain "github.com/aidanjbailey/anidopt/internal/domain/organisation"
	"gorm.io/gorm"
)

// GormOrganisationRepository implements OrganisationRepository using GORM.
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewGormOrganisationRepository creates a new GormOrganisationRepository.
func NewGormOrganisationRepository(db *gorm.DB) *GormOrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

func (r *GormOrganisationRepository) FindByID(ctx context.Context, id uint) (*orgDomain.Organisation, error) {
	var model OrganisationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("organisation", id)
		}
		return nil, fmt.Errorf("failed to find organisation by ID: %w", err)
	}
	return toOrganisationDomain(&model), nil
}

func (r *GormOrganisationRepository) FindAll(ctx context.Context) ([]*orgDomain.Organisation, error) {
	var models []OrganisationModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list organisations: %w", err)
	}
	orgs := make([]*orgDomain.Organisation, len(models))
	for i := range models {
		orgs[i] = toOrganisationDomain(&models[i])
	}
	return orgs, nil
}

func (r *GormOrganisationRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &OrganisationModel{}, id)
}

func (r *GormOrganisationRepository) CountDependents(ctx context.Context, id uint) (orgDomain.Dependents, error) {
	return countDependents(r.db.WithContext(ctx), id)
}

func (r *GormOrganisationRepository) Save(ctx context.Context, o *orgDomain.Organisation) (*orgDomain.Organisation, error) {
	model := toOrganisationModel(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err, "organisation")
	}
	return toOrganisationDomain(model), nil
}

// Update persists a revision with optimistic locking and returns the
// stored row read back inside the same transaction.
func (r *GormOrganisationRepository) Update(ctx context.Context, o *orgDomain.Organisation) (*orgDomain.Organisation, domain.WriteOutcome, error) {
	var stored *orgDomain.Organisation
	outcome := domain.WriteOK
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrganisationModel{}).
			Where("id = ? AND version = ?", o.ID(), o.ExpectedVersion()).
			Updates(map[string]interface{}{
				"name":       o.Name(),
				"version":    o.Version(),
				"updated_at": o.UpdatedAt(),
			})
		if result.Error != nil {
			return translateError(result.Error, "organisation")
		}
		if result.RowsAffected == 0 {
			var err error
			outcome, err = staleOutcome(tx, &OrganisationModel{}, o.ID())
			return err
		}
		var model OrganisationModel
		if err := tx.Where("id = ?", o.ID()).First(&model).Error; err != nil {
			return fmt.Errorf("failed to read back organisation: %w", err)
		}
		stored = toOrganisationDomain(&model)
		return nil
	})
	if err != nil {
		return nil, domain.WriteOK, err
	}
	return stored, outcome, nil
}

// Delete checks for dependents inside the deleting transaction. The
// RESTRICT foreign keys on animals and memberships reject anything
// inserted concurrently after the check.
func (r *GormOrganisationRepository) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deps, err := countDependents(tx, id)
		if err != nil {
			return err
		}
		if deps.Any() {
			return domain.NewConstraintViolationError(
				domain.ConstraintDependents,
				"organisation_dependents",
				fmt.Sprintf("organisation %d still owns %d animal(s) and %d membership(s)", id, deps.Animals, deps.Members),
			)
		}
		result := tx.Delete(&OrganisationModel{}, id)
		if result.Error != nil {
			return translateError(result.Error, "organisation")
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func countDependents(db *gorm.DB, id uint) (orgDomain.Dependents, error) {
	var deps orgDomain.Dependents
	if err := db.Model(&AnimalModel{}).Where("organisation_id = ?", id).Count(&deps.Animals).Error; err != nil {
		return deps, fmt.Errorf("failed to count organisation animals: %w", err)
	}
	if err := db.Model(&UserOrganisationLinkModel{}).Where("organisation_id = ?", id).Count(&deps.Members).Error; err != nil {
		return deps, fmt.Errorf("failed to count organisation members: %w", err)
	}
	return deps, nil
}

// --- Conversions ---

func toOrganisationModel(o *orgDomain.Organisation) *OrganisationModel {
	return &OrganisationModel{
		ID:        o.ID(),
		Name:      o.Name(),
		Version:   o.Version(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
	}
}

func toOrganisationDomain(m *OrganisationModel) *orgDomain.Organisation {
	return orgDomain.Reconstruct(m.ID, m.Name, m.Version, m.CreatedAt, m.UpdatedAt)
}
