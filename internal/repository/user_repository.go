package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aidanjbailey/anidopt/internal/domain"
	userDomain "github.com/aidanjbailey/anidopt/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements the user Repository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return userDomain.Reconstruct(model.ID, model.Username, model.FirstName, model.LastName), nil
}

func (r *GormUserRepository) Upsert(ctx context.Context, u *userDomain.User) error {
	return upsertUser(r.db.WithContext(ctx), u)
}

// GrantMembership upserts the user and inserts the membership link in one
// transaction, so a rejected link leaves no user behind. It reports false
// when the membership already existed.
func (r *GormUserRepository) GrantMembership(ctx context.Context, u *userDomain.User, organisationID uint) (bool, error) {
	granted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, u); err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&UserOrganisationLinkModel{UserID: u.ID(), OrganisationID: organisationID})
		if result.Error != nil {
			return translateError(result.Error, "membership link")
		}
		granted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

func upsertUser(db *gorm.DB, u *userDomain.User) error {
	model := UserModel{
		ID:        u.ID(),
		Username:  u.Username(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name"}),
	}).Create(&model).Error
	if err != nil {
		return translateError(err, "user")
	}
	return nil
}
