package repository

import (
	"context"

	animalDomain "github.com/aidanjbailey/anidopt/internal/domain/animal"
)

// SavePicture persists a new picture. A second picture with the same name
// on the same animal is a ConstraintViolationError.
func (r *GormAnimalRepository) SavePicture(ctx context.Context, p *animalDomain.Picture) (*animalDomain.Picture, error) {
	model := toPictureModel(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, translateError(err, "picture")
	}
	return toPictureDomain(&model), nil
}

// DeletePicture removes a picture of an animal and reports whether one was present.
func (r *GormAnimalRepository) DeletePicture(ctx context.Context, animalID, pictureID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND animal_id = ?", pictureID, animalID).
		Delete(&PictureModel{})
	if result.Error != nil {
		return false, translateError(result.Error, "picture")
	}
	return result.RowsAffected > 0, nil
}

func toPictureModel(p *animalDomain.Picture) PictureModel {
	return PictureModel{
		ID:        p.ID(),
		AnimalID:  p.AnimalID(),
		Name:      p.Name(),
		Path:      p.Path(),
		CreatedAt: p.CreatedAt(),
	}
}

func toPictureDomain(m *PictureModel) *animalDomain.Picture {
	return animalDomain.ReconstructPicture(
		m.ID,
		m.AnimalID,
		m.Name,
		m.Path,
		m.CreatedAt,
	)
}
