package animal

import (
	"context"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// AnimalRepository defines persistence operations for animals and the
// pictures they own.
type AnimalRepository interface {
	// FindByID returns a NotFoundError when the animal does not exist.
	FindByID(ctx context.Context, id uint) (*Animal, error)
	FindAll(ctx context.Context) ([]*Animal, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// LoadRelations resolves breed, species, sex, organisation, descriptor
	// links, colour links and pictures of a stored animal.
	LoadRelations(ctx context.Context, a *Animal) (*Relations, error)

	// Save inserts a new animal and returns it with its generated id.
	Save(ctx context.Context, a *Animal) (*Animal, error)

	// Update writes a revision if the stored version equals
	// a.ExpectedVersion(). On WriteOK it returns the stored revision as
	// committed; otherwise the animal is nil.
	Update(ctx context.Context, a *Animal) (*Animal, domain.WriteOutcome, error)

	// Delete removes the animal with its links and pictures. It reports
	// false without error when the animal was already absent.
	Delete(ctx context.Context, id uint) (bool, error)

	SavePicture(ctx context.Context, p *Picture) (*Picture, error)
	DeletePicture(ctx context.Context, animalID, pictureID uint) (bool, error)
}
