package organisation

import (
	"context"

	"github.com/aidanjbailey/anidopt/internal/domain"
)

// Dependents counts the rows that block deletion of an organisation.
type Dependents struct {
	Animals int64
	Members int64
}

// Any reports whether anything still references the organisation.
func (d Dependents) Any() bool {
	return d.Animals > 0 || d.Members > 0
}

// OrganisationRepository defines persistence operations for organisations.
type OrganisationRepository interface {
	FindByID(ctx context.Context, id uint) (*Organisation, error)
	FindAll(ctx context.Context) ([]*Organisation, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	CountDependents(ctx context.Context, id uint) (Dependents, error)
	Save(ctx context.Context, o *Organisation) (*Organisation, error)
	// Update writes a revision if the stored version equals
	// o.ExpectedVersion() and returns the committed row on WriteOK.
	Update(ctx context.Context, o *Organisation) (*Organisation, domain.WriteOutcome, error)

	// Delete refuses with a ConstraintViolationError while animals or
	// memberships reference the organisation, and reports false without
	// error when it was already absent.
	Delete(ctx context.Context, id uint) (bool, error)
}
