package application

import (
	"context"
	"testing"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganisationService_CreateDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, OrganisationRequest{Name: "Happy Paws"})
	require.NoError(t, err)

	_, err = env.orgs.Create(ctx, OrganisationRequest{Name: "Happy Paws"})
	assert.True(t, domain.IsConstraintViolation(err), "got %v", err)

	_, err = env.orgs.Create(ctx, OrganisationRequest{Name: ""})
	assert.True(t, domain.IsValidation(err))
}

func TestOrganisationService_DeleteRestrictedWhileOwningAnimals(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)
	ctx := context.Background()

	rex, err := env.animals.Create(ctx, f.rex())
	require.NoError(t, err)

	_, err = env.orgs.Delete(ctx, f.orgID)
	var cv *domain.ConstraintViolationError
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, domain.ConstraintDependents, cv.Kind)

	got, err := env.orgs.GetByID(ctx, f.orgID)
	require.NoError(t, err)
	assert.Equal(t, &DependentsDTO{Animals: 1}, got.Dependents)

	_, err = env.animals.Delete(ctx, rex.ID)
	require.NoError(t, err)

	deleted, err := env.orgs.Delete(ctx, f.orgID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestOrganisationService_DeleteRestrictedWhileHavingMembers(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)
	ctx := context.Background()

	require.NoError(t, env.memberships.Grant(ctx, MembershipGrant{
		UserID: 7, OrganisationID: f.orgID, Username: "jdoe", FirstName: "Jane", LastName: "Doe",
	}))

	_, err := env.orgs.Delete(ctx, f.orgID)
	assert.True(t, domain.IsConstraintViolation(err))

	require.NoError(t, env.memberships.Revoke(ctx, 7, f.orgID))

	deleted, err := env.orgs.Delete(ctx, f.orgID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestOrganisationService_DeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, OrganisationRequest{Name: "Happy Paws"})
	require.NoError(t, err)

	deleted, err := env.orgs.Delete(ctx, org.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.orgs.Delete(ctx, org.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Contains(t, env.publisher.published(), messaging.OrganisationDeleted)
}

func TestOrganisationService_UpdateContract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, OrganisationRequest{Name: "Happy Paws"})
	require.NoError(t, err)

	_, err = env.orgs.Update(ctx, org.ID, OrganisationRequest{ID: org.ID + 1, Name: "X", Version: 1})
	assert.True(t, domain.IsIdentityMismatch(err))

	updated, err := env.orgs.Update(ctx, org.ID, OrganisationRequest{ID: org.ID, Name: "Happier Paws", Version: org.Version})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Happier Paws", updated.Name)
	assert.Equal(t, org.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = env.orgs.Update(ctx, org.ID, OrganisationRequest{ID: org.ID, Name: "Stale Paws", Version: org.Version})
	assert.True(t, domain.IsConflict(err))

	_, err = env.orgs.Update(ctx, 999, OrganisationRequest{ID: 999, Name: "Ghost", Version: 1})
	assert.True(t, domain.IsNotFound(err))

	list, err := env.orgs.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Dependents)
}
