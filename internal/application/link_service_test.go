package application

import (
	"context"
	"testing"
	"time"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/aidanjbailey/anidopt/internal/domain/link"
	"github.com/aidanjbailey/anidopt/internal/domain/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkService_LinkTwiceThenRelink(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)
	ctx := context.Background()

	rex, err := env.animals.Create(ctx, f.rex())
	require.NoError(t, err)

	require.NoError(t, env.links.Link(ctx, link.KindColour, rex.ID, f.tanID))

	err = env.links.Link(ctx, link.KindColour, rex.ID, f.tanID)
	var dup *domain.DuplicateLinkError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, rex.ID, dup.OwnerID)
	assert.Equal(t, f.tanID, dup.TargetID)

	require.NoError(t, env.links.Unlink(ctx, link.KindColour, rex.ID, f.tanID))
	require.NoError(t, env.links.Link(ctx, link.KindColour, rex.ID, f.tanID))
}

func TestLinkService_UnlinkAbsentIsNoop(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)

	assert.NoError(t, env.links.Unlink(context.Background(), link.KindDescriptor, 123, f.descriptorID))
}

func TestLinkService_LinkMissingSide(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)

	err := env.links.Link(context.Background(), link.KindColour, 999, f.tanID)
	assert.True(t, domain.IsConstraintViolation(err), "got %v", err)

	err = env.links.Link(context.Background(), link.KindColour, 0, f.tanID)
	assert.True(t, domain.IsValidation(err))
}

func TestLinkService_LinksForIsRestartable(t *testing.T) {
	env := newTestEnv(t)
	f := env.seed(t)
	ctx := context.Background()

	rex, err := env.animals.Create(ctx, f.rex())
	require.NoError(t, err)

	seq := env.links.LinksFor(ctx, link.KindColour, rex.ID)
	drain := func() []uint {
		var ids []uint
		for id, err := range seq {
			require.NoError(t, err)
			ids = append(ids, id)
		}
		return ids
	}

	assert.Empty(t, drain())
	require.NoError(t, env.links.Link(ctx, link.KindColour, rex.ID, f.tanID))
	assert.Equal(t, []uint{f.tanID}, drain())
	assert.Equal(t, []uint{f.tanID}, drain())

	for _, err := range env.links.LinksFor(ctx, link.Kind("friend"), rex.ID) {
		assert.True(t, domain.IsValidation(err))
	}
}

func TestLinkService_StoreUsableWhileRanging(t *testing.T) {
	env := newProductionTestEnv(t)
	f := env.seed(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rex, err := env.animals.Create(ctx, f.rex())
	require.NoError(t, err)
	require.NoError(t, env.links.Link(ctx, link.KindColour, rex.ID, f.tanID))

	var seen []uint
	for id, err := range env.links.LinksFor(ctx, link.KindColour, rex.ID) {
		require.NoError(t, err)
		ok, err := env.refs.Exists(ctx, reference.KindAnimalColour, id)
		require.NoError(t, err)
		assert.True(t, ok)
		seen = append(seen, id)
	}
	assert.Equal(t, []uint{f.tanID}, seen)
}
