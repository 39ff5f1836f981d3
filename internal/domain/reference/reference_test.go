package reference

import (
	"testing"

	"github.com/aidanjbailey/anidopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("temperament")
	assert.Error(t, err)
}

func TestKindParent(t *testing.T) {
	parent, ok := KindBreed.Parent()
	assert.True(t, ok)
	assert.Equal(t, KindSpecies, parent)

	parent, ok = KindDescriptor.Parent()
	assert.True(t, ok)
	assert.Equal(t, KindDescriptorType, parent)

	_, ok = KindSex.Parent()
	assert.False(t, ok)
}

func TestNewEstimation(t *testing.T) {
	e, err := NewEstimation(1, 2, 55, 30)
	require.NoError(t, err)
	assert.Equal(t, 55.0, e.Height)

	_, err = NewEstimation(1, 2, 0, 0.5)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	_, hasHeight := verr.Field("height")
	_, hasWeight := verr.Field("weight")
	assert.True(t, hasHeight)
	assert.True(t, hasWeight)
}
