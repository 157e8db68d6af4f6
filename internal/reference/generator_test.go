package reference

import (
	"errors"
	"strings"
	"testing"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func free(string) (bool, error) { return false, nil }

func TestGenerate_ShapeAndAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		ref, err := Generate(free, 6, 1)
		require.NoError(t, err)
		assert.Len(t, ref, 6)
		for _, r := range ref {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestGenerate_NotSequential(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		ref, err := Generate(free, 8, 1)
		require.NoError(t, err)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, 500)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	ref, err := Generate(exists, 6, 5)

	require.NoError(t, err)
	assert.Len(t, ref, 6)
	assert.Equal(t, 3, calls)
}

func TestGenerate_Exhausted(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return true, nil
	}

	ref, err := Generate(exists, 6, 4)

	assert.Empty(t, ref)
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, 4, calls)
}

func TestGenerate_CheckErrorsCountAsAttempts(t *testing.T) {
	dbErr := errors.New("db down")
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		if calls == 1 {
			return false, dbErr
		}
		return false, nil
	}

	ref, err := Generate(exists, 6, 3)
	require.NoError(t, err)
	assert.Len(t, ref, 6)

	_, err = Generate(func(string) (bool, error) { return false, dbErr }, 6, 2)
	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Contains(t, err.Error(), "db down")
}

func TestGenerate_InvalidLength(t *testing.T) {
	_, err := Generate(free, 0, 3)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewGenerator(0, 3).Candidate()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerator_Prefix(t *testing.T) {
	g := NewGenerator(6, 8, WithPrefix(" ai "))

	c, err := g.Candidate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c, "AI"))
	assert.Len(t, c, 8)

	var checked string
	ref, err := g.Generate(func(candidate string) (bool, error) {
		checked = candidate
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, checked, ref)
	assert.True(t, strings.HasPrefix(ref, "AI"))
	assert.Equal(t, 8, g.Attempts())
}

func TestNewGenerator_MinimumOneAttempt(t *testing.T) {
	g := NewGenerator(6, 0)

	assert.Equal(t, 1, g.Attempts())
}
