package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"France", "france"},
		{"  JAPAN ", "japan"},
		{"côte d'ivoire", "côte d'ivoire"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeName(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "FR", NormalizeCode(" fr "))
	assert.Equal(t, "NCY", NormalizeCode("NCY"))
	assert.Equal(t, "", NormalizeCode("  "))
}

func TestUniqueCodes(t *testing.T) {
	assert.Equal(t, []string{"FR", "JP", "US"}, UniqueCodes([]string{"FR", "JP", "FR", "US", "JP"}))
	assert.Empty(t, UniqueCodes(nil))
}

func TestOutcome_Succeeded(t *testing.T) {
	assert.True(t, OutcomeAdded.Succeeded())
	assert.True(t, OutcomeRemoved.Succeeded())
	assert.False(t, OutcomeNotFound.Succeeded())
	assert.False(t, OutcomeDuplicate.Succeeded())
	assert.False(t, OutcomeNotInVisited.Succeeded())
}

func TestStorageError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, StorageError(nil))
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := StorageError(cause)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("does not double wrap", func(t *testing.T) {
		err := StorageError(ErrStorageUnavailable)
		assert.Equal(t, ErrStorageUnavailable, err)
	})
}
