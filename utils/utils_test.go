package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b", "c"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b", "c"}, "d"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestIntersectCount(t *testing.T) {
	assert.Equal(t, 2, IntersectCount([]string{"hiking", "food", "museums"}, []string{"food", "surfing", "hiking"}))
	assert.Equal(t, 0, IntersectCount([]string{"hiking"}, []string{"surfing"}))
	assert.Equal(t, 0, IntersectCount(nil, []string{"surfing"}))

	// Duplicates count once.
	assert.Equal(t, 1, IntersectCount([]string{"food", "food"}, []string{"food", "food"}))
}

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(12)
	assert.Len(t, s, 12)
	for _, r := range s {
		assert.True(t, r >= 'a' && r <= 'z')
	}
	assert.NotEqual(t, RandomAlphabetString(12), RandomAlphabetString(12))
}
