package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetIdempotentInsertion(t *testing.T) {
	s := NewSet()

	assert.True(t, s.Add(Name{First: "Jane", Last: "Doe"}))
	assert.Equal(t, 1, s.Len())

	// Re-inserting an existing name leaves cardinality unchanged.
	assert.False(t, s.Add(Name{First: "Jane", Last: "Doe"}))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Add(Name{First: "Sam", Last: "Lee"}))
	assert.Equal(t, 2, s.Len())
}

func TestSetNoNormalization(t *testing.T) {
	s := NewSet()

	// Equality is by exact string pair. Case variants coexist.
	s.Add(Name{First: "Jane", Last: "Doe"})
	s.Add(Name{First: "JANE", Last: "DOE"})
	assert.Equal(t, 2, s.Len())
}

func TestSetSorted(t *testing.T) {
	s := NewSet()
	s.Add(Name{First: "Sam", Last: "Lee"})
	s.Add(Name{First: "Jane", Last: "Doe"})
	s.Add(Name{First: "Alice", Last: "Doe"})

	assert.Equal(t, []Name{
		{First: "Alice", Last: "Doe"},
		{First: "Jane", Last: "Doe"},
		{First: "Sam", Last: "Lee"},
	}, s.Sorted())
}
