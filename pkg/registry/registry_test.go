package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[int]("number")
	r.Register("two", 2)
	r.Register("one", 1)

	v, err := r.Get("two")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = r.Get("three")
	assert.EqualError(t, err, "number not found: three")

	assert.Equal(t, []string{"one", "two"}, r.Names())

	assert.PanicsWithValue(t, "number already registered: one", func() {
		r.Register("one", 11)
	})
}
