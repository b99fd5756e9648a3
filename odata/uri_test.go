package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose(t *testing.T) {
	t.Run("row key", func(t *testing.T) {
		loc := Decompose("widgets(42)")
		assert.Equal(t, "widgets", loc.Collection)
		require.NotNil(t, loc.RowKey)
		assert.Equal(t, int64(42), *loc.RowKey)
		assert.Equal(t, map[string]any{"_id": int64(42)}, loc.Filters())
	})

	t.Run("bare name", func(t *testing.T) {
		loc := Decompose("widgets")
		assert.Equal(t, "widgets", loc.Collection)
		assert.Nil(t, loc.RowKey)
		assert.Empty(t, loc.Filters())
	})

	t.Run("non digit parenthetical", func(t *testing.T) {
		loc := Decompose("widgets(abc)")
		assert.Equal(t, "widgets(abc)", loc.Collection)
		assert.Nil(t, loc.RowKey)
	})

	t.Run("negative key is not a row key", func(t *testing.T) {
		loc := Decompose("widgets(-1)")
		assert.Equal(t, "widgets(-1)", loc.Collection)
		assert.Nil(t, loc.RowKey)
	})

	t.Run("last suffix wins", func(t *testing.T) {
		loc := Decompose("a(1)(2)")
		assert.Equal(t, "a(1)", loc.Collection)
		require.NotNil(t, loc.RowKey)
		assert.Equal(t, int64(2), *loc.RowKey)
	})

	t.Run("overflowing key", func(t *testing.T) {
		loc := Decompose("widgets(99999999999999999999)")
		assert.Equal(t, "widgets(99999999999999999999)", loc.Collection)
		assert.Nil(t, loc.RowKey)
	})

	t.Run("uuid collection", func(t *testing.T) {
		loc := Decompose("0f8fad5b-d9cb-469f-a165-70867728950e(3)")
		assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", loc.Collection)
		require.NotNil(t, loc.RowKey)
		assert.Equal(t, int64(3), *loc.RowKey)
	})
}
