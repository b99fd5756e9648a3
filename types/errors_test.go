package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Details: map[string][]string{
		"query": {"syntax error at or near \"WHER\""},
		"info":  {"a", "b"},
	}}

	assert.Equal(t, `validation error: info: a; b, query: syntax error at or near "WHER"`, err.Error())

	wrapped := fmt.Errorf("search failed: %w", err)
	var vErr *ValidationError
	require.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, []string{"a", "b"}, vErr.Details["info"])
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("lookup widgets: %w", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNotAuthorized))
}

func TestResourceUpdated(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	modified := created.Add(time.Hour)

	t.Run("prefers last modified", func(t *testing.T) {
		r := &Resource{Created: created, LastModified: modified}
		assert.Equal(t, modified, r.Updated())
	})

	t.Run("falls back to created", func(t *testing.T) {
		r := &Resource{Created: created}
		assert.Equal(t, created, r.Updated())
	})
}

func TestSearchRequestValidate(t *testing.T) {
	assert.NoError(t, SearchRequest{ResourceID: "widgets", Limit: 0, Offset: 0}.Validate())

	err := SearchRequest{ResourceID: "widgets", Limit: -1, Offset: -3}.Validate()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string][]string{
		"limit":  {"Must be a natural number"},
		"offset": {"Must be a natural number"},
	}, vErr.Details)

	err = SearchRequest{Limit: 10, Offset: -1}.Validate()
	require.True(t, errors.As(err, &vErr))
	assert.NotContains(t, vErr.Details, "limit")
}
