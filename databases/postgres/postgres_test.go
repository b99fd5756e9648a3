package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/melkeydev/mcp-odata/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTag(t *testing.T) {
	tests := map[string]string{
		"INT4":        "int4",
		"INT2":        "int4",
		"INT8":        "int8",
		"FLOAT4":      "float8",
		"FLOAT8":      "float8",
		"NUMERIC":     "numeric",
		"BOOL":        "bool",
		"TIMESTAMP":   "timestamp",
		"TIMESTAMPTZ": "timestamp",
		"VARCHAR":     "text",
		"TEXT":        "text",
		"JSONB":       "jsonb",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Dialect{}.TypeTag(in))
		})
	}
}

func TestClassify(t *testing.T) {
	wrap := func(code, msg string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code, Message: msg})
	}

	assert.True(t, errors.Is(Dialect{}.Classify(wrap("42P01", `relation "x" does not exist`)), types.ErrNotFound))
	assert.True(t, errors.Is(Dialect{}.Classify(wrap("42501", "permission denied")), types.ErrNotAuthorized))

	var vErr *types.ValidationError
	require.True(t, errors.As(Dialect{}.Classify(wrap("42601", `syntax error at or near "WHER"`)), &vErr))
	assert.Equal(t, []string{`syntax error at or near "WHER"`}, vErr.Details["query"])

	require.True(t, errors.As(Dialect{}.Classify(wrap("22P02", "invalid input syntax")), &vErr))

	other := errors.New("connection reset")
	assert.Equal(t, other, Dialect{}.Classify(other))
	assert.False(t, errors.Is(Dialect{}.Classify(wrap("08006", "lost")), types.ErrNotFound))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"widgets"`, Dialect{}.QuoteIdent("widgets"))
	assert.Equal(t, `"we""ird"`, Dialect{}.QuoteIdent(`we"ird`))
}
