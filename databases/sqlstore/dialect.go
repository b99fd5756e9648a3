package sqlstore

import (
	"fmt"
	"strings"

	"github.com/melkeydev/mcp-odata/types"
)

// Dialect holds what differs between database engines.
type Dialect interface {
	QuoteIdent(name string) string
	// TableMetadataQuery selects one row per table with columns name and
	// oid, where a larger oid means a newer table.
	TableMetadataQuery() string
	// TypeTag normalises a driver column type to a datastore type tag.
	TypeTag(databaseType string) string
	// Classify maps driver errors onto types.ErrNotFound,
	// types.ErrNotAuthorized or *types.ValidationError.
	Classify(err error) error
}

// QuoteDouble quotes an identifier the ANSI way.
func QuoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func NotFound(err error) error {
	return fmt.Errorf("%w: %v", types.ErrNotFound, err)
}

func NotAuthorized(err error) error {
	return fmt.Errorf("%w: %v", types.ErrNotAuthorized, err)
}

func Invalid(msg string) error {
	return types.NewValidationError("query", msg)
}
