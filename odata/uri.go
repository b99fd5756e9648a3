package odata

import (
	"regexp"
	"strconv"

	"github.com/melkeydev/mcp-odata/types"
)

var rowKeySuffix = regexp.MustCompile(`^(.*)\((\d+)\)$`)

// Locator addresses a collection, or a single row of it when RowKey is set.
type Locator struct {
	Collection string
	RowKey     *int64
}

// Decompose splits "name(42)" into the collection name and row key. Any
// other input is taken as a bare collection name.
func Decompose(uri string) Locator {
	m := rowKeySuffix.FindStringSubmatch(uri)
	if m == nil {
		return Locator{Collection: uri}
	}

	key, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Locator{Collection: uri}
	}
	return Locator{Collection: m[1], RowKey: &key}
}

// Filters returns the equality filter implied by the row key.
func (l Locator) Filters() map[string]any {
	if l.RowKey == nil {
		return map[string]any{}
	}
	return map[string]any{types.RowIDColumn: *l.RowKey}
}
