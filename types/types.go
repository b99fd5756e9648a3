package types

import "time"

// Field describes one column of a datastore collection. Type is a datastore
// type tag (int4, int8, float8, numeric, bool, timestamp, text, ...).
type Field struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// SearchRequest is a structured datastore search.
type SearchRequest struct {
	ResourceID string         `json:"resource_id"`
	Filters    map[string]any `json:"filters,omitempty"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
	Sort       string         `json:"sort,omitempty"`
}

// SearchResult holds one page of records. Total counts every matching row,
// not only the returned page.
type SearchResult struct {
	Records []map[string]any `json:"records"`
	Fields  []Field          `json:"fields"`
	Total   int              `json:"total"`
}

type Resource struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// Updated returns the last modification time, or the creation time when the
// resource was never modified.
func (r *Resource) Updated() time.Time {
	if r.LastModified.IsZero() {
		return r.Created
	}
	return r.LastModified
}

const (
	// TableMetadata is the reserved collection listing every datastore table.
	TableMetadata = "_table_metadata"
	// RowIDColumn identifies a single row inside a collection.
	RowIDColumn = "_id"
)

// Validate rejects a negative limit or offset.
func (r SearchRequest) Validate() error {
	vErr := &ValidationError{Details: map[string][]string{}}
	if r.Limit < 0 {
		vErr.Details["limit"] = []string{"Must be a natural number"}
	}
	if r.Offset < 0 {
		vErr.Details["offset"] = []string{"Must be a natural number"}
	}
	if len(vErr.Details) > 0 {
		return vErr
	}
	return nil
}
