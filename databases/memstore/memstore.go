// Package memstore is an in-memory datastore for tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/melkeydev/mcp-odata/types"
)

type Collection struct {
	Fields  []types.Field
	Records []map[string]any
}

// Store serves collections from memory and records every call. The metadata
// collection lists Order, which is expected newest first.
type Store struct {
	Collections map[string]*Collection
	Resources   map[string]*types.Resource
	Order       []string
	// SQL maps a raw statement to its result.
	SQL map[string]*types.SearchResult
	// Errors fails Search, SearchSQL or ResourceShow for the given
	// collection name or statement.
	Errors map[string]error

	mu       sync.Mutex
	searches []types.SearchRequest
	queries  []string
}

func New() *Store {
	return &Store{
		Collections: map[string]*Collection{},
		Resources:   map[string]*types.Resource{},
		SQL:         map[string]*types.SearchResult{},
		Errors:      map[string]error{},
	}
}

// Add registers a collection with a resource entry of the same name.
func (s *Store) Add(name string, fields []types.Field, records ...map[string]any) {
	s.Collections[name] = &Collection{Fields: fields, Records: records}
	s.Resources[name] = &types.Resource{ID: name, Name: name}
	s.Order = append([]string{name}, s.Order...)
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error) {
	s.mu.Lock()
	s.searches = append(s.searches, req)
	s.mu.Unlock()

	if err := s.Errors[req.ResourceID]; err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ResourceID == types.TableMetadata {
		return s.tableMetadata(req), nil
	}

	c, ok := s.Collections[req.ResourceID]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", req.ResourceID, types.ErrNotFound)
	}

	var matched []map[string]any
	for _, r := range c.Records {
		if matches(r, req.Filters) {
			matched = append(matched, r)
		}
	}

	return &types.SearchResult{
		Records: page(matched, req.Offset, req.Limit),
		Fields:  c.Fields,
		Total:   len(matched),
	}, nil
}

func (s *Store) SearchSQL(ctx context.Context, sql string) (*types.SearchResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, sql)
	s.mu.Unlock()

	if err := s.Errors[sql]; err != nil {
		return nil, err
	}
	result, ok := s.SQL[sql]
	if !ok {
		return nil, types.NewValidationError("query", "unexpected statement: "+sql)
	}
	return result, nil
}

func (s *Store) ResourceShow(ctx context.Context, id string) (*types.Resource, error) {
	r, ok := s.Resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
	}
	return r, nil
}

// Searches returns the structured searches received so far.
func (s *Store) Searches() []types.SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.SearchRequest(nil), s.searches...)
}

// Queries returns the raw statements received so far.
func (s *Store) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func (s *Store) tableMetadata(req types.SearchRequest) *types.SearchResult {
	records := make([]map[string]any, 0, len(s.Order))
	for i, name := range s.Order {
		records = append(records, map[string]any{"name": name, "oid": int64(len(s.Order) - i)})
	}
	return &types.SearchResult{
		Records: page(records, req.Offset, req.Limit),
		Fields:  []types.Field{{ID: "name", Type: "text"}, {ID: "oid", Type: "int8"}},
		Total:   len(records),
	}
}

func matches(record, filters map[string]any) bool {
	for k, v := range filters {
		if fmt.Sprint(record[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func page(records []map[string]any, offset, limit int) []map[string]any {
	out := []map[string]any{}
	for i := offset; i < len(records) && i < offset+limit; i++ {
		out = append(out, records[i])
	}
	return out
}
