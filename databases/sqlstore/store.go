package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/melkeydev/mcp-odata/metric"
	"github.com/melkeydev/mcp-odata/types"
)

const DefaultResourceTable = "_resources"

type Options struct {
	// ResourceTable holds one row per collection: id, name, created,
	// last_modified.
	ResourceTable string
}

// Store is a datastore on top of any SQL database sqlx can open.
type Store struct {
	db            *sqlx.DB
	dialect       Dialect
	resourceTable string
}

func New(db *sqlx.DB, dialect Dialect, opts Options) *Store {
	if opts.ResourceTable == "" {
		opts.ResourceTable = DefaultResourceTable
	}
	return &Store{db: db, dialect: dialect, resourceTable: opts.ResourceTable}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Search
func (s *Store) Search(ctx context.Context, req types.SearchRequest) (result *types.SearchResult, err error) {
	defer func() { metric.ObserveQuery("search", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	orderBy, err := s.orderBy(req.Sort)
	if err != nil {
		return nil, err
	}
	from := s.source(req.ResourceID)
	where, args := s.where(req.Filters)

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Commit()

	var total int
	countQuery := s.db.Rebind("SELECT COUNT(*) FROM " + from + where)
	if err := tx.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", req.ResourceID, s.dialect.Classify(err))
	}

	query := s.db.Rebind("SELECT * FROM " + from + where + orderBy + " LIMIT ? OFFSET ?")
	args = append(args, req.Limit, req.Offset)

	result, err = s.collect(ctx, tx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", req.ResourceID, err)
	}
	result.Total = total

	return result, nil
}

// SearchSQL
func (s *Store) SearchSQL(ctx context.Context, sqlQuery string) (result *types.SearchResult, err error) {
	defer func() { metric.ObserveQuery("search_sql", err) }()

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("BeginTx failed with error: %w", err)
	}
	defer tx.Commit()

	result, err = s.collect(ctx, tx, sqlQuery)
	if err != nil {
		return nil, err
	}
	result.Total = len(result.Records)

	return result, nil
}

type resourceRow struct {
	ID           string         `db:"id"`
	Name         sql.NullString `db:"name"`
	Created      sql.NullTime   `db:"created"`
	LastModified sql.NullTime   `db:"last_modified"`
}

// ResourceShow
func (s *Store) ResourceShow(ctx context.Context, id string) (resource *types.Resource, err error) {
	defer func() { metric.ObserveQuery("resource_show", err) }()

	query := s.db.Rebind(fmt.Sprintf(
		"SELECT id, name, created, last_modified FROM %s WHERE id = ?",
		s.dialect.QuoteIdent(s.resourceTable),
	))

	var row resourceRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resource %s: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load resource %s: %w", id, s.dialect.Classify(err))
	}

	resource = &types.Resource{ID: row.ID, Name: row.Name.String}
	if resource.Name == "" {
		resource.Name = row.ID
	}
	if row.Created.Valid {
		resource.Created = row.Created.Time
	}
	if row.LastModified.Valid {
		resource.LastModified = row.LastModified.Time
	}
	return resource, nil
}

func (s *Store) collect(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (*types.SearchResult, error) {
	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, s.dialect.Classify(err)
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("unable to read columns: %w", err)
	}

	result := &types.SearchResult{
		Records: []map[string]any{},
		Fields:  make([]types.Field, 0, len(columns)),
	}
	for _, col := range columns {
		result.Fields = append(result.Fields, types.Field{
			ID:   col.Name(),
			Type: s.dialect.TypeTag(col.DatabaseTypeName()),
		})
	}

	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("unable to scan row: %w", err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result.Records = append(result.Records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.Classify(err)
	}

	return result, nil
}

// source is the FROM target for a collection. The metadata collection is
// served from the dialect's catalog query.
func (s *Store) source(resourceID string) string {
	if resourceID == types.TableMetadata {
		return "(" + s.dialect.TableMetadataQuery() + ") AS " + s.dialect.QuoteIdent(types.TableMetadata)
	}
	return s.dialect.QuoteIdent(resourceID)
}

func (s *Store) where(filters map[string]any) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	columns := make([]string, 0, len(filters))
	for col := range filters {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, s.dialect.QuoteIdent(col)+" = ?")
		args = append(args, filters[col])
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy turns "col [asc|desc], ..." into an ORDER BY clause.
func (s *Store) orderBy(sortSpec string) (string, error) {
	if strings.TrimSpace(sortSpec) == "" {
		return "", nil
	}

	var terms []string
	for _, part := range strings.Split(sortSpec, ",") {
		words := strings.Fields(part)
		if len(words) == 0 || len(words) > 2 {
			return "", types.NewValidationError("sort", fmt.Sprintf("invalid sort term %q", part))
		}

		term := s.dialect.QuoteIdent(words[0])
		if len(words) == 2 {
			switch dir := strings.ToUpper(words[1]); dir {
			case "ASC", "DESC":
				term += " " + dir
			default:
				return "", types.NewValidationError("sort", fmt.Sprintf("invalid sort direction %q", words[1]))
			}
		}
		terms = append(terms, term)
	}
	return " ORDER BY " + strings.Join(terms, ", "), nil
}
