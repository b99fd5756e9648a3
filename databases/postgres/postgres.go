package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/melkeydev/mcp-odata/databases/sqlstore"
)

type PostgresConnector struct {
	*sqlstore.Store
}

func NewPostgresConnector(connectionString string, opts sqlstore.Options) (*PostgresConnector, error) {
	config, err := pgx.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.PreferSimpleProtocol = true

	db := sqlx.NewDb(stdlib.OpenDB(*config), "pgx")

	connector := &PostgresConnector{
		Store: sqlstore.New(db, Dialect{}, opts),
	}

	// Test the connection
	if err := connector.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return connector, nil
}

type Dialect struct{}

func (Dialect) QuoteIdent(name string) string { return sqlstore.QuoteDouble(name) }

// Tables of the current schema, oid ascending with creation order.
func (Dialect) TableMetadataQuery() string {
	return `
		SELECT c.relname AS name, c.oid::int8 AS oid
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = current_schema()
		AND c.relkind IN ('r', 'v', 'm')
	`
}

func (Dialect) TypeTag(databaseType string) string {
	switch t := strings.ToLower(databaseType); t {
	case "int2":
		return "int4"
	case "float4":
		return "float8"
	case "varchar", "bpchar", "name", "citext":
		return "text"
	case "timestamptz":
		return "timestamp"
	default:
		return t
	}
}

func (Dialect) Classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == "42P01":
		return sqlstore.NotFound(err)
	case pgErr.Code == "42501":
		return sqlstore.NotAuthorized(err)
	case strings.HasPrefix(pgErr.Code, "42"), strings.HasPrefix(pgErr.Code, "22"):
		return sqlstore.Invalid(pgErr.Message)
	default:
		return err
	}
}
