package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/melkeydev/mcp-odata/databases/sqlstore"
)

type SQLiteConnector struct {
	*sqlstore.Store
}

func NewSQLiteConnector(connectionString string, opts sqlstore.Options) (*SQLiteConnector, error) {
	db, err := sqlx.Open("sqlite3", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	connector := &SQLiteConnector{
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

func (Dialect) TableMetadataQuery() string {
	return `
		SELECT name, rowid AS oid
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
	`
}

// TypeTag follows SQLite's column affinity rules on the declared type.
func (Dialect) TypeTag(databaseType string) string {
	t := strings.ToLower(databaseType)
	switch t {
	case "int4", "int8", "float8", "numeric", "bool", "timestamp", "text":
		return t
	}

	switch {
	case t == "":
		return ""
	case strings.Contains(t, "bool"):
		return "bool"
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"):
		return "timestamp"
	case strings.Contains(t, "int"):
		return "int8"
	case strings.Contains(t, "char"), strings.Contains(t, "clob"), strings.Contains(t, "text"):
		return "text"
	case strings.Contains(t, "real"), strings.Contains(t, "floa"), strings.Contains(t, "doub"):
		return "float8"
	case strings.Contains(t, "numeric"), strings.Contains(t, "decimal"):
		return "numeric"
	default:
		return t
	}
}

func (Dialect) Classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch {
	case strings.Contains(sqliteErr.Error(), "no such table"):
		return sqlstore.NotFound(err)
	case sqliteErr.Code == sqlite3.ErrAuth || sqliteErr.Code == sqlite3.ErrPerm:
		return sqlstore.NotAuthorized(err)
	case sqliteErr.Code == sqlite3.ErrError:
		return sqlstore.Invalid(sqliteErr.Error())
	default:
		return err
	}
}
