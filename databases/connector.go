package databases

import (
	"context"
	"fmt"

	"github.com/melkeydev/mcp-odata/databases/mysql"
	"github.com/melkeydev/mcp-odata/databases/postgres"
	"github.com/melkeydev/mcp-odata/databases/sqlite"
	"github.com/melkeydev/mcp-odata/databases/sqlstore"
	"github.com/melkeydev/mcp-odata/types"
)

// Datastore is the read side of a tabular store.
type Datastore interface {
	Ping(ctx context.Context) error
	// Search runs a structured search. types.TableMetadata lists the
	// datastore's own tables.
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error)
	// SearchSQL runs a raw, read-only SQL statement.
	SearchSQL(ctx context.Context, sql string) (*types.SearchResult, error)
	ResourceShow(ctx context.Context, id string) (*types.Resource, error)
	Close() error
}

type Options = sqlstore.Options

func NewConnector(dbType, connectionString string, opts Options) (Datastore, error) {
	var (
		store Datastore
		err   error
	)

	switch dbType {
	case "postgres":
		store, err = postgres.NewPostgresConnector(connectionString, opts)
	case "mysql":
		store, err = mysql.NewMySQLConnector(connectionString, opts)
	case "sqlite":
		store, err = sqlite.NewSQLiteConnector(connectionString, opts)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	if err != nil {
		return nil, err
	}
	return store, nil
}
