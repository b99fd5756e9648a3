package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/melkeydev/mcp-odata/databases/sqlstore"
)

type MySQLConnector struct {
	*sqlstore.Store
}

func NewMySQLConnector(connectionString string, opts sqlstore.Options) (*MySQLConnector, error) {
	cfg, err := mysql.ParseDSN(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	// Raw SQL filters quote collection names with double quotes.
	cfg.Params["sql_mode"] = "CONCAT(@@sql_mode, ',ANSI_QUOTES')"

	// Open the database connection
	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	connector := &MySQLConnector{
		Store: sqlstore.New(db, Dialect{}, opts),
	}

	if err := connector.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return connector, nil
}

type Dialect struct{}

func (Dialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (Dialect) TableMetadataQuery() string {
	return `
		SELECT table_name AS name, CAST(COALESCE(UNIX_TIMESTAMP(create_time), 0) AS SIGNED) AS oid
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
	`
}

func (Dialect) TypeTag(databaseType string) string {
	t := strings.TrimPrefix(strings.ToUpper(databaseType), "UNSIGNED ")
	switch t {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "YEAR":
		return "int4"
	case "BIGINT":
		return "int8"
	case "FLOAT", "DOUBLE":
		return "float8"
	case "DECIMAL":
		return "numeric"
	case "BIT", "BOOL", "BOOLEAN":
		return "bool"
	case "DATETIME", "TIMESTAMP":
		return "timestamp"
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "ENUM", "SET":
		return "text"
	case "NULL":
		return "null"
	default:
		return strings.ToLower(t)
	}
}

func (Dialect) Classify(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}

	switch myErr.Number {
	case 1146, 1049:
		return sqlstore.NotFound(err)
	case 1142, 1044, 1045, 1227:
		return sqlstore.NotAuthorized(err)
	case 1064, 1054, 1052, 1248:
		return sqlstore.Invalid(myErr.Message)
	default:
		return err
	}
}
