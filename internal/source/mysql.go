package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient holds a MySQL connection pool.
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient connects with a go-sql-driver DSN such as
// user:pass@tcp(host:3306)/db. DATETIME columns are always scanned as
// time values so they import in one textual form.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql %s: ping: %w", cfg.Addr, err)
	}

	return &MySQLClient{db: db}, nil
}

// Close closes the pool.
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying handle.
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

const mysqlTablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
	ORDER BY table_name
`

func mysqlQuote(name string) string {
	return "`" + escapeQuote(name, '`') + "`"
}
