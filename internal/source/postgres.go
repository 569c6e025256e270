package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"raDB/internal/logger"
	"raDB/internal/ra"
)

// PostgresClient holds a single PostgreSQL connection.
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects with a URL or keyword/value connection string.
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres %s: connect: %w", cfg.Host, err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("postgres %s: ping: %w", cfg.Host, err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the connection.
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection.
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// PostgresImporter reads the tables of one PostgreSQL schema.
type PostgresImporter struct {
	client *PostgresClient
	schema string
	log    *logger.Logger
}

// NewPostgresImporter creates an importer for schemaName ("public" when empty).
func NewPostgresImporter(client *PostgresClient, schemaName string, log *logger.Logger) *PostgresImporter {
	if schemaName == "" {
		schemaName = "public"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PostgresImporter{client: client, schema: schemaName, log: log}
}

// Tables lists the base tables of the schema.
func (p *PostgresImporter) Tables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := p.client.GetConnection().Query(ctx, query, p.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// Import reads every requested table, or all tables when none are named.
func (p *PostgresImporter) Import(ctx context.Context, tables []string) ([]*ra.Relation, error) {
	names, err := resolveTables(ctx, p, tables)
	if err != nil {
		return nil, err
	}

	rels := make([]*ra.Relation, 0, len(names))
	for _, name := range names {
		rel, err := p.importTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to import table %s: %w", name, err)
		}
		p.log.Debug("imported table", "table", name, "rows", len(rel.Rows))
		rels = append(rels, rel)
	}
	return rels, nil
}

func (p *PostgresImporter) importTable(ctx context.Context, table string) (*ra.Relation, error) {
	query := "SELECT * FROM " + pgx.Identifier{p.schema, table}.Sanitize()

	rows, err := p.client.GetConnection().Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	attrs := make([]string, len(fields))
	for i, f := range fields {
		attrs[i] = f.Name
	}

	var out []ra.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(ra.Row, len(vals))
		for i, v := range vals {
			row[i] = toValue(v, "")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return newRelation(table, attrs, out)
}
