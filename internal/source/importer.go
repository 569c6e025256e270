// Package source imports relations from SQL databases.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"raDB/internal/logger"
	"raDB/internal/ra"
)

// Importer turns database tables into relations. The relation is named
// after the table and keeps the table's column order.
type Importer interface {
	Tables(ctx context.Context) ([]string, error)
	Import(ctx context.Context, tables []string) ([]*ra.Relation, error)
}

// Kind names a supported database.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMySQL    Kind = "mysql"
)

// Open connects to a database and returns its importer together with a
// function that closes the connection. schema only applies to PostgreSQL.
func Open(ctx context.Context, kind Kind, dsn, schema string, log *logger.Logger) (Importer, func() error, error) {
	switch kind {
	case KindSQLite:
		client, err := NewSQLiteClient(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteImporter(client, log), client.Close, nil

	case KindMySQL:
		client, err := NewMySQLClient(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return NewMySQLImporter(client, log), client.Close, nil

	case KindPostgres:
		client, err := NewPostgresClient(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error { return client.Close(context.Background()) }
		return NewPostgresImporter(client, schema, log), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database kind %q", kind)
	}
}

// sqlImporter serves the database/sql drivers (SQLite, MySQL).
type sqlImporter struct {
	db          *sql.DB
	tablesQuery string
	quote       func(string) string
	log         *logger.Logger
}

// NewSQLiteImporter creates an importer over a SQLite database.
func NewSQLiteImporter(client *SQLiteClient, log *logger.Logger) Importer {
	return newSQLImporter(client.GetDB(), sqliteTablesQuery, sqliteQuote, log)
}

// NewMySQLImporter creates an importer over the connection's current database.
func NewMySQLImporter(client *MySQLClient, log *logger.Logger) Importer {
	return newSQLImporter(client.GetDB(), mysqlTablesQuery, mysqlQuote, log)
}

func newSQLImporter(db *sql.DB, tablesQuery string, quote func(string) string, log *logger.Logger) *sqlImporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &sqlImporter{db: db, tablesQuery: tablesQuery, quote: quote, log: log}
}

func (s *sqlImporter) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.tablesQuery)
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

func (s *sqlImporter) Import(ctx context.Context, tables []string) ([]*ra.Relation, error) {
	names, err := resolveTables(ctx, s, tables)
	if err != nil {
		return nil, err
	}

	rels := make([]*ra.Relation, 0, len(names))
	for _, name := range names {
		rel, err := s.importTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to import table %s: %w", name, err)
		}
		s.log.Debug("imported table", "table", name, "rows", len(rel.Rows))
		rels = append(rels, rel)
	}
	return rels, nil
}

func (s *sqlImporter) importTable(ctx context.Context, table string) (*ra.Relation, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+s.quote(table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	attrs := make([]string, len(colTypes))
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		attrs[i] = ct.Name()
		dbTypes[i] = ct.DatabaseTypeName()
	}

	var out []ra.Row
	for rows.Next() {
		vals := make([]any, len(attrs))
		ptrs := make([]any, len(attrs))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(ra.Row, len(vals))
		for i, v := range vals {
			row[i] = toValue(v, dbTypes[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return newRelation(table, attrs, out)
}

// resolveTables returns the requested tables, or every table when none are
// requested.
func resolveTables(ctx context.Context, imp Importer, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	names, err := imp.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return names, nil
}

func newRelation(table string, attrs []string, rows []ra.Row) (*ra.Relation, error) {
	rel := ra.NewRelation(table, ra.ColumnsOf(table, attrs...), rows)
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	return rel, nil
}

var integerTypes = map[string]bool{
	"INT": true, "INTEGER": true, "TINYINT": true, "SMALLINT": true,
	"MEDIUMINT": true, "BIGINT": true, "INT2": true, "INT4": true, "INT8": true,
	"UNSIGNED INT": true, "UNSIGNED BIGINT": true, "UNSIGNED TINYINT": true,
	"UNSIGNED SMALLINT": true, "UNSIGNED MEDIUMINT": true,
}

// toValue maps a scanned column onto the value model: integers become int
// values, NULL becomes the empty string and everything else its text.
// Drivers that return integers as text (MySQL's text protocol) are handled
// through the column's database type name.
func toValue(v any, dbType string) ra.Value {
	switch x := v.(type) {
	case nil:
		return ra.StringValue("")
	case int64:
		return ra.IntValue(x)
	case int32:
		return ra.IntValue(int64(x))
	case int16:
		return ra.IntValue(int64(x))
	case int8:
		return ra.IntValue(int64(x))
	case int:
		return ra.IntValue(int64(x))
	case uint64:
		return uintValue(x)
	case uint:
		return uintValue(uint64(x))
	case uint32:
		return ra.IntValue(int64(x))
	case uint16:
		return ra.IntValue(int64(x))
	case uint8:
		return ra.IntValue(int64(x))
	case []byte:
		return textValue(string(x), dbType)
	case string:
		return textValue(x, dbType)
	case float64:
		return ra.StringValue(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return ra.StringValue(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case bool:
		return ra.StringValue(strconv.FormatBool(x))
	case time.Time:
		return ra.StringValue(x.Format(time.RFC3339))
	default:
		return ra.StringValue(fmt.Sprint(x))
	}
}

// uintValue keeps unsigned values beyond the int64 range as their decimal
// text.
func uintValue(x uint64) ra.Value {
	if x > math.MaxInt64 {
		return ra.StringValue(strconv.FormatUint(x, 10))
	}
	return ra.IntValue(int64(x))
}

func textValue(s, dbType string) ra.Value {
	if integerTypes[strings.ToUpper(dbType)] {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ra.IntValue(i)
		}
	}
	return ra.StringValue(s)
}

func escapeQuote(name string, q byte) string {
	return strings.ReplaceAll(name, string(q), string([]byte{q, q}))
}
