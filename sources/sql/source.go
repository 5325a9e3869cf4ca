package exportsql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-sqlexport/export"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Source opens SQLite database files through Bun.
type Source struct {
	// ReadWrite opens the database without the read-only flag.
	ReadWrite bool
}

// NewSource creates a read-only SQLite source.
func NewSource() *Source {
	return &Source{}
}

// Open connects to the database file at path.
func (s *Source) Open(ctx context.Context, path string) (export.Conn, error) {
	if strings.TrimSpace(path) == "" {
		return nil, export.NewError(export.KindSourceUnavailable, "source path is required", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, export.NewError(export.KindSourceUnavailable, fmt.Sprintf("source %q not accessible", path), err)
	}
	if info.IsDir() {
		return nil, export.NewError(export.KindSourceUnavailable, fmt.Sprintf("source %q is a directory", path), nil)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, s.dsn(path))
	if err != nil {
		return nil, export.NewError(export.KindSourceUnavailable, "sqlite open failed", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, export.NewError(export.KindSourceUnavailable, "sqlite ping failed", err)
	}
	return &Conn{DB: db}, nil
}

func (s *Source) dsn(path string) string {
	if s != nil && s.ReadWrite {
		return path
	}
	dsn := url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}
	return dsn.String()
}

// Conn is a single Bun-backed SQLite connection.
type Conn struct {
	DB *bun.DB
}

// Query executes query and returns a batched cursor over its rows.
func (c *Conn) Query(ctx context.Context, query string) (export.Cursor, error) {
	if c == nil || c.DB == nil {
		return nil, export.NewError(export.KindSourceUnavailable, "connection is closed", nil)
	}
	rows, err := c.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, export.NewError(export.KindQuery, "query rejected", err)
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		_ = rows.Close()
		return nil, export.NewError(export.KindQuery, "read result columns", err)
	}
	columns := make([]export.Column, 0, len(types))
	for _, ct := range types {
		columns = append(columns, export.Column{
			Name: ct.Name(),
			Type: strings.ToLower(ct.DatabaseTypeName()),
		})
	}

	return &Cursor{rows: rows, schema: export.Schema{Columns: columns}}, nil
}

// Close releases the connection.
func (c *Conn) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	err := c.DB.Close()
	c.DB = nil
	return err
}

// Cursor reads a query result in bounded batches.
type Cursor struct {
	rows   *sql.Rows
	schema export.Schema
	done   bool
}

// Schema reports the result columns.
func (c *Cursor) Schema() export.Schema {
	return c.schema
}

// Fetch returns up to limit rows. An empty batch means the result is exhausted.
func (c *Cursor) Fetch(ctx context.Context, limit int) (export.Batch, error) {
	if limit <= 0 {
		return nil, export.NewError(export.KindConfig, "fetch limit must be positive", nil)
	}
	if c.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width := len(c.schema.Columns)
	batch := make(export.Batch, 0, min(limit, 1024))
	for len(batch) < limit {
		if !c.rows.Next() {
			c.done = true
			if err := c.rows.Err(); err != nil {
				return nil, export.NewError(export.KindFetch, "iterate rows", err)
			}
			break
		}
		row := make(export.Row, width)
		dest := make([]any, width)
		for i := range row {
			dest[i] = &row[i]
		}
		if err := c.rows.Scan(dest...); err != nil {
			return nil, export.NewError(export.KindFetch, "scan row", err)
		}
		batch = append(batch, row)
	}
	return batch, nil
}

// Close releases the underlying result set.
func (c *Cursor) Close() error {
	if c == nil || c.rows == nil {
		return nil
	}
	return c.rows.Close()
}
