package export

import (
	"context"
	"time"
)

// Column describes a result column as reported by the store.
type Column struct {
	Name string
	Type string
}

// Schema defines the columns of a result set.
type Schema struct {
	Columns []Column
}

// Names returns the column names in result order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		names = append(names, col.Name)
	}
	return names
}

// Row is a column-aligned record.
type Row []any

// Batch is a bounded chunk of rows produced by a single fetch.
type Batch []Row

// Source opens connections to a queryable store.
type Source interface {
	Open(ctx context.Context, path string) (Conn, error)
}

// Conn is a scoped connection to a store.
type Conn interface {
	Query(ctx context.Context, query string) (Cursor, error)
	Close() error
}

// Cursor drains a query result in batches.
// Fetch returns an empty batch once the result set is exhausted.
type Cursor interface {
	Schema() Schema
	Fetch(ctx context.Context, limit int) (Batch, error)
	Close() error
}

// Result captures a completed export.
type Result struct {
	ID        string
	Rows      int64
	Batches   int
	Bytes     int64
	Columns   []string
	SinkPath  string
	StartedAt time.Time
	Duration  time.Duration
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
