package export

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exporter drains a single query into a delimited file, one batch at a time.
type Exporter struct {
	Source      Source
	OpenSink    SinkOpener
	Logger      Logger
	Now         func() time.Time
	IDGenerator func() string
}

// NewExporter creates an exporter reading from source and writing files.
func NewExporter(source Source) *Exporter {
	return &Exporter{
		Source:      source,
		OpenSink:    OpenFileSink,
		Logger:      NopLogger{},
		Now:         time.Now,
		IDGenerator: uuid.NewString,
	}
}

// Export runs cfg to completion.
//
// The sink is truncated before the query runs, so a rejected query leaves an empty
// file behind. On failure, output up to the last completed batch stays on disk and
// must be treated as invalid. Failures are returned, not logged.
func (e *Exporter) Export(ctx context.Context, cfg Config) (result Result, err error) {
	if e == nil || e.Source == nil {
		return Result{}, NewError(KindInternal, "exporter source is not configured", nil)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	e.applyDefaults()

	result = Result{
		ID:        e.IDGenerator(),
		SinkPath:  cfg.SinkPath,
		StartedAt: e.Now(),
	}
	logger := e.Logger
	defer func() {
		result.Duration = e.Now().Sub(result.StartedAt)
	}()

	logger.Infof("export %s: %q from %s to %s (batch size %d)", result.ID, cfg.Query, cfg.SourcePath, cfg.SinkPath, cfg.BatchSize)

	conn, err := e.Source.Open(ctx, cfg.SourcePath)
	if err != nil {
		return result, wrapError(KindSourceUnavailable, "open source", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Errorf("export %s: close source: %v", result.ID, closeErr)
		}
	}()

	sink, err := e.OpenSink(cfg.SinkPath)
	if err != nil {
		return result, NewError(KindSinkUnavailable, "open sink", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = NewError(KindSinkUnavailable, "close sink", closeErr)
		}
	}()

	cursor, err := conn.Query(ctx, cfg.Query)
	if err != nil {
		return result, wrapError(KindQuery, "execute query", err)
	}
	defer func() {
		if closeErr := cursor.Close(); closeErr != nil {
			logger.Errorf("export %s: close cursor: %v", result.ID, closeErr)
		}
	}()

	schema := cursor.Schema()
	result.Columns = schema.Names()
	writer := NewBatchWriter(sink, schema, cfg.Output)

	for {
		if err := ctx.Err(); err != nil {
			return result, wrapError(KindCanceled, "export interrupted", err)
		}

		batch, err := cursor.Fetch(ctx, cfg.BatchSize)
		if err != nil {
			return result, wrapError(KindFetch, "fetch batch", err)
		}
		if len(batch) == 0 {
			break
		}
		if len(batch) > cfg.BatchSize {
			return result, NewError(KindInternal, "cursor returned more rows than requested", nil)
		}

		if err := writer.WriteBatch(batch); err != nil {
			return result, wrapError(KindSinkUnavailable, "write batch", err)
		}
		result.Batches++
		result.Rows = writer.Rows()
		result.Bytes = writer.Bytes()
		logger.Debugf("export %s: batch %d wrote %d rows (%d total)", result.ID, result.Batches, len(batch), result.Rows)
	}

	logger.Infof("export %s completed: %d rows in %d batches, %d bytes", result.ID, result.Rows, result.Batches, result.Bytes)
	return result, nil
}

func (e *Exporter) applyDefaults() {
	if e.OpenSink == nil {
		e.OpenSink = OpenFileSink
	}
	if e.Logger == nil {
		e.Logger = NopLogger{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.IDGenerator == nil {
		e.IDGenerator = uuid.NewString
	}
}
