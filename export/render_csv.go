package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// BatchWriter serializes batches as delimited lines, one row per line.
type BatchWriter struct {
	cw      *countingWriter
	writer  *csv.Writer
	opts    OutputOptions
	schema  Schema
	started bool
	index   int64
}

// NewBatchWriter creates a writer for rows described by schema.
func NewBatchWriter(w io.Writer, schema Schema, opts OutputOptions) *BatchWriter {
	cw := &countingWriter{w: w}
	writer := csv.NewWriter(cw)
	writer.Comma = opts.delimiter()
	return &BatchWriter{cw: cw, writer: writer, opts: opts, schema: schema}
}

// WriteBatch writes every row of batch and flushes it to the underlying writer.
// The header, when enabled, precedes the first non-empty batch.
func (bw *BatchWriter) WriteBatch(batch Batch) error {
	if len(batch) == 0 {
		return nil
	}
	if !bw.started {
		bw.started = true
		if bw.opts.IncludeHeader {
			if err := bw.writeRecord(bw.header()); err != nil {
				return err
			}
		}
	}

	width := len(bw.schema.Columns)
	if bw.opts.IncludeIndex {
		width++
	}
	for _, row := range batch {
		if len(bw.schema.Columns) > 0 && len(row) != len(bw.schema.Columns) {
			return NewError(KindInternal, "row length does not match schema", nil)
		}
		record := make([]string, 0, width)
		if bw.opts.IncludeIndex {
			record = append(record, strconv.FormatInt(bw.index, 10))
		}
		for _, value := range row {
			record = append(record, FormatValue(value, bw.opts.NullValue))
		}
		if err := bw.writeRecord(record); err != nil {
			return err
		}
		bw.index++
	}

	bw.writer.Flush()
	return bw.writer.Error()
}

// writeRecord quotes a lone empty field so the line is not blank;
// csv.Reader skips blank lines.
func (bw *BatchWriter) writeRecord(record []string) error {
	if len(record) != 1 || record[0] != "" {
		return bw.writer.Write(record)
	}
	bw.writer.Flush()
	if err := bw.writer.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(bw.cw, "\"\"\n")
	return err
}

// Rows reports how many rows have been written.
func (bw *BatchWriter) Rows() int64 {
	return bw.index
}

// Bytes reports how many bytes have reached the underlying writer.
func (bw *BatchWriter) Bytes() int64 {
	return bw.cw.count
}

func (bw *BatchWriter) header() []string {
	headers := make([]string, 0, len(bw.schema.Columns)+1)
	if bw.opts.IncludeIndex {
		headers = append(headers, bw.opts.IndexLabel)
	}
	return append(headers, bw.schema.Names()...)
}
