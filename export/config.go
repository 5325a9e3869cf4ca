package export

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultBatchSize  = 1000
	DefaultDelimiter  = ','
	DefaultSourcePath = "mydata.sql"
	DefaultQuery      = "select * from mydata"
	DefaultSinkPath   = "output.csv"
)

// Config holds the export settings.
type Config struct {
	SourcePath string
	Query      string
	SinkPath   string
	BatchSize  int
	Output     OutputOptions
}

// OutputOptions configures the delimited output.
type OutputOptions struct {
	// Delimiter separates fields. Zero means DefaultDelimiter.
	Delimiter rune
	// IncludeHeader writes the column names once, before the first row.
	IncludeHeader bool
	// IncludeIndex prefixes every row with its 0-based position in the result set.
	IncludeIndex bool
	// IndexLabel is the header label of the index column.
	IndexLabel string
	// NullValue is written for NULL fields.
	NullValue string
}

// Defaults returns a Config with the stock export settings.
func Defaults() Config {
	return Config{
		SourcePath: DefaultSourcePath,
		Query:      DefaultQuery,
		SinkPath:   DefaultSinkPath,
		BatchSize:  DefaultBatchSize,
		Output: OutputOptions{
			Delimiter: DefaultDelimiter,
		},
	}
}

// Validate checks the configuration before any resource is opened.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return NewError(KindConfig, "batch size must be positive", nil)
	}
	if strings.TrimSpace(c.SourcePath) == "" {
		return NewError(KindConfig, "source path is required", nil)
	}
	if strings.TrimSpace(c.Query) == "" {
		return NewError(KindConfig, "query is required", nil)
	}
	if strings.TrimSpace(c.SinkPath) == "" {
		return NewError(KindConfig, "sink path is required", nil)
	}
	if c.Output.Delimiter != 0 && !ValidDelimiter(c.Output.Delimiter) {
		return NewError(KindConfig, "invalid delimiter", nil)
	}
	return nil
}

func (o OutputOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// ValidDelimiter reports whether r can separate fields.
func ValidDelimiter(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
