package command

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-sqlexport/export"
)

// ExportTable exports one query result into a delimited file.
type ExportTable struct {
	Config export.Config
	Result *export.Result
}

func (ExportTable) Type() string { return "export:table" }

func (msg ExportTable) Validate() error {
	if msg.Config.BatchSize <= 0 {
		return errors.New("batch size must be positive", errors.CategoryValidation).
			WithTextCode("BATCH_SIZE_INVALID")
	}
	if strings.TrimSpace(msg.Config.SourcePath) == "" {
		return errors.New("source path is required", errors.CategoryValidation).
			WithTextCode("SOURCE_PATH_REQUIRED")
	}
	if strings.TrimSpace(msg.Config.Query) == "" {
		return errors.New("query is required", errors.CategoryValidation).
			WithTextCode("QUERY_REQUIRED")
	}
	if strings.TrimSpace(msg.Config.SinkPath) == "" {
		return errors.New("sink path is required", errors.CategoryValidation).
			WithTextCode("SINK_PATH_REQUIRED")
	}
	if d := msg.Config.Output.Delimiter; d != 0 && !export.ValidDelimiter(d) {
		return errors.New("delimiter is invalid", errors.CategoryValidation).
			WithTextCode("DELIMITER_INVALID")
	}
	return nil
}
