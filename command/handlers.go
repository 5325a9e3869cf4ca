package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-sqlexport/export"
)

// TableExporter runs a configured export.
type TableExporter interface {
	Export(ctx context.Context, cfg export.Config) (export.Result, error)
}

// ExportTableHandler handles table exports.
type ExportTableHandler struct {
	Exporter TableExporter
}

func NewExportTableHandler(exporter TableExporter) *ExportTableHandler {
	return &ExportTableHandler{Exporter: exporter}
}

func (h *ExportTableHandler) Execute(ctx context.Context, msg ExportTable) error {
	if h == nil || h.Exporter == nil {
		return errors.New("exporter is required", errors.CategoryInternal).
			WithTextCode("EXPORTER_REQUIRED")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	result, err := h.Exporter.Export(ctx, msg.Config)
	if err != nil {
		return export.AsGoError(err)
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	if res := gcmd.ResultFromContext[export.Result](ctx); res != nil {
		res.Store(result)
	}
	return nil
}
