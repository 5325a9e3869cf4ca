package export

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	KindConfig            ErrorKind = "config"
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindQuery             ErrorKind = "query"
	KindFetch             ErrorKind = "fetch"
	KindSinkUnavailable   ErrorKind = "sink_unavailable"
	KindCanceled          ErrorKind = "canceled"
	KindInternal          ErrorKind = "internal"
)

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// wrapError keeps an existing export error intact and tags anything else with kind.
// Context cancellation always surfaces as KindCanceled.
func wrapError(kind ErrorKind, msg string, err error) error {
	if err == nil {
		return nil
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindCanceled, msg, err)
	}
	return NewError(kind, msg, err)
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var exportErr *ExportError
	if errors.As(err, &exportErr) && exportErr.Msg != "" {
		msg = exportErr.Error()
	}

	switch kind {
	case KindConfig:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode(string(kind))
	case KindSourceUnavailable, KindQuery, KindFetch, KindSinkUnavailable, KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode(string(kind))
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode(string(KindInternal))
	}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
