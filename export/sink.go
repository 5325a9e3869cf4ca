package export

import (
	"io"
	"os"
)

// SinkOpener opens the destination stream for an export.
type SinkOpener func(path string) (io.WriteCloser, error)

// OpenFileSink creates or truncates the file at path for writing.
func OpenFileSink(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}
