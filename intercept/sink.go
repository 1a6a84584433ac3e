package intercept

import (
	"io"
	"os"
	"path/filepath"
)

// DefaultLogName is the fixed diagnostic file created in the system
// temporary directory when no other destination is configured.
const DefaultLogName = "DEBUG.LOG"

// Sink provides append access to the shared diagnostic destination. Every
// intercepted call opens the sink, writes its record and closes it again,
// matching the behavior of the library stubs this package replaces.
type Sink interface {
	Append() (io.WriteCloser, error)
}

// FileSink appends to a single plain-text file. Concurrent callers are not
// synchronized beyond what append-mode opening gives on the platform.
type FileSink struct {
	Path string
}

func NewFileSink(path string) FileSink {
	if len(path) == 0 {
		path = filepath.Join(os.TempDir(), DefaultLogName)
	}
	return FileSink{Path: path}
}

func (s FileSink) Append() (io.WriteCloser, error) {
	return os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
