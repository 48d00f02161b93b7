package extract

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMissingLinkTarget = errors.New("link has no target")
	ErrEmptyName         = errors.New("empty name")
	ErrUnsupportedNode   = errors.New("node type not supported on this platform")
)

// FilesystemError is a failure to materialize one node. The archive framing
// is unaffected, so the walker records it and moves on.
type FilesystemError struct {
	Op   string
	Name string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func fsError(op, name string, err error) error {
	return &FilesystemError{Op: op, Name: name, Err: err}
}

// IsFilesystemError reports whether err is (or wraps) a FilesystemError.
func IsFilesystemError(err error) bool {
	var fsErr *FilesystemError
	return errors.As(err, &fsErr)
}
