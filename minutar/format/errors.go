package format

import "github.com/pkg/errors"

// Framing errors. Any of these means the stream can no longer be trusted and
// reading must stop.
var (
	ErrFormat      = errors.New("malformed archive")
	ErrTruncated   = errors.New("truncated archive")
	ErrSizeLimit   = errors.New("size limit exceeded")
	ErrUnsupported = errors.New("unsupported archive feature")
)

// IsFraming reports whether err is one of the framing errors above.
func IsFraming(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrSizeLimit) ||
		errors.Is(err, ErrUnsupported)
}
