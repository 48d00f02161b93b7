package extract

import (
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBufferSize is the size of the buffer content is copied through.
	DefaultBufferSize = 8 << 10

	// DefaultDirMode is used for missing parent directories.
	DefaultDirMode = 0o755
)

type options struct {
	dir      string
	reporter Reporter
	logger   logrus.FieldLogger
	digests  bool
	bufSize  int
}

// Option configures an Extractor or Walker.
type Option func(*options)

// WithDirectory extracts relative to dir instead of the working directory.
func WithDirectory(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithReporter sets the sink for per-node status events.
// By default events are written as lines to stdout.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r == nil {
			r = discardReporter{}
		}
		o.reporter = r
	}
}

// WithLogger sets the logger used for per-record failures and debug output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDigests computes a BLAKE2b-256 digest of every regular file's content
// and attaches it to the reported event.
func WithDigests(enabled bool) Option {
	return func(o *options) {
		o.digests = enabled
	}
}

// WithBufferSize sets the copy buffer size. Values below one block are
// raised to one block.
func WithBufferSize(size int) Option {
	return func(o *options) {
		o.bufSize = size
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		dir:      ".",
		reporter: LineReporter{W: os.Stdout},
		logger:   logrus.StandardLogger(),
		bufSize:  DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.dir == "" {
		o.dir = "."
	}
	if o.bufSize < 512 {
		o.bufSize = 512
	}
	return o
}
