/*
Copyright © 2022 Morgan Gangwere <morgan.gangwere@gmail.com>
*/
package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/indrora/minutar/minutar/reader"
)

type archiveStream struct {
	io.Reader
	closers []io.Closer
}

func (s *archiveStream) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openArchive opens name ("-" is stdin) and wraps it in the requested
// decompressor. Failures are reported with EXIT_OPEN.
func openArchive(name, compression string) (io.ReadCloser, error) {
	ctype, err := reader.ParseCompression(compression)
	if err != nil {
		return nil, withCode(EXIT_USAGE, err)
	}

	var file *os.File
	if name == "-" {
		file = os.Stdin
	} else if file, err = os.Open(name); err != nil {
		return nil, withCode(EXIT_OPEN, errors.Wrap(err, "open failed"))
	}

	dec, err := reader.Decompress(file, ctype)
	if err != nil {
		file.Close()
		return nil, withCode(EXIT_OPEN, errors.Wrapf(err, "open %s", name))
	}
	return &archiveStream{Reader: dec, closers: []io.Closer{file, dec}}, nil
}
