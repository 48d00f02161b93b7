package ioutil

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// BlockWriter pads whatever is written to it out to whole blocks.
type BlockWriter struct {
	writer              io.Writer
	writtenSinceRealign int64
	bsize               int64
}

func NewBlockWriter(destination io.Writer, blockSize int64) *BlockWriter {
	return &BlockWriter{
		writer: destination,
		bsize:  blockSize,
	}
}

func (k *BlockWriter) Write(p []byte) (n int, err error) {
	written, err := k.writer.Write(p)
	k.writtenSinceRealign += int64(written)
	return written, err
}

// WriteWhole writes p and pads the stream to the next block boundary.
func (k *BlockWriter) WriteWhole(p []byte) (n int, err error) {
	n, err = k.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "failed to write block")
	}
	err = k.Align()
	return n, err
}

func (k *BlockWriter) Align() error {
	k.writtenSinceRealign %= k.bsize
	if k.writtenSinceRealign != 0 {
		toWrite := k.bsize - k.writtenSinceRealign

		empty := bytes.Repeat([]byte{0}, int(toWrite))

		_, err := k.writer.Write(empty)
		if err != nil {
			return errors.Wrap(err, "failed to finish out block")
		}
	}
	k.writtenSinceRealign = 0
	return nil
}

// Close aligns the stream and closes the destination if it is an io.Closer.
func (k *BlockWriter) Close() error {
	if err := k.Align(); err != nil {
		return err
	}

	if closer, ok := k.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
