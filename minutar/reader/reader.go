package reader

import (
	"io"

	"github.com/pkg/errors"

	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/ioutil"
)

// Reader walks the entries of a tar stream. It owns the stream cursor: the
// content of the current entry is read through Reader.Read, and whatever is
// left unread is skipped by the next call to Next.

type ReaderState int

const (
	STATE_HEADER ReaderState = iota
	STATE_BODY
	STATE_DONE
	STATE_FAILED
)

type Reader struct {
	stream    *ioutil.BlockReader
	remaining int64
	state     ReaderState
	eoa       *format.FileRecord
	err       error
}

func NewReader(reader io.Reader) *Reader {
	return &Reader{
		stream: ioutil.NewBlockReader(reader, format.BLOCK_SIZE),
	}
}

// Next returns the next fully resolved, sanitized record. At the end of the
// archive it returns a record of type TYPE_END_OF_ARCHIVE, and keeps doing so
// without touching the stream. Errors are framing errors and are sticky.
func (reader *Reader) Next() (*format.FileRecord, error) {
	switch reader.state {
	case STATE_DONE:
		return reader.eoa, nil
	case STATE_FAILED:
		return nil, reader.err
	}

	rec, err := reader.readHeader()
	if err == nil && rec.Type.IsExtension() {
		rec, err = reader.resolve(rec)
	}
	if err != nil {
		return nil, reader.fail(err)
	}

	if rec.Type == format.TYPE_END_OF_ARCHIVE {
		reader.state = STATE_DONE
		reader.eoa = rec
		return rec, nil
	}

	Sanitize(rec)
	reader.state = STATE_BODY
	return rec, nil
}

// Read reads the content of the current record. It returns io.EOF once the
// record's size has been consumed.
func (reader *Reader) Read(b []byte) (int, error) {
	switch {
	case reader.state == STATE_FAILED:
		return 0, reader.err
	case reader.state != STATE_BODY || reader.remaining <= 0:
		return 0, io.EOF
	}
	if int64(len(b)) > reader.remaining {
		b = b[:reader.remaining]
	}
	n, err := reader.stream.Read(b)
	reader.remaining -= int64(n)
	if err == io.EOF && reader.remaining > 0 {
		return n, reader.fail(errors.Wrapf(format.ErrTruncated, "content ends %d bytes short", reader.remaining))
	}
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return n, reader.fail(errors.Wrap(err, "read content"))
	}
	return n, nil
}

// Remaining is the number of content bytes of the current record not yet read.
func (reader *Reader) Remaining() int64 {
	return reader.remaining
}

// Offset is the current position of the cursor in the stream.
func (reader *Reader) Offset() int64 {
	return reader.stream.Offset()
}

func (reader *Reader) fail(err error) error {
	reader.state = STATE_FAILED
	reader.err = err
	return err
}

// readHeader skips any unread content, realigns to a block boundary and
// decodes one header, detecting the end-of-archive marker.
func (reader *Reader) readHeader() (*format.FileRecord, error) {
	if reader.remaining > 0 {
		if err := reader.stream.Discard(reader.remaining); err != nil {
			return nil, truncated(err, "skip content")
		}
		reader.remaining = 0
	}
	if err := reader.stream.Realign(); err != nil {
		return nil, truncated(err, "skip padding")
	}

	offset := reader.stream.Offset()
	var block format.Block
	if err := reader.stream.ReadBlock(block[:]); err != nil {
		return nil, truncated(err, "read header")
	}

	if block.IsZero() {
		err := reader.stream.ReadBlock(block[:])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(format.ErrFormat, "malformed end of archive at offset %d", offset)
		}
		if err != nil {
			return nil, errors.Wrap(err, "read end of archive")
		}
		if !block.IsZero() {
			return nil, errors.Wrapf(format.ErrFormat, "malformed end of archive at offset %d", offset)
		}
		return format.EndOfArchive(offset), nil
	}

	rec, err := format.ParseHeader(&block)
	if err != nil {
		return nil, errors.Wrapf(err, "header at offset %d", offset)
	}
	rec.Offset = offset
	reader.remaining = rec.Size
	return rec, nil
}

func truncated(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(format.ErrTruncated, what)
	}
	return errors.Wrap(err, what)
}
