package reader

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/indrora/minutar/minutar/format"
)

// A long name and a long link may each appear once in front of an entry.
const MAX_EXTENSION_HEADERS = 2

// resolver collects GNU long-name/long-link payloads until the header they
// apply to shows up. Each slot can be filled once, which is what forces the
// two extension headers to alternate.
type resolver struct {
	longName *string
	longLink *string
}

func (res *resolver) slot(t format.TypeFlag) **string {
	if t == format.TYPE_GNU_LONG_NAME {
		return &res.longName
	}
	return &res.longLink
}

func (res *resolver) apply(rec *format.FileRecord) {
	if res.longName != nil {
		rec.Name = *res.longName
	}
	if res.longLink != nil {
		rec.LinkTarget = *res.longLink
	}
}

// resolve is entered with an extension record just read from the stream and
// returns the first non-extension record after it, with any pending long name
// or long link applied.
func (reader *Reader) resolve(rec *format.FileRecord) (*format.FileRecord, error) {
	var res resolver

	for seen := 0; ; seen++ {
		if rec.Type.IsPAX() {
			return nil, errors.Wrapf(format.ErrUnsupported, "%s at offset %d", rec.Type, rec.Offset)
		}
		if !rec.Type.IsExtension() {
			break
		}
		if seen == MAX_EXTENSION_HEADERS {
			return nil, errors.Wrapf(format.ErrFormat, "too many extension headers before offset %d", rec.Offset)
		}

		slot := res.slot(rec.Type)
		if *slot != nil {
			return nil, errors.Wrapf(format.ErrFormat, "repeated %s header at offset %d", rec.Type, rec.Offset)
		}
		payload, err := reader.readPayload(rec)
		if err != nil {
			return nil, err
		}
		*slot = &payload

		if rec, err = reader.readHeader(); err != nil {
			return nil, err
		}
	}

	if rec.Type == format.TYPE_END_OF_ARCHIVE {
		return nil, errors.Wrapf(format.ErrFormat, "extension header not followed by an entry at offset %d", rec.Offset)
	}

	res.apply(rec)
	return rec, nil
}

// readPayload reads the content of a long-name or long-link header, which
// must be a single NUL-terminated string filling the whole content region.
func (reader *Reader) readPayload(rec *format.FileRecord) (string, error) {
	if rec.Size > format.MAX_EXTENSION_PAYLOAD {
		return "", errors.Wrapf(format.ErrSizeLimit, "%s payload of %d bytes at offset %d", rec.Type, rec.Size, rec.Offset)
	}

	buf := make([]byte, rec.Size)
	n, err := io.ReadFull(reader.stream, buf)
	reader.remaining -= int64(n)
	if err != nil {
		return "", truncated(err, "read "+rec.Type.String()+" payload")
	}

	if len(buf) == 0 || bytes.IndexByte(buf, 0) != len(buf)-1 {
		return "", errors.Wrapf(format.ErrFormat, "malformed %s payload at offset %d", rec.Type, rec.Offset)
	}
	return string(buf[:len(buf)-1]), nil
}
