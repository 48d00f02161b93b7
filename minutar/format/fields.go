package format

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// FieldKind selects the decoder used for a header field.
type FieldKind uint8

const (
	FIELD_STRING FieldKind = iota
	FIELD_OCTAL
	FIELD_TIME
	FIELD_RAW
)

// Widest octal field a header may carry.
const MAX_OCTAL_WIDTH = 14

// Field describes one fixed-width sub-field of a header block.
type Field struct {
	Name   string
	Offset int
	Width  int
	Kind   FieldKind
}

var (
	FIELD_NAME     = Field{"name", 0, 100, FIELD_STRING}
	FIELD_MODE     = Field{"mode", 100, 8, FIELD_OCTAL}
	FIELD_SIZE     = Field{"size", 124, 12, FIELD_OCTAL}
	FIELD_MTIME    = Field{"mtime", 136, 12, FIELD_TIME}
	FIELD_CHECKSUM = Field{"chksum", 148, 8, FIELD_OCTAL}
	FIELD_TYPEFLAG = Field{"typeflag", 156, 1, FIELD_RAW}
	FIELD_LINKNAME = Field{"linkname", 157, 100, FIELD_STRING}
	FIELD_MAGIC    = Field{"magic", 257, 6, FIELD_RAW}
	FIELD_DEVMAJOR = Field{"devmajor", 329, 8, FIELD_OCTAL}
	FIELD_DEVMINOR = Field{"devminor", 337, 8, FIELD_OCTAL}
	FIELD_PREFIX   = Field{"prefix", 345, 155, FIELD_STRING}
	FIELD_ATIME    = Field{"atime", 476, 12, FIELD_TIME}
	FIELD_CTIME    = Field{"ctime", 488, 12, FIELD_TIME}
)

// Layout lists every field the header decoder consumes, in block order.
var Layout = []Field{
	FIELD_NAME,
	FIELD_MODE,
	FIELD_SIZE,
	FIELD_MTIME,
	FIELD_CHECKSUM,
	FIELD_TYPEFLAG,
	FIELD_LINKNAME,
	FIELD_MAGIC,
	FIELD_DEVMAJOR,
	FIELD_DEVMINOR,
	FIELD_PREFIX,
	FIELD_ATIME,
	FIELD_CTIME,
}

// Block is one raw 512-byte archive block.
type Block [BLOCK_SIZE]byte

// Field returns the bytes of f within the block.
func (b *Block) Field(f Field) []byte {
	return b[f.Offset : f.Offset+f.Width]
}

// IsZero reports whether every byte in the block is NUL.
func (b *Block) IsZero() bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Checksum computes the header checksum: the unsigned sum of all bytes with
// the checksum field itself counted as spaces.
func (b *Block) Checksum() uint64 {
	var sum uint64
	lo, hi := FIELD_CHECKSUM.Offset, FIELD_CHECKSUM.Offset+FIELD_CHECKSUM.Width
	for i, c := range b {
		if i >= lo && i < hi {
			sum += ' '
		} else {
			sum += uint64(c)
		}
	}
	return sum
}

// Decode runs the decoder selected by f.Kind and returns the value as one of
// string, uint64, int64 or []byte.
func (b *Block) Decode(f Field) (any, error) {
	switch f.Kind {
	case FIELD_STRING:
		return ParseString(b.Field(f)), nil
	case FIELD_OCTAL:
		return ParseOctal(b.Field(f), 64)
	case FIELD_TIME:
		return ParseOctalTime(b.Field(f))
	default:
		return append([]byte(nil), b.Field(f)...), nil
	}
}

// ParseString returns the field up to its first NUL, or the whole field if it
// holds none. No encoding validation is done.
func ParseString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// ParseOctal parses a NUL- or space-padded ASCII octal field into an unsigned
// integer that must fit in bits.
func ParseOctal(b []byte, bits int) (uint64, error) {
	if len(b) < 1 || len(b) > MAX_OCTAL_WIDTH {
		return 0, errors.Wrapf(ErrFormat, "octal field width %d out of range", len(b))
	}
	s := bytes.Trim(b, " \x00")
	if len(s) == 0 {
		return 0, nil
	}
	if s[0] == '-' {
		return 0, errors.Wrapf(ErrFormat, "negative octal field %q", s)
	}
	v, err := strconv.ParseUint(string(s), 8, bits)
	if err != nil {
		return 0, errors.Wrapf(ErrFormat, "invalid octal field %q", s)
	}
	return v, nil
}

// ParseOctalTime parses an octal field holding seconds since the epoch.
func ParseOctalTime(b []byte) (int64, error) {
	v, err := ParseOctal(b, 63)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}
