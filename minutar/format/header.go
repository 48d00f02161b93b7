package format

import (
	"bytes"

	"github.com/pkg/errors"
)

// ParseHeader validates one header block and decodes it into a FileRecord.
// The block must not be all zeros; end-of-archive detection belongs to the
// stream reader.
func ParseHeader(blk *Block) (*FileRecord, error) {
	if !bytes.HasPrefix(blk.Field(FIELD_MAGIC), MAGIC_BYTES) {
		return nil, errors.Wrapf(ErrFormat, "bad magic %q", blk.Field(FIELD_MAGIC))
	}

	stored, err := ParseOctal(blk.Field(FIELD_CHECKSUM), 32)
	if err != nil {
		return nil, errors.Wrap(err, "checksum")
	}
	if computed := blk.Checksum(); stored != computed {
		return nil, errors.Wrapf(ErrFormat, "checksum mismatch: header says %o, block sums to %o", stored, computed)
	}

	flag := blk[FIELD_TYPEFLAG.Offset]
	typ, ok := LookupTypeFlag(flag)
	if !ok {
		return nil, errors.Wrapf(ErrFormat, "unrecognized type flag %q", flag)
	}

	rec := &FileRecord{Type: typ}

	mode, err := ParseOctal(blk.Field(FIELD_MODE), 32)
	if err != nil {
		return nil, errors.Wrap(err, "mode")
	}
	size, err := ParseOctal(blk.Field(FIELD_SIZE), 63)
	if err != nil {
		return nil, errors.Wrap(err, "size")
	}
	devmajor, err := ParseOctal(blk.Field(FIELD_DEVMAJOR), 32)
	if err != nil {
		return nil, errors.Wrap(err, "devmajor")
	}
	devminor, err := ParseOctal(blk.Field(FIELD_DEVMINOR), 32)
	if err != nil {
		return nil, errors.Wrap(err, "devminor")
	}
	if rec.MTime, err = ParseOctalTime(blk.Field(FIELD_MTIME)); err != nil {
		return nil, errors.Wrap(err, "mtime")
	}

	if !typ.IsExtension() && mode >= MODE_LIMIT {
		return nil, errors.Wrapf(ErrFormat, "mode %#o not allowed on %s", mode, typ)
	}

	if blk[FIELD_NAME.Offset] == 0 {
		return nil, errors.Wrap(ErrFormat, "empty name")
	}
	rec.Name = ParseString(blk.Field(FIELD_NAME))
	if blk[FIELD_LINKNAME.Offset] != 0 {
		rec.LinkTarget = ParseString(blk.Field(FIELD_LINKNAME))
	}
	if blk[FIELD_PREFIX.Offset] != 0 {
		rec.Prefix = ParseString(blk.Field(FIELD_PREFIX))
	}

	// A POSIX prefix this long occupies the bytes star uses for atime/ctime.
	if len(rec.Prefix) <= STAR_PREFIX_WIDTH {
		if rec.ATime, err = ParseOctalTime(blk.Field(FIELD_ATIME)); err != nil {
			return nil, errors.Wrap(err, "atime")
		}
		if rec.CTime, err = ParseOctalTime(blk.Field(FIELD_CTIME)); err != nil {
			return nil, errors.Wrap(err, "ctime")
		}
	}

	rec.Mode = uint32(mode)
	rec.DevMajor = uint32(devmajor)
	rec.DevMinor = uint32(devminor)
	if typ.HasContent() {
		rec.Size = int64(size)
	}

	return rec, nil
}
