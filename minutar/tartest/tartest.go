// Package tartest builds literal tar archives in memory for tests.
package tartest

import (
	"bytes"
	"fmt"

	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/ioutil"
)

const (
	MAGIC_POSIX = "ustar\x00"
	MAGIC_GNU   = "ustar "
)

// Entry is the raw content of one header plus its content.
type Entry struct {
	Name     string
	LinkName string
	Prefix   string
	// Raw type flag byte, e.g. '0' or 'L'
	Type byte
	Mode int64
	// Declared size; when zero, len(Content) is used
	Size     int64
	MTime    int64
	ATime    int64
	CTime    int64
	DevMajor int64
	DevMinor int64
	// Defaults to MAGIC_POSIX
	Magic   string
	Content []byte
}

// FormatOctal renders v as width-1 zero-padded octal digits and a NUL.
func FormatOctal(v int64, width int) []byte {
	return []byte(fmt.Sprintf("%0*o\x00", width-1, v))
}

func put(blk *format.Block, f format.Field, b []byte) {
	copy(blk.Field(f), b)
}

// Header lays out e as a header block with a valid checksum.
func Header(e Entry) format.Block {
	var blk format.Block

	mode := e.Mode
	if mode == 0 {
		mode = 0o644
		if e.Type == '5' {
			mode = 0o755
		}
	}
	size := e.Size
	if size == 0 {
		size = int64(len(e.Content))
	}
	magic := e.Magic
	if magic == "" {
		magic = MAGIC_POSIX
	}

	put(&blk, format.FIELD_NAME, []byte(e.Name))
	put(&blk, format.FIELD_MODE, FormatOctal(mode, format.FIELD_MODE.Width))
	put(&blk, format.FIELD_SIZE, FormatOctal(size, format.FIELD_SIZE.Width))
	put(&blk, format.FIELD_MTIME, FormatOctal(e.MTime, format.FIELD_MTIME.Width))
	blk[format.FIELD_TYPEFLAG.Offset] = e.Type
	put(&blk, format.FIELD_LINKNAME, []byte(e.LinkName))
	put(&blk, format.FIELD_MAGIC, []byte(magic))
	put(&blk, format.FIELD_DEVMAJOR, FormatOctal(e.DevMajor, format.FIELD_DEVMAJOR.Width))
	put(&blk, format.FIELD_DEVMINOR, FormatOctal(e.DevMinor, format.FIELD_DEVMINOR.Width))
	put(&blk, format.FIELD_PREFIX, []byte(e.Prefix))
	if e.ATime != 0 {
		put(&blk, format.FIELD_ATIME, FormatOctal(e.ATime, format.FIELD_ATIME.Width))
	}
	if e.CTime != 0 {
		put(&blk, format.FIELD_CTIME, FormatOctal(e.CTime, format.FIELD_CTIME.Width))
	}

	SetChecksum(&blk)
	return blk
}

// SetChecksum recomputes and stores the block's checksum.
func SetChecksum(blk *format.Block) {
	sum := blk.Checksum()
	copy(blk.Field(format.FIELD_CHECKSUM), fmt.Sprintf("%06o\x00 ", sum))
}

// Archive accumulates blocks.
type Archive struct {
	buf     bytes.Buffer
	blockio *ioutil.BlockWriter
}

func NewArchive() *Archive {
	a := &Archive{}
	a.blockio = ioutil.NewBlockWriter(&a.buf, format.BLOCK_SIZE)
	return a
}

// Add appends a header for e followed by its content, padded to a block.
func (a *Archive) Add(e Entry) *Archive {
	blk := Header(e)
	return a.AddBlock(blk).Content(e.Content)
}

// AddBlock appends a prepared header block verbatim.
func (a *Archive) AddBlock(blk format.Block) *Archive {
	a.blockio.Write(blk[:])
	return a
}

// Content appends p and pads it out to a block boundary.
func (a *Archive) Content(p []byte) *Archive {
	if len(p) > 0 {
		a.blockio.WriteWhole(p)
	}
	return a
}

// LongName appends a GNU long-name header carrying name.
func (a *Archive) LongName(name string) *Archive {
	return a.Add(Entry{Name: "././@LongLink", Type: 'L', Content: append([]byte(name), 0)})
}

// LongLink appends a GNU long-link header carrying target.
func (a *Archive) LongLink(target string) *Archive {
	return a.Add(Entry{Name: "././@LongLink", Type: 'K', Content: append([]byte(target), 0)})
}

// Raw appends p with no padding.
func (a *Archive) Raw(p []byte) *Archive {
	a.blockio.Write(p)
	return a
}

// Close appends the two zero blocks that end an archive.
func (a *Archive) Close() *Archive {
	a.blockio.Align()
	var zero format.Block
	a.blockio.Write(zero[:])
	a.blockio.Write(zero[:])
	return a
}

func (a *Archive) Bytes() []byte {
	return a.buf.Bytes()
}

func (a *Archive) Reader() *bytes.Reader {
	return bytes.NewReader(a.buf.Bytes())
}
