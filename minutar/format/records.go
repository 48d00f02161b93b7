package format

import (
	"io/fs"
	"time"
)

// FileRecord describes one entry of the archive once its header (and any
// extension headers in front of it) has been decoded.
type FileRecord struct {
	// Relative path of the node
	Name string `cbor:"0,keyasint"`
	// Target of a hard or symbolic link, empty otherwise
	LinkTarget string `cbor:"1,keyasint,omitempty"`
	// USTAR path prefix. Decoded, but never joined with Name.
	Prefix string   `cbor:"2,keyasint,omitempty"`
	Type   TypeFlag `cbor:"3,keyasint"`
	// Bytes of content following the header
	Size     int64  `cbor:"4,keyasint"`
	Mode     uint32 `cbor:"5,keyasint"`
	MTime    int64  `cbor:"6,keyasint"`
	ATime    int64  `cbor:"7,keyasint,omitempty"`
	CTime    int64  `cbor:"8,keyasint,omitempty"`
	DevMajor uint32 `cbor:"9,keyasint,omitempty"`
	DevMinor uint32 `cbor:"10,keyasint,omitempty"`
	// Byte offset of the header block in the archive stream
	Offset int64 `cbor:"11,keyasint"`
}

// EndOfArchive is the record produced for the closing pair of zero blocks.
func EndOfArchive(offset int64) *FileRecord {
	return &FileRecord{Type: TYPE_END_OF_ARCHIVE, Offset: offset}
}

// Perm converts the header mode to permission bits. Only the sticky bit
// survives besides rwx, since higher bits are refused at decode time.
func (r *FileRecord) Perm() fs.FileMode {
	perm := fs.FileMode(r.Mode & 0o777)
	if r.Mode&0o1000 != 0 {
		perm |= fs.ModeSticky
	}
	return perm
}

func (r *FileRecord) ModTime() time.Time {
	return time.Unix(r.MTime, 0)
}
