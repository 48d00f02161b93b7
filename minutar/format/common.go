package format

/*

A tar archive is a sequence of 512-byte blocks. Every entry starts with a
header block, followed by zero or more content blocks padded with NULs.

struct USTAR_HEADER {
    char name[100];      //   0
    char mode[8];        // 100
    char uid[8];         // 108
    char gid[8];         // 116
    char size[12];       // 124
    char mtime[12];      // 136
    char chksum[8];      // 148
    char typeflag;       // 156
    char linkname[100];  // 157
    char magic[6];       // 257 "ustar\0" or GNU "ustar "
    char version[2];     // 263
    char uname[32];      // 265
    char gname[32];      // 297
    char devmajor[8];    // 329
    char devminor[8];    // 337
    char prefix[155];    // 345 (star: prefix[131], atime[12] @476, ctime[12] @488)
};

*/

const (
	MAGIC_STRING = "ustar"
	BLOCK_SIZE   = 512
)

var (
	MAGIC_BYTES = []byte(MAGIC_STRING)
)

// Mode bits at or above this value (set-gid, set-uid) are refused on
// node-creating entries.
const MODE_LIMIT = 0o2000

// Long name and long link payloads larger than this are refused.
const MAX_EXTENSION_PAYLOAD = 1 << 20

// Past this length the prefix field runs into the star atime/ctime fields.
const STAR_PREFIX_WIDTH = 131

// TypeFlag is the closed set of entry kinds a header can describe.
type TypeFlag uint8

const (
	TYPE_REGULAR TypeFlag = iota
	TYPE_HARDLINK
	TYPE_SYMLINK
	TYPE_CHAR_DEVICE
	TYPE_BLOCK_DEVICE
	TYPE_DIRECTORY
	TYPE_FIFO
	TYPE_CONTIGUOUS
	// Synthesized from the two zero blocks that close an archive.
	TYPE_END_OF_ARCHIVE

	// Extension types only ever live inside the reader.
	TYPE_GNU_LONG_NAME
	TYPE_GNU_LONG_LINK
	TYPE_PAX_HEADER
	TYPE_PAX_GLOBAL_HEADER
)

// typeFlags maps the on-disk type byte to a TypeFlag. NUL is the pre-POSIX
// spelling of a regular file.
var typeFlags = map[byte]TypeFlag{
	'\x00': TYPE_REGULAR,
	'0':    TYPE_REGULAR,
	'1':    TYPE_HARDLINK,
	'2':    TYPE_SYMLINK,
	'3':    TYPE_CHAR_DEVICE,
	'4':    TYPE_BLOCK_DEVICE,
	'5':    TYPE_DIRECTORY,
	'6':    TYPE_FIFO,
	'7':    TYPE_CONTIGUOUS,
	'L':    TYPE_GNU_LONG_NAME,
	'K':    TYPE_GNU_LONG_LINK,
	'x':    TYPE_PAX_HEADER,
	'g':    TYPE_PAX_GLOBAL_HEADER,
}

var typeNames = map[TypeFlag]string{
	TYPE_REGULAR:           "regular file",
	TYPE_HARDLINK:          "hard link",
	TYPE_SYMLINK:           "symbolic link",
	TYPE_CHAR_DEVICE:       "character device",
	TYPE_BLOCK_DEVICE:      "block device",
	TYPE_DIRECTORY:         "directory",
	TYPE_FIFO:              "fifo",
	TYPE_CONTIGUOUS:        "contiguous file",
	TYPE_END_OF_ARCHIVE:    "end of archive",
	TYPE_GNU_LONG_NAME:     "GNU long name",
	TYPE_GNU_LONG_LINK:     "GNU long link",
	TYPE_PAX_HEADER:        "PAX header",
	TYPE_PAX_GLOBAL_HEADER: "PAX global header",
}

// LookupTypeFlag decodes a header's type byte.
func LookupTypeFlag(b byte) (TypeFlag, bool) {
	t, ok := typeFlags[b]
	return t, ok
}

func (t TypeFlag) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsExtension reports whether t is a header that modifies the entry after it
// rather than describing a node of its own.
func (t TypeFlag) IsExtension() bool {
	switch t {
	case TYPE_GNU_LONG_NAME, TYPE_GNU_LONG_LINK, TYPE_PAX_HEADER, TYPE_PAX_GLOBAL_HEADER:
		return true
	default:
		return false
	}
}

// IsPAX reports whether t is one of the PAX extension headers.
func (t TypeFlag) IsPAX() bool {
	return t == TYPE_PAX_HEADER || t == TYPE_PAX_GLOBAL_HEADER
}

// HasContent reports whether the size field of a header of this type counts
// content blocks that follow it. Links, devices, directories and fifos are
// header-only.
func (t TypeFlag) HasContent() bool {
	switch t {
	case TYPE_REGULAR, TYPE_CONTIGUOUS:
		return true
	default:
		return t.IsExtension()
	}
}
