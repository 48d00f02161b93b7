//go:build linux || darwin || freebsd || netbsd || openbsd

package extract

import (
	"golang.org/x/sys/unix"

	"github.com/indrora/minutar/minutar/format"
)

// makeNode creates a device node or fifo with mknod(2)/mkfifo(3).
func makeNode(path string, rec *format.FileRecord) error {
	mode := rec.Mode & 0o7777

	switch rec.Type {
	case format.TYPE_CHAR_DEVICE:
		return unix.Mknod(path, unix.S_IFCHR|mode, nodeDevice(rec))
	case format.TYPE_BLOCK_DEVICE:
		return unix.Mknod(path, unix.S_IFBLK|mode, nodeDevice(rec))
	case format.TYPE_FIFO:
		return unix.Mkfifo(path, mode)
	default:
		return ErrUnsupportedNode
	}
}
