package extract

import (
	"golang.org/x/sys/unix"

	"github.com/indrora/minutar/minutar/format"
)

// mknod takes a 64-bit dev_t on FreeBSD.
func nodeDevice(rec *format.FileRecord) uint64 {
	return unix.Mkdev(rec.DevMajor, rec.DevMinor)
}
