//go:build linux || darwin || netbsd || openbsd

package extract

import (
	"golang.org/x/sys/unix"

	"github.com/indrora/minutar/minutar/format"
)

// nodeDevice packs the record's major/minor pair the way mknod(2) expects.
func nodeDevice(rec *format.FileRecord) int {
	return int(unix.Mkdev(rec.DevMajor, rec.DevMinor))
}
