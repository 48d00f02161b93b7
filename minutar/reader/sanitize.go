package reader

import (
	"strings"

	"github.com/indrora/minutar/minutar/format"
)

// Sanitize makes the record's name relative by removing one leading slash.
// Only the first slash goes; "../" segments are left alone.
func Sanitize(rec *format.FileRecord) {
	rec.Name = strings.TrimPrefix(rec.Name, "/")
}
