//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package extract

import "github.com/indrora/minutar/minutar/format"

func makeNode(path string, rec *format.FileRecord) error {
	return ErrUnsupportedNode
}
