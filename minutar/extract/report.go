package extract

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/indrora/minutar/minutar/format"
)

// Event describes a node that was just created.
type Event struct {
	Type       format.TypeFlag
	Name       string
	LinkTarget string
	Size       int64
	DevMajor   uint32
	DevMinor   uint32
	// BLAKE2b-256 of a regular file's content, when digests are enabled
	Digest []byte
}

func (e Event) String() string {
	switch e.Type {
	case format.TYPE_REGULAR, format.TYPE_CONTIGUOUS:
		if e.Digest != nil {
			return fmt.Sprintf("%s (%d bytes) blake2b-256:%s", e.Name, e.Size, hex.EncodeToString(e.Digest))
		}
		return fmt.Sprintf("%s (%d bytes)", e.Name, e.Size)
	case format.TYPE_HARDLINK:
		return fmt.Sprintf("%s link to %s", e.Name, e.LinkTarget)
	case format.TYPE_SYMLINK:
		return fmt.Sprintf("%s -> %s", e.Name, e.LinkTarget)
	case format.TYPE_CHAR_DEVICE, format.TYPE_BLOCK_DEVICE:
		return fmt.Sprintf("%s (%s %d,%d)", e.Name, e.Type, e.DevMajor, e.DevMinor)
	case format.TYPE_FIFO:
		return fmt.Sprintf("%s (fifo)", e.Name)
	default:
		return e.Name
	}
}

// Reporter receives one Event per extracted node.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

// LineReporter writes each event as one line of text.
type LineReporter struct {
	W io.Writer
}

func (r LineReporter) Report(e Event) {
	fmt.Fprintln(r.W, e.String())
}

type discardReporter struct{}

func (discardReporter) Report(Event) {}
