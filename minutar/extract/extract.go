package extract

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/ioutil"
)

// Extractor turns one record into the matching filesystem node.
type Extractor struct {
	dir      string
	buf      []byte
	digests  bool
	reporter Reporter
}

func NewExtractor(opts ...Option) *Extractor {
	return newExtractor(newOptions(opts))
}

func newExtractor(o *options) *Extractor {
	return &Extractor{
		dir:      o.dir,
		buf:      make([]byte, o.bufSize),
		digests:  o.digests,
		reporter: o.reporter,
	}
}

// Path maps an archive name onto the extraction directory.
func (e *Extractor) Path(name string) string {
	return filepath.Join(e.dir, filepath.FromSlash(name))
}

// EnsureParent creates every missing directory above the record's node.
func (e *Extractor) EnsureParent(rec *format.FileRecord) error {
	parent := filepath.Dir(e.Path(rec.Name))
	if err := os.MkdirAll(parent, DefaultDirMode); err != nil {
		return fsError("mkdir", parent, err)
	}
	return nil
}

// Extract creates the node described by rec. content must be positioned at
// the start of the record's content region; regular files consume exactly
// rec.Size bytes from it.
//
// A *FilesystemError means only this node failed. Any other error came from
// reading content and leaves the stream unusable.
func (e *Extractor) Extract(rec *format.FileRecord, content io.Reader) error {
	if rec.Name == "" {
		return fsError("extract", rec.Name, ErrEmptyName)
	}
	path := e.Path(rec.Name)
	event := Event{Type: rec.Type, Name: rec.Name}

	switch rec.Type {
	case format.TYPE_DIRECTORY:
		if err := os.Mkdir(path, rec.Perm()); err != nil && !os.IsExist(err) {
			return fsError("mkdir", rec.Name, err)
		}

	case format.TYPE_HARDLINK:
		if rec.LinkTarget == "" {
			return fsError("link", rec.Name, ErrMissingLinkTarget)
		}
		if err := os.Link(e.Path(rec.LinkTarget), path); err != nil {
			return fsError("link", rec.Name, err)
		}
		event.LinkTarget = rec.LinkTarget

	case format.TYPE_SYMLINK:
		if rec.LinkTarget == "" {
			return fsError("symlink", rec.Name, ErrMissingLinkTarget)
		}
		if err := os.Symlink(rec.LinkTarget, path); err != nil {
			return fsError("symlink", rec.Name, err)
		}
		event.LinkTarget = rec.LinkTarget

	case format.TYPE_REGULAR, format.TYPE_CONTIGUOUS:
		digest, err := e.writeFile(path, rec, content)
		if err != nil {
			return err
		}
		event.Size = rec.Size
		event.Digest = digest

	case format.TYPE_CHAR_DEVICE, format.TYPE_BLOCK_DEVICE, format.TYPE_FIFO:
		if err := makeNode(path, rec); err != nil {
			return fsError("mknod", rec.Name, err)
		}
		event.DevMajor, event.DevMinor = rec.DevMajor, rec.DevMinor

	default:
		return errors.Wrapf(format.ErrFormat, "cannot extract %s %q", rec.Type, rec.Name)
	}

	e.reporter.Report(event)
	return nil
}

func (e *Extractor) writeFile(path string, rec *format.FileRecord, content io.Reader) (digest []byte, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, rec.Perm())
	if err != nil {
		return nil, fsError("create", rec.Name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fsError("close", rec.Name, cerr)
		}
	}()

	// OpenFile's mode is filtered through the umask.
	if err := f.Chmod(rec.Perm()); err != nil {
		return nil, fsError("chmod", rec.Name, err)
	}

	if rec.Size == 0 {
		return e.emptyDigest(), nil
	}

	var w io.Writer = f
	var hw *ioutil.HashWriter
	if e.digests {
		h, _ := blake2b.New256(nil) // unkeyed, cannot fail
		hw = ioutil.NewHashWriter(f, h)
		w = hw
	}

	if err := e.copyContent(w, content, rec); err != nil {
		return nil, err
	}
	if hw != nil {
		return hw.Sum(), nil
	}
	return nil, nil
}

// copyContent moves exactly rec.Size bytes through the fixed-size buffer, so
// a hostile size field never drives an allocation.
func (e *Extractor) copyContent(w io.Writer, content io.Reader, rec *format.FileRecord) error {
	remaining := rec.Size
	for remaining > 0 {
		chunk := e.buf
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := io.ReadFull(content, chunk)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrapf(format.ErrTruncated, "content of %q ends %d bytes short", rec.Name, remaining-int64(n))
			}
			return errors.Wrapf(err, "read content of %q", rec.Name)
		}
		written, err := w.Write(chunk)
		if err != nil {
			return fsError("write", rec.Name, err)
		}
		if written != n {
			return fsError("write", rec.Name, io.ErrShortWrite)
		}
		remaining -= int64(n)
	}
	return nil
}

func (e *Extractor) emptyDigest() []byte {
	if !e.digests {
		return nil
	}
	sum := blake2b.Sum256(nil)
	return sum[:]
}
