package extract

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/indrora/minutar/minutar/format"
	"github.com/indrora/minutar/minutar/reader"
)

// Walker extracts every record of an archive, carrying on past nodes that
// could not be created.
type Walker struct {
	reader    *reader.Reader
	extractor *Extractor
	log       logrus.FieldLogger
}

func NewWalker(r io.Reader, opts ...Option) *Walker {
	o := newOptions(opts)
	return &Walker{
		reader:    reader.NewReader(r),
		extractor: newExtractor(o),
		log:       o.logger,
	}
}

// Walk runs to the end of the archive and reports whether every record was
// read and extracted. A non-nil error means a framing or stream error cut the
// walk short; per-node filesystem failures are only logged.
func (w *Walker) Walk() (bool, error) {
	ok := true
	for {
		rec, err := w.reader.Next()
		if err != nil {
			return false, err
		}
		if rec.Type == format.TYPE_END_OF_ARCHIVE {
			return ok, nil
		}

		entry := w.log.WithFields(logrus.Fields{
			"name":   rec.Name,
			"type":   rec.Type.String(),
			"offset": rec.Offset,
		})
		entry.WithFields(logrus.Fields{
			"size": rec.Size,
			"mode": rec.Mode,
		}).Debug("header")

		if err := w.extractor.EnsureParent(rec); err != nil {
			entry.WithError(err).Error("failed to create parent directory")
			ok = false
			continue
		}
		if err := w.extractor.Extract(rec, w.reader); err != nil {
			if !IsFilesystemError(err) {
				return false, err
			}
			entry.WithError(err).Error("failed to extract")
			ok = false
		}
	}
}

// ExtractAll extracts the archive read from r and reports whether every
// record made it onto the filesystem.
func ExtractAll(r io.Reader, opts ...Option) bool {
	w := NewWalker(r, opts...)
	ok, err := w.Walk()
	if err != nil {
		w.log.WithError(err).WithField("offset", w.reader.Offset()).Error("archive processing aborted")
	}
	return ok
}
