package ioutil

import (
	"hash"
	"io"
)

// HashWriter hashes everything it passes through to the destination.
type HashWriter struct {
	writer io.Writer
	hasher hash.Hash
	N      int64
}

func NewHashWriter(dest io.Writer, hasher hash.Hash) *HashWriter {
	return &HashWriter{
		writer: dest,
		hasher: hasher,
	}
}

func (w *HashWriter) Write(b []byte) (int, error) {
	k, err := w.writer.Write(b)
	w.hasher.Write(b[:k])
	w.N += int64(k)
	if err != nil {
		return k, err
	}
	return k, nil
}

func (w *HashWriter) Sum() []byte {
	return w.hasher.Sum(nil)
}
