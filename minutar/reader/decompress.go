package reader

import (
	"bufio"
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/therootcompany/xz"
)

type CompressionType uint8

const (
	COMPRESSION_AUTO CompressionType = iota
	COMPRESSION_NONE
	COMPRESSION_GZIP
	COMPRESSION_ZSTD
	COMPRESSION_XZ
	COMPRESSION_BROTLI
)

var (
	errUnknownCompressionType = errors.New("unknown compression")
)

var compressionNames = map[string]CompressionType{
	"auto":   COMPRESSION_AUTO,
	"none":   COMPRESSION_NONE,
	"gzip":   COMPRESSION_GZIP,
	"zstd":   COMPRESSION_ZSTD,
	"xz":     COMPRESSION_XZ,
	"brotli": COMPRESSION_BROTLI,
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// ParseCompression maps a flag value such as "zstd" to a CompressionType.
func ParseCompression(name string) (CompressionType, error) {
	if c, ok := compressionNames[name]; ok {
		return c, nil
	}
	return 0, errors.Wrapf(errUnknownCompressionType, "%q", name)
}

func (c CompressionType) String() string {
	for name, v := range compressionNames {
		if v == c {
			return name
		}
	}
	return "unknown"
}

// Sniff guesses the compression of a stream from its first bytes. Brotli has
// no magic number and is never guessed.
func Sniff(head []byte) CompressionType {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return COMPRESSION_GZIP
	case bytes.HasPrefix(head, zstdMagic):
		return COMPRESSION_ZSTD
	case bytes.HasPrefix(head, xzMagic):
		return COMPRESSION_XZ
	default:
		return COMPRESSION_NONE
	}
}

// Decompress wraps compressedReader with a decoder for the given compression.
// With COMPRESSION_AUTO the stream is sniffed first.
func Decompress(compressedReader io.Reader, dcType CompressionType) (io.ReadCloser, error) {
	if dcType == COMPRESSION_AUTO {
		buffered := bufio.NewReader(compressedReader)
		head, err := buffered.Peek(len(xzMagic))
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to sniff compression")
		}
		dcType = Sniff(head)
		compressedReader = buffered
	}

	switch dcType {
	case COMPRESSION_NONE:
		return io.NopCloser(compressedReader), nil // no compression = passthru
	case COMPRESSION_GZIP:
		gz, err := gzip.NewReader(compressedReader)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open gzip stream")
		}
		return gz, nil
	case COMPRESSION_ZSTD:
		zs, err := zstd.NewReader(compressedReader)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open zstd stream")
		}
		return zs.IOReadCloser(), nil
	case COMPRESSION_XZ:
		xzr, err := xz.NewReader(compressedReader, xz.DefaultDictMax)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open xz stream")
		}
		return io.NopCloser(xzr), nil
	case COMPRESSION_BROTLI:
		return io.NopCloser(brotli.NewReader(compressedReader)), nil
	default:
		return nil, errUnknownCompressionType
	}
}
