package ioutil

import (
	"bufio"
	"io"
)

// BlockReader tracks how far into a block-structured stream it has read, so
// callers can skip to the next block boundary without seeking.
type BlockReader struct {
	reader    *bufio.Reader
	BlockSize int64
	offset    int64
}

func NewBlockReader(reader io.Reader, blockSize int64) *BlockReader {
	return &BlockReader{
		reader:    bufio.NewReaderSize(reader, int(blockSize)*16),
		BlockSize: blockSize,
	}
}

// Read reads from the underlying stream and advances the cursor.
func (br *BlockReader) Read(b []byte) (int, error) {
	read, err := br.reader.Read(b)
	br.offset += int64(read)
	return read, err
}

// Offset is the number of bytes consumed so far.
func (br *BlockReader) Offset() int64 {
	return br.offset
}

// Realign skips forward to the next multiple of BlockSize. It returns
// io.ErrUnexpectedEOF if the stream ends inside the padding.
func (br *BlockReader) Realign() error {
	rem := br.offset % br.BlockSize
	if rem == 0 {
		return nil
	}
	return br.Discard(br.BlockSize - rem)
}

// Discard skips exactly n bytes.
func (br *BlockReader) Discard(n int64) error {
	for n > 0 {
		chunk := n
		if chunk > int64(br.reader.Size()) {
			chunk = int64(br.reader.Size())
		}
		skipped, err := br.reader.Discard(int(chunk))
		br.offset += int64(skipped)
		n -= int64(skipped)
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

// ReadBlock fills block completely. A stream that ends before the first
// byte yields io.EOF, one that ends part way yields io.ErrUnexpectedEOF.
func (br *BlockReader) ReadBlock(block []byte) error {
	n, err := io.ReadFull(br.reader, block)
	br.offset += int64(n)
	return err
}
