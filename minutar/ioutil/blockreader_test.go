package ioutil_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/indrora/minutar/minutar/ioutil"
)

func TestBlockReader_Realign(t *testing.T) {
	testCases := []struct {
		name       string
		data       []byte
		blockSize  int64
		consume    int
		wantOffset int64
		expectErr  error
	}{
		{
			name:       "already aligned at start",
			data:       []byte("1234567890"),
			blockSize:  5,
			consume:    0,
			wantOffset: 0,
		},
		{
			name:       "already aligned after a block",
			data:       []byte("1234567890"),
			blockSize:  5,
			consume:    5,
			wantOffset: 5,
		},
		{
			name:       "skip padding",
			data:       []byte("1234567890"),
			blockSize:  5,
			consume:    2,
			wantOffset: 5,
		},
		{
			name:       "padding cut short",
			data:       []byte("1234567"),
			blockSize:  5,
			consume:    6,
			wantOffset: 7,
			expectErr:  io.ErrUnexpectedEOF,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			br := ioutil.NewBlockReader(bytes.NewReader(tc.data), tc.blockSize)

			if tc.consume > 0 {
				if _, err := io.ReadFull(br, make([]byte, tc.consume)); err != nil {
					t.Fatalf("unexpected error consuming: %v", err)
				}
			}

			err := br.Realign()
			if err != tc.expectErr {
				t.Fatalf("unexpected error; want %v, got %v", tc.expectErr, err)
			}
			if br.Offset() != tc.wantOffset {
				t.Errorf("unexpected offset: got %d, want %d", br.Offset(), tc.wantOffset)
			}
		})
	}
}

func TestBlockReader_ReadBlock(t *testing.T) {
	data := []byte("Hello, world! This is a test.")
	br := ioutil.NewBlockReader(bytes.NewReader(data), 10)

	expected := []string{"Hello, wor", "ld! This i"}
	for i, want := range expected {
		block := make([]byte, 10)
		if err := br.ReadBlock(block); err != nil {
			t.Fatalf("block %d: unexpected error: %v", i, err)
		}
		if !bytes.Equal(block, []byte(want)) {
			t.Errorf("unexpected block at index %d: got %q, want %q", i, block, want)
		}
	}

	block := make([]byte, 10)
	if err := br.ReadBlock(block); err != io.ErrUnexpectedEOF {
		t.Fatalf("short block: want %v, got %v", io.ErrUnexpectedEOF, err)
	}
	if br.Offset() != int64(len(data)) {
		t.Errorf("offset after short block = %d, want %d", br.Offset(), len(data))
	}
	if err := br.ReadBlock(block); err != io.EOF {
		t.Fatalf("at end: want %v, got %v", io.EOF, err)
	}
}

func TestBlockReader_Discard(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, 100000)
	br := ioutil.NewBlockReader(bytes.NewReader(data), 512)

	if err := br.Discard(99999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.Offset() != 99999 {
		t.Errorf("offset = %d, want 99999", br.Offset())
	}
	if err := br.Discard(2); err != io.ErrUnexpectedEOF {
		t.Errorf("discard past end: want %v, got %v", io.ErrUnexpectedEOF, err)
	}
}
