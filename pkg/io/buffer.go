package io

import (
	"fmt"
	"io"

	"github.com/jenyangk/FS-Sim/pkg/math"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Buffer is an in-memory Volume.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewImage returns a zeroed buffer the size of a disk image.
func NewImage() *Buffer { return NewBuffer(make([]byte, ImageSize)) }

func (b *Buffer) ReadAt(offset Byte, p []byte) error {
	if offset >= 0 && offset+Byte(len(p)) <= Byte(len(b.data)) {
		copy(p, b.data[offset:])
		return nil
	}
	return fmt.Errorf(
		"reading `%d` bytes from buffer at offset `%d` (available `%d`): %w",
		len(p),
		offset,
		math.Max(0, Byte(len(b.data))-offset),
		io.EOF,
	)
}

func (b *Buffer) WriteAt(offset Byte, p []byte) error {
	if offset >= 0 && offset+Byte(len(p)) <= Byte(len(b.data)) {
		copy(b.data[offset:], p)
		return nil
	}
	return fmt.Errorf(
		"writing `%d` bytes to buffer at offset `%d` (available `%d`): %w",
		len(p),
		offset,
		math.Max(0, Byte(len(b.data))-offset),
		io.EOF,
	)
}

func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Len() int { return len(b.data) }
