package alloc

import (
	"github.com/jenyangk/FS-Sim/pkg/math"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

const bitsPerByte = 8

// Bitmap tracks the free/used state of every block on the device. Block `i`
// is bit `0x80 >> (i % 8)` of byte `i / 8`. The superblock's own block is
// always marked used.
type Bitmap struct {
	bytes []byte
}

// New returns a bitmap with only the superblock marked used.
func New() Bitmap {
	bm := Bitmap{make([]byte, math.DivRoundUp(int(BlockCount), bitsPerByte))}
	bm.set(BlockSuper)
	return bm
}

// View returns a bitmap that reads and writes through to bytes, which must be
// BitmapSize long.
func View(bytes []byte) Bitmap { return Bitmap{bytes} }

func (bm Bitmap) Bytes() []byte { return bm.bytes }

func (bm Bitmap) Used(b Block) bool {
	return !byteIsZero(bm.bytes[b/bitsPerByte], uint8(b%bitsPerByte))
}

// Reserve marks [start, start+n) used. Callers guarantee the range is free.
func (bm Bitmap) Reserve(start, n Block) {
	for b := int(start); b < int(start)+int(n); b++ {
		bm.set(Block(b))
	}
}

// Release marks [start, start+n) free. The superblock's block stays used.
func (bm Bitmap) Release(start, n Block) {
	for b := int(start); b < int(start)+int(n); b++ {
		if Block(b) == BlockSuper {
			continue
		}
		p := &bm.bytes[b/bitsPerByte]
		*p = byteSetLow(*p, uint8(b%bitsPerByte))
	}
}

// IsFree reports whether every block in [start, start+n) is a free data block.
func (bm Bitmap) IsFree(start, n Block) bool {
	if start < BlockFirstData || int(start)+int(n) > int(BlockCount) {
		return false
	}
	for b := start; b < start+n; b++ {
		if bm.Used(b) {
			return false
		}
	}
	return true
}

func (bm Bitmap) set(b Block) {
	p := &bm.bytes[b/bitsPerByte]
	*p = byteSetHigh(*p, uint8(b%bitsPerByte))
}

func byteIsZero(byt byte, bit uint8) bool {
	return byt&(0b1000_0000>>bit) == 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b1000_0000 >> bit)
}

func byteSetLow(byt byte, bit uint8) byte {
	return byt & ^(0b1000_0000 >> bit)
}
