package encode

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

const (
	highMask = 0b1000_0000
	low7Mask = 0b0111_1111
)

func putU8(b []byte, start Byte, u uint8) {
	b[start] = u
}

func getU8(b []byte, start Byte) uint8 {
	return b[start]
}

// putFlagged packs a flag into the high bit and v into the low seven bits.
func putFlagged(b []byte, start Byte, flag bool, v uint8) {
	u := v & low7Mask
	if flag {
		u |= highMask
	}
	putU8(b, start, u)
}

func getFlagged(b []byte, start Byte) (bool, uint8) {
	u := getU8(b, start)
	return u&highMask != 0, u & low7Mask
}
