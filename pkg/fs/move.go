package fs

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// moveBlocks copies n blocks from src to dst and zeroes the source blocks
// the destination does not cover. The ranges may overlap. Failures are
// collected so the caller can finish its in-memory update first.
func (s *Session) moveBlocks(src, dst, n Block, errs *ioErrors) {
	if src == dst || n == 0 {
		return
	}

	var b [BlockSize]byte
	copyBlock := func(i Block) {
		if err := s.disk.ReadBlock(src+i, &b); err != nil {
			errs.add(err)
			return
		}
		errs.add(s.disk.WriteBlock(dst+i, &b))
	}
	if dst < src {
		for i := Block(0); i < n; i++ {
			copyBlock(i)
		}
	} else {
		for i := n; i > 0; i-- {
			copyBlock(i - 1)
		}
	}

	for blk := src; blk < src+n; blk++ {
		if blk < dst || blk >= dst+n {
			errs.add(s.zeroBlock(blk))
		}
	}
}

func (s *Session) zeroBlock(b Block) error {
	var zeros [BlockSize]byte
	return s.disk.WriteBlock(b, &zeros)
}
