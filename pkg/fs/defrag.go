package fs

import (
	"fmt"
	"sort"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Defragment slides files towards block 1 until all free space forms one run
// at the end of the device. Each pass closes the lowest gap and is persisted
// before the next begins.
func (s *Session) Defragment() error {
	if s.sb == nil {
		return NotMountedErr
	}

	var errs ioErrors
	bm := s.bitmap()
	for pass := 1; ; pass++ {
		runs := bm.Runs()
		if len(runs) < 1 || (len(runs) == 1 && runs[0].End() == BlockCount) {
			break
		}
		gap := runs[0]

		for _, ino := range s.filesFrom(gap.End()) {
			inode := &s.sb.Inodes[ino]
			dst := inode.Start - gap.Len
			s.moveBlocks(inode.Start, dst, inode.Size, &errs)
			bm.Release(inode.Start, inode.Size)
			bm.Reserve(dst, inode.Size)
			inode.Start = dst
		}
		s.logger().Debug(
			"closed gap",
			"pass", pass,
			"start", gap.Start,
			"len", gap.Len,
		)

		if err := s.persist(); err != nil {
			return fmt.Errorf("defragmenting: pass `%d`: %w", pass, err)
		}
	}

	if err := s.persist(); err != nil {
		return fmt.Errorf("defragmenting: %w", err)
	}
	if err := errs.err(); err != nil {
		return fmt.Errorf("defragmenting: %w", err)
	}
	return nil
}

// filesFrom lists the files starting at or after block, lowest start first.
func (s *Session) filesFrom(block Block) []Ino {
	var inos []Ino
	for i := range s.sb.Inodes {
		inode := &s.sb.Inodes[i]
		if inode.IsFile() && inode.Size > 0 && inode.Start >= block {
			inos = append(inos, Ino(i))
		}
	}
	sort.Slice(inos, func(i, j int) bool {
		return s.sb.Inodes[inos[i]].Start < s.sb.Inodes[inos[j]].Start
	})
	return inos
}
