package fs

import (
	"fmt"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Resize changes the size of a file in the current directory. Shrinking
// zeroes and frees the tail. Growing extends in place when the following
// blocks are free; otherwise the file moves to the best-fitting run, with its
// own blocks counted as free. If no run fits, nothing changes.
func (s *Session) Resize(name string, size Block) error {
	if s.sb == nil {
		return NotMountedErr
	}
	ino, err := s.lookupFile(name)
	if err != nil {
		return fmt.Errorf("resizing `%s`: %w", name, err)
	}

	inode := &s.sb.Inodes[ino]
	bm := s.bitmap()
	var errs ioErrors
	switch {
	case size == inode.Size:
		return nil
	case size < inode.Size:
		for b := inode.Start + size; int(b) < inode.End(); b++ {
			errs.add(s.zeroBlock(b))
		}
		bm.Release(inode.Start+size, inode.Size-size)
	case int(inode.Start)+int(size) <= int(BlockCount) &&
		bm.IsFree(Block(inode.End()), size-inode.Size):
		bm.Reserve(Block(inode.End()), size-inode.Size)
	default:
		bm.Release(inode.Start, inode.Size)
		start, ok := bm.FindRun(size)
		if !ok {
			bm.Reserve(inode.Start, inode.Size)
			return fmt.Errorf(
				"resizing `%s` to `%d` blocks: %w",
				name,
				size,
				CannotExpandErr,
			)
		}
		s.moveBlocks(inode.Start, start, inode.Size, &errs)
		bm.Reserve(start, size)
		s.logger().Debug(
			"relocated file",
			"name", name,
			"from", inode.Start,
			"to", start,
		)
		inode.Start = start
	}
	inode.Size = size

	if err := s.persist(); err != nil {
		return fmt.Errorf("resizing `%s`: %w", name, err)
	}
	if err := errs.err(); err != nil {
		return fmt.Errorf("resizing `%s`: %w", name, err)
	}
	return nil
}
