package fs

import (
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/math"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Read copies block of the named file into the staging buffer.
func (s *Session) Read(name string, block Block) error {
	if s.sb == nil {
		return NotMountedErr
	}
	dev, err := s.fileBlock(name, block)
	if err != nil {
		return fmt.Errorf("reading `%s`: %w", name, err)
	}
	if err := s.disk.ReadBlock(dev, &s.buffer); err != nil {
		return fmt.Errorf("reading `%s` block `%d`: %w: %v", name, block, IOErr, err)
	}
	return nil
}

// Write copies the staging buffer into block of the named file.
func (s *Session) Write(name string, block Block) error {
	if s.sb == nil {
		return NotMountedErr
	}
	dev, err := s.fileBlock(name, block)
	if err != nil {
		return fmt.Errorf("writing `%s`: %w", name, err)
	}
	if err := s.disk.WriteBlock(dev, &s.buffer); err != nil {
		return fmt.Errorf("writing `%s` block `%d`: %w: %v", name, block, IOErr, err)
	}
	return nil
}

// SetBuffer zeroes the staging buffer and copies in up to BlockSize bytes of
// data.
func (s *Session) SetBuffer(data []byte) error {
	if s.sb == nil {
		return NotMountedErr
	}
	s.buffer = [BlockSize]byte{}
	copy(s.buffer[:], data[:math.Min(len(data), int(BlockSize))])
	return nil
}

// fileBlock maps a file-relative block to its device block.
func (s *Session) fileBlock(name string, block Block) (Block, error) {
	ino, err := s.lookupFile(name)
	if err != nil {
		return 0, err
	}
	inode := &s.sb.Inodes[ino]
	if block >= inode.Size {
		return 0, fmt.Errorf("block `%d`: %w", block, BlockOutOfRangeErr)
	}
	return inode.Start + block, nil
}
