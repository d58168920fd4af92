package fs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jenyangk/FS-Sim/pkg/check"
	"github.com/jenyangk/FS-Sim/pkg/directory"
	"github.com/jenyangk/FS-Sim/pkg/encode"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Mount opens the named disk, checks its superblock and, if it is
// consistent, replaces the current mount and resets the current directory to
// the root. On failure the previous mount is left untouched.
func (s *Session) Mount(name string) error {
	disk, err := s.Disks.Open(name)
	if err != nil {
		return fmt.Errorf("mounting `%s`: %w: %v", name, DiskUnavailableErr, err)
	}

	var b [BlockSize]byte
	if err := disk.ReadBlock(BlockSuper, &b); err != nil {
		closeQuietly(s, name, disk.Close)
		return fmt.Errorf("mounting `%s`: %w: %v", name, IOErr, err)
	}

	sb := new(Superblock)
	encode.DecodeSuperblock(sb, &b)
	if err := check.Check(sb); err != nil {
		closeQuietly(s, name, disk.Close)
		return fmt.Errorf("mounting `%s`: %w", name, err)
	}

	if s.disk != nil {
		closeQuietly(s, s.diskName, s.disk.Close)
	}
	s.disk = disk
	s.diskName = name
	s.mountID = uuid.New()
	s.sb = sb
	s.index = directory.Build(sb)
	s.cwd = ParentRoot
	s.cwdPath = directory.Root

	s.logger().Info(
		"mounted disk",
		"disk", name,
		"mountID", s.mountID,
		"freeRuns", len(s.bitmap().Runs()),
	)
	return nil
}

func closeQuietly(s *Session, name string, closer func() error) {
	if err := closer(); err != nil {
		s.logger().Warn("closing disk", "disk", name, "err", err)
	}
}
