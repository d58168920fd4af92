package fs

import (
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/directory"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// ChangeDirectory moves to a child directory, to the parent (`..`) or stays
// put (`.`). The root is its own parent.
func (s *Session) ChangeDirectory(name string) error {
	if s.sb == nil {
		return NotMountedErr
	}
	switch name {
	case ".":
		return nil
	case "..":
		if ino, ok := s.cwd.Ino(); ok {
			s.cwd = s.sb.Inodes[ino].Parent
			s.cwdPath = directory.ParentPath(s.cwdPath)
		}
		return nil
	}

	ino, found := s.lookup(name)
	if !found || !s.sb.Inodes[ino].IsDir() {
		return fmt.Errorf("changing directory to `%s`: %w", name, NotFoundErr)
	}
	s.cwd = ParentOf(ino)
	s.cwdPath = directory.Join(s.cwdPath, s.sb.Inodes[ino].Name.String())
	return nil
}
