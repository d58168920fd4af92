package fs

import (
	"fmt"
	"strings"

	"github.com/jenyangk/FS-Sim/pkg/directory"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Create adds a file of size blocks to the current directory, or a directory
// if size is zero. Checks run in order: reserved name, free inode, name
// conflict, space.
func (s *Session) Create(name string, size Block) error {
	if s.sb == nil {
		return NotMountedErr
	}
	if name == "." || name == ".." {
		return fmt.Errorf("creating `%s`: %w", name, ReservedNameErr)
	}
	if NewName(name).IsZero() || strings.ContainsRune(name, '/') {
		return fmt.Errorf("creating `%s`: %w", name, InvalidNameErr)
	}

	ino, ok := s.sb.FreeIno()
	if !ok {
		return fmt.Errorf("creating `%s`: %w", name, InodeTableFullErr)
	}
	if _, found := s.lookup(name); found {
		return fmt.Errorf("creating `%s`: %w", name, NameConflictErr)
	}

	inode := Inode{
		Name:   NewName(name),
		InUse:  true,
		Kind:   KindDir,
		Parent: s.cwd,
	}
	if size > 0 {
		start, ok := s.bitmap().FindRun(size)
		if !ok {
			return fmt.Errorf(
				"creating `%s` with `%d` blocks: %w",
				name,
				size,
				InsufficientSpaceErr,
			)
		}
		inode.Kind = KindFile
		inode.Size = size
		inode.Start = start
		s.bitmap().Reserve(start, size)
		s.logger().Debug(
			"allocated blocks",
			"name", name,
			"start", start,
			"size", size,
		)
	}

	s.sb.Inodes[ino] = inode
	s.index.Insert(s.cwdPath, ino)
	if inode.Kind == KindDir {
		s.index.AddDir(directory.Join(s.cwdPath, inode.Name.String()))
	}

	if err := s.persist(); err != nil {
		return fmt.Errorf("creating `%s`: %w", name, err)
	}
	return nil
}
