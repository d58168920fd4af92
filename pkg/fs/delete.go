package fs

import (
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/directory"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Delete removes a file or directory from the current directory. Directories
// are removed with everything beneath them; every freed block is zeroed.
func (s *Session) Delete(name string) error {
	if s.sb == nil {
		return NotMountedErr
	}
	ino, found := s.lookup(name)
	if !found {
		return fmt.Errorf("deleting `%s`: %w", name, NotFoundErr)
	}

	var errs ioErrors
	var doomed []Ino
	if s.sb.Inodes[ino].IsDir() {
		path := directory.Path(s.sb, ino)
		doomed = s.descendants(path, doomed)
		s.index.RemoveSubtree(path)
	}
	doomed = append(doomed, ino)

	for _, d := range doomed {
		inode := &s.sb.Inodes[d]
		if inode.IsFile() && inode.Size > 0 {
			s.bitmap().Release(inode.Start, inode.Size)
			for b := inode.Start; int(b) < inode.End(); b++ {
				errs.add(s.zeroBlock(b))
			}
		}
		*inode = Inode{}
	}
	s.index.Unlink(s.cwdPath, ino)

	s.logger().Debug("deleted", "name", name, "inodes", len(doomed))

	if err := s.persist(); err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}
	if err := errs.err(); err != nil {
		return fmt.Errorf("deleting `%s`: %w", name, err)
	}
	return nil
}

// descendants appends every inode beneath the directory at path, depth first,
// children before their parents.
func (s *Session) descendants(path string, out []Ino) []Ino {
	for _, child := range s.index.Children(path) {
		if s.sb.Inodes[child].IsDir() {
			out = s.descendants(
				directory.Join(path, s.sb.Inodes[child].Name.String()),
				out,
			)
		}
		out = append(out, child)
	}
	return out
}
