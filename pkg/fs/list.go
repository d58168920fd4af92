package fs

import (
	"github.com/jenyangk/FS-Sim/pkg/directory"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Entry is one line of a directory listing. Size is a block count for files
// and the number of entries (children plus `.` and `..`) for directories.
type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Size int    `json:"size"`
}

// List describes the current directory: `.`, `..` and then every child in
// creation order.
func (s *Session) List() ([]Entry, error) {
	if s.sb == nil {
		return nil, NotMountedErr
	}
	children := s.index.Children(s.cwdPath)
	entries := make([]Entry, 0, len(children)+2)
	entries = append(
		entries,
		Entry{Name: ".", Kind: KindDir, Size: s.dirSize(s.cwdPath)},
		Entry{
			Name: "..",
			Kind: KindDir,
			Size: s.dirSize(directory.ParentPath(s.cwdPath)),
		},
	)
	for _, ino := range children {
		inode := &s.sb.Inodes[ino]
		entry := Entry{Name: inode.Name.String(), Kind: inode.Kind}
		if inode.Kind == KindDir {
			entry.Size = s.dirSize(
				directory.Join(s.cwdPath, inode.Name.String()),
			)
		} else {
			entry.Size = int(inode.Size)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Session) dirSize(path string) int {
	return len(s.index.Children(path)) + 2
}
