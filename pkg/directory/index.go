// Package directory derives the path-keyed view of the inode table's parent
// links. The index is never persisted; it is rebuilt on mount and kept in step
// by the session's mutations.
package directory

import (
	"strings"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Root is the path of the virtual root directory. Every directory path ends
// in a slash.
const Root = "root/"

// Index maps a directory path to its children, in the order they were added.
type Index map[string][]Ino

// Build indexes every in-use inode under its containing directory's path.
// Every directory gets an entry, even when it has no children.
func Build(sb *Superblock) Index {
	index := Index{Root: nil}
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if !inode.InUse {
			continue
		}
		path := ContainingPath(sb, Ino(i))
		index.Insert(path, Ino(i))
		if inode.Kind == KindDir {
			index.AddDir(Join(path, inode.Name.String()))
		}
	}
	return index
}

func (index Index) Children(path string) []Ino { return index[path] }

// Has reports whether path is a known directory.
func (index Index) Has(path string) bool {
	_, found := index[path]
	return found
}

func (index Index) Insert(path string, ino Ino) {
	index[path] = append(index[path], ino)
}

// Unlink removes ino from path's children, keeping the others in order.
func (index Index) Unlink(path string, ino Ino) {
	children := index[path]
	for i, child := range children {
		if child == ino {
			index[path] = append(children[:i:i], children[i+1:]...)
			return
		}
	}
}

// AddDir registers an empty directory unless it is already present.
func (index Index) AddDir(path string) {
	if _, found := index[path]; !found {
		index[path] = nil
	}
}

// RemoveSubtree drops path and every path beneath it.
func (index Index) RemoveSubtree(path string) {
	for p := range index {
		if strings.HasPrefix(p, path) {
			delete(index, p)
		}
	}
}

func Join(dir, name string) string { return dir + name + "/" }

// ParentPath returns the directory containing path. The root is its own
// parent.
func ParentPath(path string) string {
	if path == Root {
		return Root
	}
	trimmed := strings.TrimSuffix(path, "/")
	return trimmed[:strings.LastIndexByte(trimmed, '/')+1]
}

// ContainingPath resolves the path of the directory holding ino by walking
// parent links to the root. The walk gives up after InodeCount steps so a
// cyclic table cannot hang it.
func ContainingPath(sb *Superblock, ino Ino) string {
	var names []string
	parent := sb.Inodes[ino].Parent
	for steps := Ino(0); steps < InodeCount; steps++ {
		ancestor, ok := parent.Ino()
		if !ok {
			break
		}
		names = append(names, sb.Inodes[ancestor].Name.String())
		parent = sb.Inodes[ancestor].Parent
	}

	var builder strings.Builder
	builder.WriteString(Root)
	for i := len(names) - 1; i >= 0; i-- {
		builder.WriteString(names[i])
		builder.WriteByte('/')
	}
	return builder.String()
}

// Path is the full path of the directory inode ino.
func Path(sb *Superblock, ino Ino) string {
	return Join(ContainingPath(sb, ino), sb.Inodes[ino].Name.String())
}
