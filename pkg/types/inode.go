package types

import (
	"bytes"
	"fmt"
)

type Ino uint8

const (
	InodeCount Ino = 126
	NameSize       = 5
)

type Kind uint8

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindDir:
		return "Dir"
	default:
		panic(fmt.Sprintf("invalid kind: `%d`", k))
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	s := k.String()
	out := make([]byte, len(s)+2)
	out[0] = '"'
	out[len(out)-1] = '"'
	copy(out[1:], s)
	return out, nil
}

func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// Parent is either an inode index or ParentRoot. Only the low 7 bits are ever
// stored on disk.
type Parent uint8

const (
	// ParentReserved may never be used as a parent reference.
	ParentReserved Parent = 126
	ParentRoot     Parent = 127
)

func ParentOf(ino Ino) Parent { return Parent(ino) }

func (p Parent) IsRoot() bool { return p == ParentRoot }

// Ino returns the parent's inode index, or false for the root and the reserved
// value.
func (p Parent) Ino() (Ino, bool) {
	if p >= Parent(InodeCount) {
		return 0, false
	}
	return Ino(p), true
}

func (p Parent) MarshalYAML() (interface{}, error) {
	if p.IsRoot() {
		return "root", nil
	}
	return int(p), nil
}

type Name [NameSize]byte

// NewName truncates s to NameSize bytes and zero-pads the remainder.
func NewName(s string) Name {
	var n Name
	copy(n[:], s)
	return n
}

func (n Name) String() string {
	if i := bytes.IndexByte(n[:], 0); i >= 0 {
		return string(n[:i])
	}
	return string(n[:])
}

func (n Name) IsZero() bool { return n == Name{} }

func (n Name) MarshalYAML() (interface{}, error) { return n.String(), nil }

type Inode struct {
	Name   Name   `yaml:"name"`
	InUse  bool   `yaml:"inUse"`
	Kind   Kind   `yaml:"kind"`
	Size   Block  `yaml:"size"`
	Start  Block  `yaml:"start"`
	Parent Parent `yaml:"parent"`
}

func (inode *Inode) IsFile() bool { return inode.InUse && inode.Kind == KindFile }

func (inode *Inode) IsDir() bool { return inode.InUse && inode.Kind == KindDir }

// End is one past the last block of the inode's data range. It is an int
// because a corrupt inode may describe a range past the end of the device.
func (inode *Inode) End() int { return int(inode.Start) + int(inode.Size) }

const BitmapSize Byte = Byte(BlockCount) / 8

type Superblock struct {
	Bitmap [BitmapSize]byte
	Inodes [InodeCount]Inode
}

// FreeIno returns the lowest unused inode slot.
func (sb *Superblock) FreeIno() (Ino, bool) {
	for i := range sb.Inodes {
		if !sb.Inodes[i].InUse {
			return Ino(i), true
		}
	}
	return 0, false
}
