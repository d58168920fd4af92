// Package fs implements the file system session: one mounted disk, a current
// directory and a one-block staging buffer, mutated by one operation at a
// time.
package fs

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jenyangk/FS-Sim/pkg/alloc"
	"github.com/jenyangk/FS-Sim/pkg/directory"
	"github.com/jenyangk/FS-Sim/pkg/encode"
	"github.com/jenyangk/FS-Sim/pkg/io"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Disks opens named disk images.
type Disks interface {
	Open(name string) (io.BlockDevice, error)
}

type Session struct {
	Disks  Disks
	Logger *slog.Logger

	disk     io.BlockDevice
	diskName string
	mountID  uuid.UUID
	sb       *Superblock
	index    directory.Index
	cwd      Parent
	cwdPath  string
	buffer   [BlockSize]byte
}

func NewSession(disks Disks, logger *slog.Logger) *Session {
	return &Session{Disks: disks, Logger: logger}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Session) Mounted() bool { return s.sb != nil }

// DiskName is the name of the mounted disk, or "" if nothing is mounted.
func (s *Session) DiskName() string { return s.diskName }

func (s *Session) MountID() uuid.UUID { return s.mountID }

// Cwd is the current directory's path, e.g. "root/a/".
func (s *Session) Cwd() string { return s.cwdPath }

// Superblock returns a copy of the mounted superblock.
func (s *Session) Superblock() (Superblock, error) {
	if s.sb == nil {
		return Superblock{}, NotMountedErr
	}
	return *s.sb, nil
}

// Buffer returns a copy of the staging buffer.
func (s *Session) Buffer() [BlockSize]byte { return s.buffer }

// Close releases the mounted disk, if any. The session may be mounted again
// afterwards.
func (s *Session) Close() error {
	if s.disk == nil {
		return nil
	}
	disk, name := s.disk, s.diskName
	s.unmount()
	if err := disk.Close(); err != nil {
		return fmt.Errorf("closing disk `%s`: %w", name, err)
	}
	return nil
}

func (s *Session) unmount() {
	s.disk = nil
	s.diskName = ""
	s.mountID = uuid.Nil
	s.sb = nil
	s.index = nil
	s.cwd = ParentRoot
	s.cwdPath = ""
}

func (s *Session) bitmap() alloc.Bitmap { return alloc.View(s.sb.Bitmap[:]) }

// persist writes the superblock back to block 0.
func (s *Session) persist() error {
	var b [BlockSize]byte
	encode.EncodeSuperblock(s.sb, &b)
	if err := s.disk.WriteBlock(BlockSuper, &b); err != nil {
		return fmt.Errorf("writing superblock: %w: %v", IOErr, err)
	}
	return nil
}

// lookup finds a child of the current directory by name.
func (s *Session) lookup(name string) (Ino, bool) {
	wanted := NewName(name)
	for _, ino := range s.index.Children(s.cwdPath) {
		if s.sb.Inodes[ino].Name.String() == wanted.String() {
			return ino, true
		}
	}
	return 0, false
}

func (s *Session) lookupFile(name string) (Ino, error) {
	if ino, found := s.lookup(name); found && s.sb.Inodes[ino].IsFile() {
		return ino, nil
	}
	return 0, NotFoundErr
}

// ioErrors accumulates best-effort device failures during data movement.
type ioErrors []error

func (errs *ioErrors) add(err error) {
	if err != nil {
		*errs = append(*errs, err)
	}
}

func (errs ioErrors) err() error {
	if len(errs) < 1 {
		return nil
	}
	return fmt.Errorf("%w: %w", IOErr, errors.Join(errs...))
}
