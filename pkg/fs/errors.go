package fs

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

const (
	NotMountedErr        ConstError = "no file system is mounted"
	DiskUnavailableErr   ConstError = "disk unavailable"
	ReservedNameErr      ConstError = "name is reserved"
	InvalidNameErr       ConstError = "name is empty or contains `/`"
	NameConflictErr      ConstError = "file or directory already exists"
	InodeTableFullErr    ConstError = "inode table is full"
	InsufficientSpaceErr ConstError = "insufficient contiguous space"
	CannotExpandErr      ConstError = "file cannot expand"
	NotFoundErr          ConstError = "file or directory not found"
	BlockOutOfRangeErr   ConstError = "block out of file range"
	IOErr                ConstError = "device i/o failure"
)
