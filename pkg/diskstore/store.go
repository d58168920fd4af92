// Package diskstore keeps named disk images in a directory, in memory, in an
// object store, in Postgres or in a bolt database.
package diskstore

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jenyangk/FS-Sim/pkg/alloc"
	"github.com/jenyangk/FS-Sim/pkg/encode"
	"github.com/jenyangk/FS-Sim/pkg/io"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

type Store interface {
	// Open returns a device for an existing disk, or DiskNotFoundErr.
	Open(name string) (io.BlockDevice, error)

	// Create returns a device for a new, zeroed disk, or DiskExistsErr.
	Create(name string) (io.BlockDevice, error)
}

const (
	DiskNotFoundErr ConstError = "disk not found"
	DiskExistsErr   ConstError = "disk already exists"
	InvalidNameErr  ConstError = "invalid disk name"
)

// Key normalises a disk name for backends that cannot hold arbitrary
// strings (object keys, bucket names, row keys).
func Key(name string) (string, error) {
	key := slug.Make(name)
	if key == "" {
		return "", fmt.Errorf("disk name `%s`: %w", name, InvalidNameErr)
	}
	return key, nil
}

// Format writes an empty file system to dev: only the superblock's block is
// used, every inode is free and every data block is zero.
func Format(dev io.BlockDevice) error {
	var sb Superblock
	copy(sb.Bitmap[:], alloc.New().Bytes())

	var b [BlockSize]byte
	encode.EncodeSuperblock(&sb, &b)
	if err := dev.WriteBlock(BlockSuper, &b); err != nil {
		return fmt.Errorf("formatting: writing superblock: %w", err)
	}

	var zeros [BlockSize]byte
	for blk := BlockFirstData; blk < BlockCount; blk++ {
		if err := dev.WriteBlock(blk, &zeros); err != nil {
			return fmt.Errorf("formatting: zeroing block `%d`: %w", blk, err)
		}
	}
	return nil
}

// Mkfs creates and formats a disk.
func Mkfs(store Store, name string) error {
	dev, err := store.Create(name)
	if err != nil {
		return fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	if err := Format(dev); err != nil {
		dev.Close()
		return fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	if err := dev.Close(); err != nil {
		return fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	return nil
}
