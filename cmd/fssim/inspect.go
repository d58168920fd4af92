package main

import (
	"encoding/hex"
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/alloc"
	"github.com/jenyangk/FS-Sim/pkg/check"
	"github.com/jenyangk/FS-Sim/pkg/diskstore"
	"github.com/jenyangk/FS-Sim/pkg/encode"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

type Inspection struct {
	Disk       string       `yaml:"disk"`
	Consistent bool         `yaml:"consistent"`
	Problem    string       `yaml:"problem,omitempty"`
	Bitmap     string       `yaml:"bitmap"`
	FreeRuns   []alloc.Run  `yaml:"freeRuns"`
	Inodes     []InodeEntry `yaml:"inodes"`
}

type InodeEntry struct {
	Index Ino `yaml:"index"`
	Inode `yaml:",inline"`
}

// readSuperblock decodes block 0 of the named disk without mounting it.
func readSuperblock(store diskstore.Store, name string) (*Superblock, error) {
	dev, err := store.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", name, err)
	}
	defer dev.Close()

	var b [BlockSize]byte
	if err := dev.ReadBlock(BlockSuper, &b); err != nil {
		return nil, fmt.Errorf("reading superblock of `%s`: %w", name, err)
	}
	var sb Superblock
	encode.DecodeSuperblock(&sb, &b)
	return &sb, nil
}

func checkDisk(store diskstore.Store, name string) error {
	sb, err := readSuperblock(store, name)
	if err != nil {
		return err
	}
	if err := check.Check(sb); err != nil {
		return fmt.Errorf("checking disk `%s`: %w", name, err)
	}
	return nil
}

func inspect(store diskstore.Store, name string) (*Inspection, error) {
	sb, err := readSuperblock(store, name)
	if err != nil {
		return nil, err
	}

	inspection := Inspection{
		Disk:       name,
		Consistent: true,
		Bitmap:     hex.EncodeToString(sb.Bitmap[:]),
		FreeRuns:   alloc.View(sb.Bitmap[:]).Runs(),
		Inodes:     []InodeEntry{},
	}
	if err := check.Check(sb); err != nil {
		inspection.Consistent = false
		inspection.Problem = err.Error()
	}
	for i := range sb.Inodes {
		if sb.Inodes[i].InUse {
			inspection.Inodes = append(
				inspection.Inodes,
				InodeEntry{Index: Ino(i), Inode: sb.Inodes[i]},
			)
		}
	}
	return &inspection, nil
}
