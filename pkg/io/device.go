package io

import (
	"fmt"
	stdio "io"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

var (
	_ BlockDevice = (*VolumeDevice)(nil)
	_ Volume      = (*Buffer)(nil)
	_ Volume      = (*File)(nil)
)

// VolumeDevice addresses a byte-oriented Volume one block at a time.
type VolumeDevice struct {
	Volume Volume
}

func NewVolumeDevice(volume Volume) *VolumeDevice {
	return &VolumeDevice{Volume: volume}
}

func (dev *VolumeDevice) ReadBlock(block Block, p *[BlockSize]byte) error {
	if !block.Valid() {
		return fmt.Errorf("reading block `%d`: %w", block, BlockOutOfRangeErr)
	}
	if err := dev.Volume.ReadAt(block.Offset(), p[:]); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	return nil
}

func (dev *VolumeDevice) WriteBlock(block Block, p *[BlockSize]byte) error {
	if !block.Valid() {
		return fmt.Errorf("writing block `%d`: %w", block, BlockOutOfRangeErr)
	}
	if err := dev.Volume.WriteAt(block.Offset(), p[:]); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	return nil
}

// Close closes the underlying volume if it is closeable.
func (dev *VolumeDevice) Close() error {
	if c, ok := dev.Volume.(stdio.Closer); ok {
		return c.Close()
	}
	return nil
}
