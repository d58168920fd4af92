package io

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

type ReadAt interface {
	ReadAt(offset Byte, b []byte) error
}

type WriteAt interface {
	WriteAt(offset Byte, p []byte) error
}

type Volume interface {
	ReadAt
	WriteAt
}

// BlockDevice is a synchronous store of BlockCount fixed-size blocks.
type BlockDevice interface {
	ReadBlock(block Block, p *[BlockSize]byte) error
	WriteBlock(block Block, p *[BlockSize]byte) error
	Close() error
}

const (
	BlockOutOfRangeErr ConstError = "block out of device range"
	ImageSizeErr       ConstError = "disk image has the wrong size"
)
