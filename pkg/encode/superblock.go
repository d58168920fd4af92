package encode

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

const (
	superblockBitmapStart = 0
	superblockBitmapSize  = BitmapSize
	superblockBitmapEnd   = superblockBitmapStart + superblockBitmapSize

	superblockInodesStart = superblockBitmapEnd
	superblockInodesSize  = Byte(InodeCount) * InodeSize
	superblockInodesEnd   = superblockInodesStart + superblockInodesSize
)

// the inode table fills the rest of the block exactly
var _ [BlockSize - superblockInodesEnd]struct{}
var _ [superblockInodesEnd - BlockSize]struct{}

func EncodeSuperblock(sb *Superblock, b *[BlockSize]byte) {
	copy(b[superblockBitmapStart:superblockBitmapEnd], sb.Bitmap[:])
	for i := range sb.Inodes {
		EncodeInode(&sb.Inodes[i], inodeRecord(b, Ino(i)))
	}
}

func DecodeSuperblock(sb *Superblock, b *[BlockSize]byte) {
	copy(sb.Bitmap[:], b[superblockBitmapStart:superblockBitmapEnd])
	for i := range sb.Inodes {
		DecodeInode(&sb.Inodes[i], inodeRecord(b, Ino(i)))
	}
}

func inodeRecord(b *[BlockSize]byte, ino Ino) *[InodeSize]byte {
	start := superblockInodesStart + Byte(ino)*InodeSize
	return (*[InodeSize]byte)(b[start : start+InodeSize])
}
