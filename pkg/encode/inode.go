package encode

import (
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

const (
	inodeNameStart = 0
	inodeNameSize  = NameSize
	inodeNameEnd   = inodeNameStart + inodeNameSize

	inodeUsedSizeStart = inodeNameEnd
	inodeUsedSizeSize  = 1
	inodeUsedSizeEnd   = inodeUsedSizeStart + inodeUsedSizeSize

	inodeStartBlockStart = inodeUsedSizeEnd
	inodeStartBlockSize  = 1
	inodeStartBlockEnd   = inodeStartBlockStart + inodeStartBlockSize

	inodeDirParentStart = inodeStartBlockEnd
	inodeDirParentSize  = 1
	inodeDirParentEnd   = inodeDirParentStart + inodeDirParentSize

	InodeSize = inodeDirParentEnd
)

func EncodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]
	copy(p[inodeNameStart:inodeNameEnd], inode.Name[:])
	putFlagged(p, inodeUsedSizeStart, inode.InUse, uint8(inode.Size))
	putU8(p, inodeStartBlockStart, uint8(inode.Start))
	putFlagged(p, inodeDirParentStart, inode.Kind == KindDir, uint8(inode.Parent))
}

// DecodeInode does no validation; a free slot with stray bytes decodes into
// a non-zero Inode with InUse unset, which the checker reports.
func DecodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]
	copy(inode.Name[:], p[inodeNameStart:inodeNameEnd])

	inUse, size := getFlagged(p, inodeUsedSizeStart)
	inode.InUse = inUse
	inode.Size = Block(size)
	inode.Start = Block(getU8(p, inodeStartBlockStart))

	dir, parent := getFlagged(p, inodeDirParentStart)
	inode.Kind = KindFile
	if dir {
		inode.Kind = KindDir
	}
	inode.Parent = Parent(parent)
}
