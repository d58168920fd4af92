// Package check validates a decoded superblock against the file system's
// consistency rules.
package check

import (
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/alloc"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// InconsistentErr names the first rule a superblock violates.
type InconsistentErr struct {
	Rule int
}

func (err *InconsistentErr) Error() string {
	return fmt.Sprintf("file system is inconsistent (rule %d)", err.Rule)
}

// Check returns nil if sb is consistent. Otherwise it returns an
// *InconsistentErr for the lowest-numbered rule that fails.
func Check(sb *Superblock) error {
	for i, rule := range rules {
		if !rule(sb) {
			return &InconsistentErr{Rule: i + 1}
		}
	}
	return nil
}

var rules = [...]func(*Superblock) bool{
	bitmapMatchesFiles,
	siblingNamesUnique,
	slotsWellFormed,
	fileStartsValid,
	dirsHaveNoData,
	parentsValid,
}

// bitmapMatchesFiles requires the blocks owned by files (and the superblock's
// block) to be exactly the used blocks, with no data block owned twice. A
// file reaching into block 0 is left for fileStartsValid to report.
func bitmapMatchesFiles(sb *Superblock) bool {
	owned := alloc.View(make([]byte, BitmapSize))
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if !inode.IsFile() || inode.Size == 0 {
			continue
		}
		if inode.End() > int(BlockCount) {
			return false
		}
		for b := inode.Start; int(b) < inode.End(); b++ {
			if b >= BlockFirstData && owned.Used(b) {
				return false
			}
		}
		owned.Reserve(inode.Start, inode.Size)
	}
	owned.Reserve(BlockSuper, 1)

	used := sb.Bitmap
	for i, byt := range owned.Bytes() {
		if used[i] != byt {
			return false
		}
	}
	return true
}

func siblingNamesUnique(sb *Superblock) bool {
	type key struct {
		parent Parent
		name   string
	}
	seen := make(map[key]struct{}, len(sb.Inodes))
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if !inode.InUse {
			continue
		}
		k := key{parent: inode.Parent, name: inode.Name.String()}
		if _, found := seen[k]; found {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

func slotsWellFormed(sb *Superblock) bool {
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if inode.InUse {
			if inode.Name.IsZero() {
				return false
			}
		} else if *inode != (Inode{}) {
			return false
		}
	}
	return true
}

func fileStartsValid(sb *Superblock) bool {
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if inode.IsFile() &&
			(inode.Start < BlockFirstData || inode.Start > BlockLastData) {
			return false
		}
	}
	return true
}

func dirsHaveNoData(sb *Superblock) bool {
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if inode.IsDir() && (inode.Size != 0 || inode.Start != 0) {
			return false
		}
	}
	return true
}

func parentsValid(sb *Superblock) bool {
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if !inode.InUse || inode.Parent.IsRoot() {
			continue
		}
		if inode.Parent == ParentReserved {
			return false
		}
		ino, _ := inode.Parent.Ino()
		if !sb.Inodes[ino].IsDir() {
			return false
		}
	}
	return true
}
