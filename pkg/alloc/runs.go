package alloc

import (
	"sort"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// Run is a maximal sequence of consecutive free data blocks.
type Run struct {
	Start Block `json:"start"`
	Len   Block `json:"len"`
}

func (r Run) End() Block { return r.Start + r.Len }

// Runs lists the free runs in blocks 1..127, lowest address first.
func (bm Bitmap) Runs() []Run {
	var runs []Run
	var current Run
	for b := BlockFirstData; b < BlockCount; b++ {
		if bm.Used(b) {
			if current.Len > 0 {
				runs = append(runs, current)
				current = Run{}
			}
			continue
		}
		if current.Len == 0 {
			current.Start = b
		}
		current.Len++
	}
	if current.Len > 0 {
		runs = append(runs, current)
	}
	return runs
}

// RunIndex orders free runs by length and then by start. Several runs may
// share a length.
type RunIndex []Run

func NewRunIndex(runs []Run) RunIndex {
	index := make(RunIndex, len(runs))
	copy(index, runs)
	sort.Slice(index, func(i, j int) bool {
		if index[i].Len != index[j].Len {
			return index[i].Len < index[j].Len
		}
		return index[i].Start < index[j].Start
	})
	return index
}

// BestFit returns the shortest run of at least n blocks, preferring the
// lowest start among equally short runs.
func (index RunIndex) BestFit(n Block) (Run, bool) {
	i := sort.Search(len(index), func(i int) bool { return index[i].Len >= n })
	if i == len(index) {
		return Run{}, false
	}
	return index[i], true
}

// FindRun returns the start of the best-fitting free run of n blocks.
func (bm Bitmap) FindRun(n Block) (Block, bool) {
	if n < 1 {
		return 0, false
	}
	run, ok := NewRunIndex(bm.Runs()).BestFit(n)
	return run.Start, ok
}
