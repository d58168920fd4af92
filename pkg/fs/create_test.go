package fs

import (
	"fmt"
	"testing"

	"github.com/jenyangk/FS-Sim/pkg/alloc"
	"github.com/jenyangk/FS-Sim/pkg/directory"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

func TestCreate(t *testing.T) {
	s, _ := mounted(t)
	must(t, s.Create("f", 3))
	must(t, s.Create("d", 0))

	f := find(t, s, "f")
	wantedF := Inode{
		Name:   NewName("f"),
		InUse:  true,
		Kind:   KindFile,
		Size:   3,
		Start:  1,
		Parent: ParentRoot,
	}
	if *f != wantedF {
		t.Fatalf("file: wanted `%s`; found `%s`", jsonify(wantedF), jsonify(*f))
	}

	d := find(t, s, "d")
	wantedD := Inode{
		Name:   NewName("d"),
		InUse:  true,
		Kind:   KindDir,
		Parent: ParentRoot,
	}
	if *d != wantedD {
		t.Fatalf("dir: wanted `%s`; found `%s`", jsonify(wantedD), jsonify(*d))
	}

	sb := superblock(t, s)
	if sb.Bitmap[0] != 0b1111_0000 {
		t.Fatalf("bitmap byte 0: wanted `%08b`; found `%08b`", 0b1111_0000, sb.Bitmap[0])
	}
}

func TestCreateErrors(t *testing.T) {
	t.Run("reserved", func(t *testing.T) {
		s, _ := mounted(t)
		wantErr(t, ReservedNameErr, s.Create(".", 0))
		wantErr(t, ReservedNameErr, s.Create("..", 4))
	})

	t.Run("invalid-name", func(t *testing.T) {
		s, _ := mounted(t)
		must(t, s.Create("a", 0))
		must(t, s.ChangeDirectory("a"))
		must(t, s.Create("b", 0))
		must(t, s.ChangeDirectory(".."))
		before := superblock(t, s)
		wantErr(t, InvalidNameErr, s.Create("a/b", 0))
		wantErr(t, InvalidNameErr, s.Create("/", 1))
		wantErr(t, InvalidNameErr, s.Create("", 1))
		if superblock(t, s) != before {
			t.Fatal("Create(): superblock changed after an invalid name")
		}
		entries, err := s.List()
		must(t, err)
		if len(entries) != 3 || entries[2].Name != "a" || entries[2].Size != 3 {
			t.Fatalf("List(): wanted `.`, `..`, `a` (3); found `%s`", jsonify(entries))
		}
	})

	t.Run("conflict", func(t *testing.T) {
		s, _ := mounted(t)
		must(t, s.Create("abc", 1))
		before := superblock(t, s)
		wantErr(t, NameConflictErr, s.Create("abc", 0))
		wantErr(t, NameConflictErr, s.Create("abc", 2))
		if superblock(t, s) != before {
			t.Fatal("Create(): superblock changed after a name conflict")
		}
	})

	t.Run("insufficient-space", func(t *testing.T) {
		s, _ := mounted(t)
		must(t, s.Create("a", 100))
		before := superblock(t, s)
		wantErr(t, InsufficientSpaceErr, s.Create("b", 28))
		if superblock(t, s) != before {
			t.Fatal("Create(): superblock changed after failed allocation")
		}
		must(t, s.Create("b", 27))
	})

	t.Run("inode-table-full", func(t *testing.T) {
		s, _ := mounted(t)
		for i := 0; i < int(InodeCount); i++ {
			must(t, s.Create(fmt.Sprintf("d%d", i), 0))
		}
		wantErr(t, InodeTableFullErr, s.Create("x", 0))
		// a full table is reported before a name conflict
		wantErr(t, InodeTableFullErr, s.Create("d0", 0))
	})

	t.Run("conflict-before-space", func(t *testing.T) {
		s, _ := mounted(t)
		must(t, s.Create("a", 127))
		wantErr(t, NameConflictErr, s.Create("a", 1))
		wantErr(t, InsufficientSpaceErr, s.Create("b", 1))
	})
}

func TestCreateDeleteSymmetry(t *testing.T) {
	s, _ := mounted(t)
	must(t, s.Create("keep", 7))
	must(t, s.Create("dir", 0))
	before := superblock(t, s)

	for _, tc := range []struct {
		name string
		size Block
	}{
		{name: "file", size: 5},
		{name: "dir2", size: 0},
		{name: "big", size: 120},
	} {
		must(t, s.Create(tc.name, tc.size))
		must(t, s.Delete(tc.name))
		if after := superblock(t, s); after != before {
			t.Fatalf(
				"create/delete `%s`: wanted `%s`; found `%s`",
				tc.name,
				jsonify(before),
				jsonify(after),
			)
		}
	}
}

func TestBestFitCreate(t *testing.T) {
	// free runs: 3 blocks at 10, 5 at 40, 4 at 60
	var sb Superblock
	for i, r := range []struct{ start, size Block }{
		{1, 9},
		{13, 27},
		{45, 15},
		{64, 64},
	} {
		sb.Inodes[i] = Inode{
			Name:   NewName(fmt.Sprintf("f%d", i)),
			InUse:  true,
			Size:   r.size,
			Start:  r.start,
			Parent: ParentRoot,
		}
		alloc.View(sb.Bitmap[:]).Reserve(r.start, r.size)
	}

	s := NewSession(disksFake{"disk0": image(&sb)}, nil)
	must(t, s.Mount("disk0"))
	must(t, s.Create("new", 4))
	if start := find(t, s, "new").Start; start != 60 {
		t.Fatalf("Create(): wanted start `60`; found `%d`", start)
	}
	must(t, s.Create("new2", 3))
	if start := find(t, s, "new2").Start; start != 10 {
		t.Fatalf("Create(): wanted start `10`; found `%d`", start)
	}
}

func TestNameScoping(t *testing.T) {
	s, _ := mounted(t)
	must(t, s.Create("d", 0))
	must(t, s.Create("abc", 1))
	must(t, s.ChangeDirectory("d"))
	must(t, s.Create("abc", 1))
	wantErr(t, NameConflictErr, s.Create("abc", 2))
	must(t, s.ChangeDirectory(".."))
	wantErr(t, NameConflictErr, s.Create("abc", 0))

	if found := len(s.index.Children(directory.Root)); found != 2 {
		t.Fatalf("root children: wanted `2`; found `%d`", found)
	}
	if found := len(s.index.Children("root/d/")); found != 1 {
		t.Fatalf("root/d/ children: wanted `1`; found `%d`", found)
	}
}
