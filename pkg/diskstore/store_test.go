package diskstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jenyangk/FS-Sim/pkg/check"
	"github.com/jenyangk/FS-Sim/pkg/encode"
	"github.com/jenyangk/FS-Sim/pkg/io"
	"github.com/jenyangk/FS-Sim/pkg/objectstore"
	"github.com/jenyangk/FS-Sim/pkg/pgutil"
	"github.com/jenyangk/FS-Sim/pkg/testsupport"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// testStore exercises the behaviour every backend shares.
func testStore(t *testing.T, store Store) {
	t.Helper()

	if _, err := store.Open("disk0"); !errors.Is(err, DiskNotFoundErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", DiskNotFoundErr, err)
	}

	if err := Mkfs(store, "disk0"); err != nil {
		t.Fatalf("Mkfs(): unexpected err: %v", err)
	}
	if err := Mkfs(store, "disk0"); !errors.Is(err, DiskExistsErr) {
		t.Fatalf("Mkfs(): wanted `%v`; found `%v`", DiskExistsErr, err)
	}

	dev, err := store.Open("disk0")
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}

	var b [BlockSize]byte
	if err := dev.ReadBlock(BlockSuper, &b); err != nil {
		t.Fatalf("ReadBlock(): unexpected err: %v", err)
	}
	var sb Superblock
	encode.DecodeSuperblock(&sb, &b)
	if err := check.Check(&sb); err != nil {
		t.Fatalf("Check(): formatted disk: %v", err)
	}
	if sb.Bitmap[0] != 0b1000_0000 {
		t.Fatalf("bitmap byte 0: wanted `10000000`; found `%08b`", sb.Bitmap[0])
	}

	copy(b[:], "block data")
	if err := dev.WriteBlock(BlockLastData, &b); err != nil {
		t.Fatalf("WriteBlock(): unexpected err: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}

	dev, err = store.Open("disk0")
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	defer dev.Close()
	var found [BlockSize]byte
	if err := dev.ReadBlock(BlockLastData, &found); err != nil {
		t.Fatalf("ReadBlock(): unexpected err: %v", err)
	}
	if !bytes.Equal(found[:], b[:]) {
		t.Fatalf("ReadBlock(): wanted `%.10s`; found `%.10s`", b[:], found[:])
	}
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	testStore(t, &DirStore{Dir: dir})

	info, err := os.Stat(filepath.Join(dir, "disk0"))
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	if info.Size() != int64(ImageSize) {
		t.Fatalf("image size: wanted `%d`; found `%d`", ImageSize, info.Size())
	}
}

func TestDirStoreWrongSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(
		filepath.Join(dir, "short"),
		make([]byte, 1000),
		0644,
	); err != nil {
		t.Fatalf("WriteFile(): unexpected err: %v", err)
	}
	store := DirStore{Dir: dir}
	if _, err := store.Open("short"); !errors.Is(err, io.ImageSizeErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", io.ImageSizeErr, err)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	testStore(t, store)

	image, found := store.Image("disk0")
	if !found || Byte(len(image)) != ImageSize {
		t.Fatalf("Image(): wanted `%d` bytes; found `%d`", ImageSize, len(image))
	}
}

func TestObjectStore(t *testing.T) {
	for _, tc := range []struct {
		name    string
		objects func(testsupport.ObjectStoreFake) objectstore.ObjectStore
	}{
		{
			name: "plain",
			objects: func(
				fake testsupport.ObjectStoreFake,
			) objectstore.ObjectStore {
				return fake
			},
		},
		{
			name: "gzip",
			objects: func(
				fake testsupport.ObjectStoreFake,
			) objectstore.ObjectStore {
				return &objectstore.GzipObjectStore{ObjectStore: fake}
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fake := testsupport.ObjectStoreFake{}
			testStore(t, &ObjectStore{
				Objects: tc.objects(fake),
				Bucket:  "disks",
				Prefix:  "images/",
			})
			if _, found := fake[[2]string{"disks", "images/disk0"}]; !found {
				t.Fatal("wanted object `images/disk0` in bucket `disks`")
			}
		})
	}
}

func TestObjectStoreSharesOpenImages(t *testing.T) {
	fake := testsupport.ObjectStoreFake{}
	store := ObjectStore{Objects: fake, Bucket: "disks"}
	if err := Mkfs(&store, "disk0"); err != nil {
		t.Fatalf("Mkfs(): unexpected err: %v", err)
	}

	first, err := store.Open("disk0")
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	var b [BlockSize]byte
	copy(b[:], "unflushed")
	if err := first.WriteBlock(5, &b); err != nil {
		t.Fatalf("WriteBlock(): unexpected err: %v", err)
	}

	// a second open sees the first device's unflushed writes
	second, err := store.Open("disk0")
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	var found [BlockSize]byte
	if err := second.ReadBlock(5, &found); err != nil {
		t.Fatalf("ReadBlock(): unexpected err: %v", err)
	}
	if !bytes.HasPrefix(found[:], []byte("unflushed")) {
		t.Fatalf("ReadBlock(): wanted `unflushed`; found `%.9s`", found[:])
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if data := fake[[2]string{"disks", "disk0"}]; !bytes.HasPrefix(
		data[5*BlockSize:],
		[]byte("unflushed"),
	) {
		t.Fatal("object: wanted block 5 uploaded")
	}
}

func TestBoltStore(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "disks.db"))
	if err != nil {
		t.Fatalf("OpenBolt(): unexpected err: %v", err)
	}
	defer store.Close()
	testStore(t, store)
}

func TestPGStore(t *testing.T) {
	if os.Getenv("PG_HOST") == "" {
		t.Skip("PG_HOST not set")
	}
	db, err := pgutil.OpenEnvPing()
	if err != nil {
		t.Fatalf("OpenEnvPing(): unexpected err: %v", err)
	}
	defer db.Close()

	store := (*PGStore)(db)
	if err := store.ResetTable(); err != nil {
		t.Fatalf("ResetTable(): unexpected err: %v", err)
	}
	defer store.DropTable()
	testStore(t, store)
}

func TestKey(t *testing.T) {
	for _, tc := range []struct {
		name    string
		wanted  string
		wantErr error
	}{
		{name: "disk0", wanted: "disk0"},
		{name: "My Disk", wanted: "my-disk"},
		{name: "???", wantErr: InvalidNameErr},
	} {
		found, err := Key(tc.name)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("Key(`%s`): wanted err `%v`; found `%v`", tc.name, tc.wantErr, err)
		}
		if found != tc.wanted {
			t.Fatalf("Key(`%s`): wanted `%s`; found `%s`", tc.name, tc.wanted, found)
		}
	}
}
