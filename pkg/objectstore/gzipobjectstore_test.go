package objectstore_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jenyangk/FS-Sim/pkg/objectstore"
	"github.com/jenyangk/FS-Sim/pkg/testsupport"
)

func TestGzipObjectStore(t *testing.T) {
	fake := testsupport.ObjectStoreFake{}
	objectStore := objectstore.GzipObjectStore{ObjectStore: fake}
	image := make([]byte, 128*1024)
	copy(image[1024:], "my-data")

	if err := objectStore.PutObject(
		"disks",
		"disk0",
		bytes.NewReader(image),
	); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}

	if stored := fake[[2]string{"disks", "disk0"}]; len(stored) >= len(image) {
		t.Fatalf(
			"stored object: wanted fewer than `%d` bytes; found `%d`",
			len(image),
			len(stored),
		)
	}

	body, err := objectStore.GetObject("disks", "disk0")
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if !bytes.Equal(data, image) {
		t.Fatalf("wanted `%d` round-tripped bytes; found `%d`", len(image), len(data))
	}
}

func TestGzipObjectStoreNotFound(t *testing.T) {
	objectStore := objectstore.GzipObjectStore{
		ObjectStore: testsupport.ObjectStoreFake{},
	}
	_, err := objectStore.GetObject("disks", "missing")

	var e *objectstore.ObjectNotFoundErr
	if !errors.As(err, &e) {
		t.Fatalf("wanted `*ObjectNotFoundErr`; found `%v`", err)
	}
}

func TestGzipObjectStoreCorrupt(t *testing.T) {
	fake := testsupport.ObjectStoreFake{}
	if err := fake.PutObject(
		"disks",
		"junk",
		strings.NewReader("not gzip"),
	); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	objectStore := objectstore.GzipObjectStore{ObjectStore: fake}
	if _, err := objectStore.GetObject("disks", "junk"); err == nil {
		t.Fatal("wanted an error; found `nil`")
	}
}
