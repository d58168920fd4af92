// Package testsupport holds in-memory fakes shared by tests.
package testsupport

import (
	"bytes"
	"io"

	"github.com/jenyangk/FS-Sim/pkg/objectstore"
)

var _ objectstore.ObjectStore = ObjectStoreFake{}

// ObjectStoreFake keeps objects in memory, keyed by [bucket, key].
type ObjectStoreFake map[[2]string][]byte

func (osf ObjectStoreFake) PutObject(
	bucket string,
	key string,
	data io.ReadSeeker,
) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, data); err != nil {
		return err
	}
	osf[[2]string{bucket, key}] = b.Bytes()
	return nil
}

func (osf ObjectStoreFake) GetObject(
	bucket string,
	key string,
) (io.ReadCloser, error) {
	data, found := osf[[2]string{bucket, key}]
	if !found {
		return nil, &objectstore.ObjectNotFoundErr{Bucket: bucket, Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
