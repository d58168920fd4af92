// Package objectstore stores whole objects by bucket and key.
package objectstore

import (
	"fmt"
	"io"
)

type ObjectStore interface {
	PutObject(bucket, key string, data io.ReadSeeker) error
	GetObject(bucket, key string) (io.ReadCloser, error)
}

type ObjectNotFoundErr struct {
	Bucket string
	Key    string
}

func (err *ObjectNotFoundErr) Error() string {
	return fmt.Sprintf("object not found: bucket=%s key=%s", err.Bucket, err.Key)
}
