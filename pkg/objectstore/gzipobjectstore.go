package objectstore

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

var _ ObjectStore = (*GzipObjectStore)(nil)

// GzipObjectStore compresses objects on the way into the wrapped store and
// decompresses them on the way out. Zeroed disk images shrink to almost
// nothing.
type GzipObjectStore struct {
	ObjectStore
}

func (os *GzipObjectStore) PutObject(bucket, key string, data io.ReadSeeker) error {
	var b bytes.Buffer
	w, err := gzip.NewWriterLevel(&b, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := io.Copy(w, data); err != nil {
		return fmt.Errorf("compressing object `%s`: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}
	return os.ObjectStore.PutObject(bucket, key, bytes.NewReader(b.Bytes()))
}

func (os *GzipObjectStore) GetObject(bucket, key string) (io.ReadCloser, error) {
	body, err := os.ObjectStore.GetObject(bucket, key)
	if err != nil {
		return nil, err
	}
	r, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("decompressing object `%s`: %w", key, err)
	}
	return &gzipReadCloser{body: body, Reader: r}, nil
}

// gzipReadCloser closes both the decompressor and the underlying body.
type gzipReadCloser struct {
	*gzip.Reader
	body io.ReadCloser
}

func (grc *gzipReadCloser) Close() error {
	if err := grc.Reader.Close(); err != nil {
		grc.body.Close()
		return err
	}
	return grc.body.Close()
}
