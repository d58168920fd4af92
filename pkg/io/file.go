package io

import (
	"fmt"
	"os"

	. "github.com/jenyangk/FS-Sim/pkg/types"
)

// File is a Volume backed by a disk image file.
type File struct {
	f *os.File
}

// OpenFile opens an existing disk image for reading and writing. The image
// must be exactly ImageSize bytes.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening disk image `%s`: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat disk image `%s`: %w", path, err)
	}
	if Byte(info.Size()) != ImageSize {
		f.Close()
		return nil, fmt.Errorf(
			"opening disk image `%s`: wanted `%d` bytes; found `%d`: %w",
			path,
			ImageSize,
			info.Size(),
			ImageSizeErr,
		)
	}
	return &File{f: f}, nil
}

// CreateFile creates a zero-filled disk image. It fails if path exists.
func CreateFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating disk image `%s`: %w", path, err)
	}
	if err := f.Truncate(int64(ImageSize)); err != nil {
		f.Close()
		return nil, fmt.Errorf("sizing disk image `%s`: %w", path, err)
	}
	return &File{f: f}, nil
}

func (file *File) ReadAt(offset Byte, p []byte) error {
	if _, err := file.f.ReadAt(p, int64(offset)); err != nil {
		return fmt.Errorf(
			"reading `%d` bytes from `%s` at offset `%d`: %w",
			len(p),
			file.f.Name(),
			offset,
			err,
		)
	}
	return nil
}

func (file *File) WriteAt(offset Byte, p []byte) error {
	if _, err := file.f.WriteAt(p, int64(offset)); err != nil {
		return fmt.Errorf(
			"writing `%d` bytes to `%s` at offset `%d`: %w",
			len(p),
			file.f.Name(),
			offset,
			err,
		)
	}
	return nil
}

func (file *File) Close() error { return file.f.Close() }
