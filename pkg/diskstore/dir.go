package diskstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jenyangk/FS-Sim/pkg/io"
)

var _ Store = (*DirStore)(nil)

// DirStore keeps each disk as an image file. Names are paths relative to
// Dir; absolute names are used as they are.
type DirStore struct {
	Dir string
}

func (ds *DirStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ds.Dir, name)
}

func (ds *DirStore) Open(name string) (io.BlockDevice, error) {
	file, err := io.OpenFile(ds.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("opening disk `%s`: %w", name, DiskNotFoundErr)
		}
		return nil, fmt.Errorf("opening disk `%s`: %w", name, err)
	}
	return io.NewVolumeDevice(file), nil
}

func (ds *DirStore) Create(name string) (io.BlockDevice, error) {
	file, err := io.CreateFile(ds.path(name))
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("creating disk `%s`: %w", name, DiskExistsErr)
		}
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	return io.NewVolumeDevice(file), nil
}
