package diskstore

import (
	"fmt"
	"sync"

	"github.com/jenyangk/FS-Sim/pkg/io"
)

var _ Store = (*MemStore)(nil)

// MemStore keeps images in memory. Every device opened on a name shares the
// same image.
type MemStore struct {
	lock   sync.Mutex
	images map[string]*io.Buffer
}

func NewMemStore() *MemStore {
	return &MemStore{images: map[string]*io.Buffer{}}
}

func (ms *MemStore) Open(name string) (io.BlockDevice, error) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	image, found := ms.images[name]
	if !found {
		return nil, fmt.Errorf("opening disk `%s`: %w", name, DiskNotFoundErr)
	}
	return io.NewVolumeDevice(image), nil
}

func (ms *MemStore) Create(name string) (io.BlockDevice, error) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	if _, found := ms.images[name]; found {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, DiskExistsErr)
	}
	image := io.NewImage()
	ms.images[name] = image
	return io.NewVolumeDevice(image), nil
}

// Image returns the raw bytes of a disk, for inspection in tests.
func (ms *MemStore) Image(name string) ([]byte, bool) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	image, found := ms.images[name]
	if !found {
		return nil, false
	}
	return image.Bytes(), true
}
