package diskstore

import (
	"bytes"
	"errors"
	"fmt"
	stdio "io"
	"sync"

	"github.com/jenyangk/FS-Sim/pkg/io"
	"github.com/jenyangk/FS-Sim/pkg/objectstore"
	. "github.com/jenyangk/FS-Sim/pkg/types"
)

var _ Store = (*ObjectStore)(nil)

// ObjectStore keeps each disk as one object. An image is downloaded when
// first opened and shared by every device open on it; it is uploaded again
// when a device that wrote to it is closed.
type ObjectStore struct {
	Objects objectstore.ObjectStore
	Bucket  string
	Prefix  string

	lock sync.Mutex
	open map[string]*objectImage
}

type objectImage struct {
	key   string
	image *io.Buffer
	dirty bool
	refs  int
}

func (store *ObjectStore) key(name string) (string, error) {
	key, err := Key(name)
	if err != nil {
		return "", err
	}
	return store.Prefix + key, nil
}

func (store *ObjectStore) Open(name string) (io.BlockDevice, error) {
	key, err := store.key(name)
	if err != nil {
		return nil, err
	}

	store.lock.Lock()
	defer store.lock.Unlock()
	if img, found := store.open[key]; found {
		return store.device(img), nil
	}

	body, err := store.Objects.GetObject(store.Bucket, key)
	if err != nil {
		var notFound *objectstore.ObjectNotFoundErr
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("opening disk `%s`: %w", name, DiskNotFoundErr)
		}
		return nil, fmt.Errorf("opening disk `%s`: %w", name, err)
	}
	defer body.Close()

	data, err := stdio.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("opening disk `%s`: reading object: %w", name, err)
	}
	if Byte(len(data)) != ImageSize {
		return nil, fmt.Errorf(
			"opening disk `%s`: wanted `%d` bytes; found `%d`: %w",
			name,
			ImageSize,
			len(data),
			io.ImageSizeErr,
		)
	}
	return store.device(store.track(key, io.NewBuffer(data), false)), nil
}

func (store *ObjectStore) Create(name string) (io.BlockDevice, error) {
	key, err := store.key(name)
	if err != nil {
		return nil, err
	}

	store.lock.Lock()
	defer store.lock.Unlock()
	if _, found := store.open[key]; found {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, DiskExistsErr)
	}
	body, err := store.Objects.GetObject(store.Bucket, key)
	if err == nil {
		body.Close()
		return nil, fmt.Errorf("creating disk `%s`: %w", name, DiskExistsErr)
	}
	var notFound *objectstore.ObjectNotFoundErr
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	return store.device(store.track(key, io.NewImage(), true)), nil
}

func (store *ObjectStore) track(
	key string,
	image *io.Buffer,
	dirty bool,
) *objectImage {
	if store.open == nil {
		store.open = map[string]*objectImage{}
	}
	img := &objectImage{key: key, image: image, dirty: dirty}
	store.open[key] = img
	return img
}

func (store *ObjectStore) device(img *objectImage) *objectDevice {
	img.refs++
	return &objectDevice{
		VolumeDevice: io.NewVolumeDevice(img.image),
		store:        store,
		img:          img,
	}
}

// release uploads the image if it changed and forgets it once the last
// device closes.
func (store *ObjectStore) release(img *objectImage) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	img.refs--
	if img.refs < 1 {
		delete(store.open, img.key)
	}
	if !img.dirty {
		return nil
	}
	if err := store.Objects.PutObject(
		store.Bucket,
		img.key,
		bytes.NewReader(img.image.Bytes()),
	); err != nil {
		return fmt.Errorf("uploading disk `%s`: %w", img.key, err)
	}
	img.dirty = false
	return nil
}

type objectDevice struct {
	*io.VolumeDevice
	store  *ObjectStore
	img    *objectImage
	closed bool
}

func (dev *objectDevice) WriteBlock(block Block, p *[BlockSize]byte) error {
	if err := dev.VolumeDevice.WriteBlock(block, p); err != nil {
		return err
	}
	dev.store.lock.Lock()
	dev.img.dirty = true
	dev.store.lock.Unlock()
	return nil
}

func (dev *objectDevice) Close() error {
	if dev.closed {
		return nil
	}
	dev.closed = true
	return dev.store.release(dev.img)
}
