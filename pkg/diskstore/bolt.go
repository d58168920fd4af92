package diskstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/jenyangk/FS-Sim/pkg/io"
	. "github.com/jenyangk/FS-Sim/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var _ Store = (*BoltStore)(nil)

// BoltStore keeps each disk in its own bucket, one key per block.
type BoltStore struct {
	DB *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database `%s`: %w", path, err)
	}
	return &BoltStore{DB: db}, nil
}

func (bs *BoltStore) Close() error { return bs.DB.Close() }

func (bs *BoltStore) Open(name string) (io.BlockDevice, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	if err := bs.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(key))
		if bucket == nil {
			return DiskNotFoundErr
		}
		if n := bucket.Stats().KeyN; n != int(BlockCount) {
			return fmt.Errorf(
				"wanted `%d` blocks; found `%d`: %w",
				BlockCount,
				n,
				io.ImageSizeErr,
			)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", name, err)
	}
	return &boltDevice{db: bs.DB, bucket: []byte(key)}, nil
}

func (bs *BoltStore) Create(name string) (io.BlockDevice, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	if err := bs.DB.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucket([]byte(key))
		if err != nil {
			if errors.Is(err, bolt.ErrBucketExists) {
				return DiskExistsErr
			}
			return err
		}
		zeros := make([]byte, BlockSize)
		for blk := Block(0); blk < BlockCount; blk++ {
			if err := bucket.Put(blockKey(blk), zeros); err != nil {
				return fmt.Errorf("writing block `%d`: %w", blk, err)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	return &boltDevice{db: bs.DB, bucket: []byte(key)}, nil
}

func blockKey(b Block) []byte { return []byte{byte(b)} }

type boltDevice struct {
	db     *bolt.DB
	bucket []byte
}

func (dev *boltDevice) ReadBlock(block Block, p *[BlockSize]byte) error {
	if err := dev.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(dev.bucket)
		if bucket == nil {
			return DiskNotFoundErr
		}
		data := bucket.Get(blockKey(block))
		if data == nil {
			return io.BlockOutOfRangeErr
		}
		// data is only valid inside the transaction
		copy(p[:], data)
		return nil
	}); err != nil {
		return fmt.Errorf("reading block `%d` of `%s`: %w", block, dev.bucket, err)
	}
	return nil
}

func (dev *boltDevice) WriteBlock(block Block, p *[BlockSize]byte) error {
	if !block.Valid() {
		return fmt.Errorf(
			"writing block `%d` of `%s`: %w",
			block,
			dev.bucket,
			io.BlockOutOfRangeErr,
		)
	}
	if err := dev.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(dev.bucket)
		if bucket == nil {
			return DiskNotFoundErr
		}
		return bucket.Put(blockKey(block), append([]byte(nil), p[:]...))
	}); err != nil {
		return fmt.Errorf("writing block `%d` of `%s`: %w", block, dev.bucket, err)
	}
	return nil
}

// Close is a no-op; the database handle belongs to the store.
func (dev *boltDevice) Close() error { return nil }
