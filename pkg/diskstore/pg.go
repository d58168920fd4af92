package diskstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jenyangk/FS-Sim/pkg/io"
	. "github.com/jenyangk/FS-Sim/pkg/types"
	"github.com/lib/pq"
)

var _ Store = (*PGStore)(nil)

// PGStore keeps one `disk_blocks` row per block.
type PGStore sql.DB

func (pgs *PGStore) db() *sql.DB { return (*sql.DB)(pgs) }

func (pgs *PGStore) EnsureTable() error {
	if _, err := pgs.db().Exec(
		"CREATE TABLE IF NOT EXISTS disk_blocks (" +
			"disk VARCHAR(255) NOT NULL, " +
			"block SMALLINT NOT NULL, " +
			"data BYTEA NOT NULL, " +
			"PRIMARY KEY (disk, block))",
	); err != nil {
		return fmt.Errorf("creating `disk_blocks` postgres table: %w", err)
	}
	return nil
}

func (pgs *PGStore) DropTable() error {
	if _, err := pgs.db().Exec(
		"DROP TABLE IF EXISTS disk_blocks",
	); err != nil {
		return fmt.Errorf("dropping table `disk_blocks`: %w", err)
	}
	return nil
}

func (pgs *PGStore) ResetTable() error {
	if err := pgs.DropTable(); err != nil {
		return err
	}
	return pgs.EnsureTable()
}

func (pgs *PGStore) Open(name string) (io.BlockDevice, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	var blocks int
	if err := pgs.db().QueryRow(
		"SELECT COUNT(*) FROM disk_blocks WHERE disk = $1",
		key,
	).Scan(&blocks); err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %w", name, err)
	}
	switch blocks {
	case 0:
		return nil, fmt.Errorf("opening disk `%s`: %w", name, DiskNotFoundErr)
	case int(BlockCount):
		return &pgDevice{db: pgs.db(), disk: key}, nil
	default:
		return nil, fmt.Errorf(
			"opening disk `%s`: wanted `%d` blocks; found `%d`: %w",
			name,
			BlockCount,
			blocks,
			io.ImageSizeErr,
		)
	}
}

// Create inserts every block of the new disk in one transaction.
func (pgs *PGStore) Create(name string) (io.BlockDevice, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	tx, err := pgs.db().Begin()
	if err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO disk_blocks (disk, block, data) VALUES($1, $2, $3)",
	)
	if err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	defer stmt.Close()

	zeros := make([]byte, BlockSize)
	for blk := Block(0); blk < BlockCount; blk++ {
		if _, err := stmt.Exec(key, int(blk), zeros); err != nil {
			const errUniqueViolation = "23505"
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == errUniqueViolation {
				return nil, fmt.Errorf(
					"creating disk `%s`: %w",
					name,
					DiskExistsErr,
				)
			}
			return nil, fmt.Errorf(
				"creating disk `%s`: inserting block `%d`: %w",
				name,
				blk,
				err,
			)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %w", name, err)
	}
	return &pgDevice{db: pgs.db(), disk: key}, nil
}

type pgDevice struct {
	db   *sql.DB
	disk string
}

func (dev *pgDevice) ReadBlock(block Block, p *[BlockSize]byte) error {
	var data []byte
	if err := dev.db.QueryRow(
		"SELECT data FROM disk_blocks WHERE disk = $1 AND block = $2",
		dev.disk,
		int(block),
	).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = io.BlockOutOfRangeErr
		}
		return fmt.Errorf("reading block `%d` of `%s`: %w", block, dev.disk, err)
	}
	if Byte(len(data)) != BlockSize {
		return fmt.Errorf(
			"reading block `%d` of `%s`: wanted `%d` bytes; found `%d`",
			block,
			dev.disk,
			BlockSize,
			len(data),
		)
	}
	copy(p[:], data)
	return nil
}

func (dev *pgDevice) WriteBlock(block Block, p *[BlockSize]byte) error {
	if err := dev.db.QueryRow(
		"UPDATE disk_blocks SET data = $3 WHERE disk = $1 AND block = $2 "+
			"RETURNING block",
		dev.disk,
		int(block),
		p[:],
	).Scan(new(int)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = io.BlockOutOfRangeErr
		}
		return fmt.Errorf("writing block `%d` of `%s`: %w", block, dev.disk, err)
	}
	return nil
}

// Close is a no-op; the database handle belongs to the store.
func (dev *pgDevice) Close() error { return nil }
