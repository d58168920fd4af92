package types

type Byte int64

type Block uint8

const (
	BlockSize  Byte  = 1024
	BlockCount Block = 128
	ImageSize  Byte  = Byte(BlockCount) * BlockSize

	// BlockSuper holds the superblock; it is never handed out to a file.
	BlockSuper     Block = 0
	BlockFirstData Block = 1
	BlockLastData  Block = BlockCount - 1
)

// Offset is the byte offset of the block on the device.
func (b Block) Offset() Byte { return Byte(b) * BlockSize }

func (b Block) Valid() bool { return b < BlockCount }

type ConstError string

func (err ConstError) Error() string { return string(err) }
