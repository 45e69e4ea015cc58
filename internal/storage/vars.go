package storage

import (
	"errors"
	"fmt"
)

const (
	OneKB = 1 << 10
	OneMB = 1 << 20

	// read/write buffer around each run file
	IOBufferSize = 64 * OneKB
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

// Codec is the on-disk encoding of run files.
type Codec int

const (
	CodecNone Codec = iota + 1
	CodecSnappy
	CodecZstd
	CodecLZ4
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSnappy:
		return "snappy"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Ext is appended to run file names so a scratch directory is readable by hand.
func (c Codec) Ext() string {
	switch c {
	case CodecSnappy:
		return ".sz"
	case CodecZstd:
		return ".zst"
	case CodecLZ4:
		return ".lz4"
	default:
		return ""
	}
}

func GetCodec(s string) (Codec, error) {
	switch s {
	case "none", "":
		return CodecNone, nil
	case "snappy":
		return CodecSnappy, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownCodec, s)
	}
}

var (
	ErrUnknownCodec = errors.New("storage: unknown run codec")
	ErrRunExists    = errors.New("storage: run already exists")
	ErrRunNotFound  = errors.New("storage: run not found")
)
