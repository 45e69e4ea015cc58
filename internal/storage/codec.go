package storage

import (
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newEncoder wraps w with the codec's compressor. Closing the encoder
// flushes it but never closes w.
func newEncoder(c Codec, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopWriteCloser{w}, nil
	case CodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, ErrUnknownCodec
	}
}

// newDecoder wraps r with the codec's decompressor. Closing the decoder
// releases its resources but never closes r.
func newDecoder(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CodecZstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, ErrUnknownCodec
	}
}
