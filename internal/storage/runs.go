package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/record"
)

// RunID names a run by merge level and sequence number within that level.
type RunID struct {
	Level int
	Seq   int
}

func (id RunID) String() string {
	return fmt.Sprintf("%d_%d", id.Level, id.Seq)
}

// RunFileName returns fragment_<level>_<seq>.csv plus the codec extension.
func RunFileName(id RunID, c Codec) string {
	return fmt.Sprintf("fragment_%d_%d.csv%s", id.Level, id.Seq, c.Ext())
}

// RunSet is the directory holding the runs of one sort invocation.
type RunSet struct {
	Dir     string
	Codec   Codec
	Delim   byte
	Limiter *rate.Limiter
}

func (rs RunSet) Path(id RunID) string {
	return filepath.Join(rs.Dir, RunFileName(id, rs.Codec))
}

// Create opens a new run for writing. An existing run with the same id is
// an error: runs are written exactly once.
func (rs RunSet) Create(id RunID) (*RunWriter, error) {
	path := rs.Path(id)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunExists, path)
		}
		return nil, err
	}

	bw := bufio.NewWriterSize(throttle(f, rs.Limiter), IOBufferSize)
	enc, err := newEncoder(rs.Codec, bw)
	if err != nil {
		util.CloseFileFunc(f)
		return nil, err
	}
	return &RunWriter{
		ID:   id,
		Path: path,
		f:    f,
		bw:   bw,
		enc:  enc,
		w:    record.NewWriter(enc, rs.Delim),
	}, nil
}

// Open opens an existing run for reading.
func (rs RunSet) Open(id RunID) (*RunReader, error) {
	path := rs.Path(id)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, path)
		}
		return nil, err
	}
	dec, err := newDecoder(rs.Codec, bufio.NewReaderSize(f, IOBufferSize))
	if err != nil {
		util.CloseFileFunc(f)
		return nil, err
	}
	return &RunReader{
		ID:   id,
		Path: path,
		f:    f,
		dec:  dec,
		r:    record.NewReader(dec, rs.Delim),
	}, nil
}

// Remove deletes one run file. A run that is already gone is not an error.
func (rs RunSet) Remove(id RunID) error {
	err := os.Remove(rs.Path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// OpenDecoded returns the plain-text content of the run file at path.
func OpenDecoded(path string, c Codec) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := newDecoder(c, bufio.NewReaderSize(f, IOBufferSize))
	if err != nil {
		util.CloseFileFunc(f)
		return nil, err
	}
	return &decodedFile{ReadCloser: dec, f: f}, nil
}

type decodedFile struct {
	io.ReadCloser
	f *os.File
}

func (d *decodedFile) Close() error {
	return errors.Join(d.ReadCloser.Close(), d.f.Close())
}

// RunWriter appends records to a run file: header first, then records.
type RunWriter struct {
	ID   RunID
	Path string

	f     *os.File
	bw    *bufio.Writer
	enc   io.WriteCloser
	w     *record.Writer
	count int
}

func (rw *RunWriter) WriteHeader(h record.Header) error {
	return rw.w.WriteHeader(h)
}

func (rw *RunWriter) Write(rec record.Record) error {
	if err := rw.w.Write(rec); err != nil {
		return err
	}
	rw.count++
	return nil
}

// Count is the number of records written so far, header excluded.
func (rw *RunWriter) Count() int { return rw.count }

// Close flushes every layer and closes the file. The file is closed even
// when a flush fails.
func (rw *RunWriter) Close() error {
	var errs []error
	errs = append(errs, rw.w.Flush())
	errs = append(errs, rw.enc.Close())
	errs = append(errs, rw.bw.Flush())
	errs = append(errs, rw.f.Close())
	return errors.Join(errs...)
}

// RunReader reads a run file back record by record.
type RunReader struct {
	ID   RunID
	Path string

	f   *os.File
	dec io.ReadCloser
	r   *record.Reader
}

func (rr *RunReader) ReadHeader() (record.Header, error) {
	return rr.r.ReadHeader()
}

// Read returns the next record or io.EOF.
func (rr *RunReader) Read() (record.Record, error) {
	return rr.r.Read()
}

func (rr *RunReader) Close() error {
	return errors.Join(rr.dec.Close(), rr.f.Close())
}
