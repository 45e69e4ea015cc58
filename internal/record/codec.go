package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const DefaultDelimiter byte = ';'

// Split cuts a line into exactly arity fields. Short lines are padded with
// empty fields; lines with more fields than the header are rejected.
func Split(line string, delim byte, arity int) (Record, error) {
	fields := strings.Split(line, string(delim))
	if len(fields) > arity {
		return nil, fmt.Errorf("%w: got %d fields, header has %d", ErrArity, len(fields), arity)
	}
	if len(fields) < arity {
		padded := make(Record, arity)
		copy(padded, fields)
		return padded, nil
	}
	return Record(fields), nil
}

// AppendLine appends the delimited, newline-terminated form of fields to dst.
func AppendLine(dst []byte, fields []string, delim byte) []byte {
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, delim)
		}
		dst = append(dst, f...)
	}
	return append(dst, '\n')
}

// Reader reads a header line followed by records, one per line.
type Reader struct {
	br    *bufio.Reader
	delim byte
	arity int
	line  int
}

func NewReader(r io.Reader, delim byte) *Reader {
	return &Reader{br: bufio.NewReader(r), delim: delim}
}

// readLine returns the next line without its terminator. It reports io.EOF
// only when no bytes are left.
func (r *Reader) readLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || s == "" {
			return "", err
		}
	}
	r.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

func (r *Reader) ReadHeader() (Header, error) {
	s, err := r.readLine()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	h := Header(strings.Split(s, string(r.delim)))
	r.arity = len(h)
	return h, nil
}

// Read returns the next record or io.EOF. A blank line is a record whose
// fields are all empty.
func (r *Reader) Read() (Record, error) {
	s, err := r.readLine()
	if err != nil {
		return nil, err
	}
	rec, err := Split(s, r.delim, r.arity)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	return rec, nil
}

// Writer writes delimited lines through a bufio.Writer. Call Flush when done.
type Writer struct {
	bw    *bufio.Writer
	delim byte
	buf   []byte
}

func NewWriter(w io.Writer, delim byte) *Writer {
	return &Writer{bw: bufio.NewWriter(w), delim: delim}
}

func (w *Writer) WriteHeader(h Header) error {
	return w.writeFields(h)
}

func (w *Writer) Write(rec Record) error {
	return w.writeFields(rec)
}

func (w *Writer) writeFields(fields []string) error {
	w.buf = AppendLine(w.buf[:0], fields, w.delim)
	_, err := w.bw.Write(w.buf)
	return err
}

func (w *Writer) Flush() error {
	return w.bw.Flush()
}
