package record

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColumn = errors.New("record: unknown column")
	ErrArity         = errors.New("record: field count exceeds header")
	ErrNoHeader      = errors.New("record: missing header line")
)

// Header is the ordered list of column names read from the first line of a file.
// Its length is the arity of every record in that file.
type Header []string

// Record is one data line split into fields. len(Record) == len(Header).
type Record []string

// Index returns the position of the first column called name, or -1.
func (h Header) Index(name string) int {
	for i, col := range h {
		if col == name {
			return i
		}
	}
	return -1
}

// Resolve maps sort column names to their header positions, keeping the
// caller's priority order.
func (h Header) Resolve(names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos := h.Index(name)
		if pos < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		idx[i] = pos
	}
	return idx, nil
}

func (h Header) Equal(o Header) bool {
	if len(h) != len(o) {
		return false
	}
	for i := range h {
		if h[i] != o[i] {
			return false
		}
	}
	return true
}

// Field returns the value at column i, or "" when the record is too short.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
