package keycmp

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/tuannm99/novasort/internal/record"
)

// Key is one (column, mode) pair of a sort key.
type Key struct {
	Column int
	Mode   Mode
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.Column, k.Mode)
}

// Comparator orders records by a priority-ordered list of keys.
// It holds no mutable state and is safe to share.
type Comparator struct {
	keys []Key
}

// New validates keys once so that Compare never has to fail.
func New(keys []Key) (*Comparator, error) {
	if len(keys) == 0 {
		return nil, ErrEmptySortKeys
	}
	for i, k := range keys {
		if k.Column < 0 {
			return nil, fmt.Errorf("%w: key %d has column %d", ErrInvalidKey, i, k.Column)
		}
		if !k.Mode.valid() {
			return nil, fmt.Errorf("%w: key %d has mode %d", ErrUnknownMode, i, k.Mode)
		}
	}
	return &Comparator{keys: append([]Key(nil), keys...)}, nil
}

// Build pairs column indices with modes.
func Build(columns []int, modes []Mode) (*Comparator, error) {
	if len(columns) != len(modes) {
		return nil, fmt.Errorf("%w: %d modes for %d columns", ErrModeCount, len(modes), len(columns))
	}
	keys := make([]Key, len(columns))
	for i := range columns {
		keys[i] = Key{Column: columns[i], Mode: modes[i]}
	}
	return New(keys)
}

func (c *Comparator) Keys() []Key {
	return append([]Key(nil), c.keys...)
}

// Compare returns a negative number when a sorts before b, positive when
// after, and 0 when every key ties.
func (c *Comparator) Compare(a, b record.Record) int {
	for _, k := range c.keys {
		x := trim(a.Field(k.Column))
		y := trim(b.Field(k.Column))

		// empty sorts first
		switch {
		case x == "" && y == "":
			continue
		case x == "":
			return -1
		case y == "":
			return 1
		}

		var r int
		if k.Mode == Text {
			r = strings.Compare(x, y)
		} else {
			r = compareNumericOrText(x, y)
		}
		if r != 0 {
			return r
		}
	}
	return 0
}

// trim drops leading and trailing bytes <= ' ', control characters
// included. Unicode spaces such as NBSP are kept.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}

// compareNumericOrText is the NUM and AUTO rule: numeric only when both
// values are all-digit, ordinal otherwise.
func compareNumericOrText(x, y string) int {
	if IsDigits(x) && IsDigits(y) {
		return compareDigits(x, y)
	}
	return strings.Compare(x, y)
}

// IsDigits reports whether s is non-empty and made only of '0'..'9'.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareDigits compares two all-digit strings as integers. Values beyond
// int64 are compared by magnitude, which agrees with the int64 order.
func compareDigits(x, y string) int {
	a, errA := strconv.ParseInt(x, 10, 64)
	b, errB := strconv.ParseInt(y, 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(a, b)
	}

	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	if len(x) != len(y) {
		return cmp.Compare(len(x), len(y))
	}
	return strings.Compare(x, y)
}
