package keycmp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMode   = errors.New("keycmp: unknown comparison mode")
	ErrModeCount     = errors.New("keycmp: mode count does not match column count")
	ErrInvalidKey    = errors.New("keycmp: invalid sort key")
	ErrEmptySortKeys = errors.New("keycmp: no sort columns")
)

// Mode selects how the values of one sort column are compared.
type Mode uint8

const (
	Numeric Mode = iota + 1 // int64 when both sides are all-digit, ordinal otherwise
	Text                    // ordinal string comparison
	Auto                    // decided per comparison
)

func (m Mode) String() string {
	switch m {
	case Numeric:
		return "NUM"
	case Text:
		return "TXT"
	case Auto:
		return "AUTO"
	default:
		return "unknown"
	}
}

func (m Mode) valid() bool {
	return m >= Numeric && m <= Auto
}

// ParseMode accepts NUM, TXT and AUTO in any case. An empty token means AUTO.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NUM":
		return Numeric, nil
	case "TXT":
		return Text, nil
	case "AUTO", "":
		return Auto, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected NUM/TXT/AUTO)", ErrUnknownMode, s)
	}
}

// ParseModes parses a delimiter-separated mode list for n sort columns.
// A blank list means every column is AUTO.
func ParseModes(list string, delim byte, n int) ([]Mode, error) {
	modes := make([]Mode, n)
	if strings.TrimSpace(list) == "" {
		for i := range modes {
			modes[i] = Auto
		}
		return modes, nil
	}

	tokens := strings.Split(list, string(delim))
	if len(tokens) != n {
		return nil, fmt.Errorf("%w: %d modes for %d columns", ErrModeCount, len(tokens), n)
	}
	for i, tok := range tokens {
		m, err := ParseMode(tok)
		if err != nil {
			return nil, err
		}
		modes[i] = m
	}
	return modes, nil
}
