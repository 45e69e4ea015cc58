package keycmp

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novasort/internal/record"
)

func single(t *testing.T, mode Mode) *Comparator {
	t.Helper()
	c, err := New([]Key{{Column: 0, Mode: mode}})
	require.NoError(t, err)
	return c
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestCompare_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		a, b string
		want int
	}{
		{"both empty tie", Auto, "", "", 0},
		{"empty first", Auto, "", "5", -1},
		{"empty first reversed", Numeric, "5", "", 1},
		{"blank is empty", Text, "   ", "a", -1},
		{"leading zeros numeric", Numeric, "007", "7", 0},
		{"leading zeros auto", Auto, "007", "7", 0},
		{"leading zeros text", Text, "007", "7", -1},
		{"text ordinal", Text, "b", "a", 1},
		{"auto numeric", Auto, "9", "10", -1},
		{"text on digits", Text, "9", "10", 1},
		{"numeric fallback", Numeric, "abc", "10", 1},
		{"auto mixed falls back", Auto, "10", "1a", -1},
		{"trimmed", Auto, " 42 ", "42", 0},
		{"control bytes trimmed", Auto, "\x01\t5\x1f", "5", 0},
		{"control only is empty", Text, "\x00\x02", "a", -1},
		{"nbsp kept", Auto, "\u00a05", "5", 1},
		{"sign is not a digit", Auto, "-1", "0", -1},
		{"beyond int64", Auto, "99999999999999999999", "9223372036854775807", 1},
		{"beyond int64 with zeros", Numeric, "000099999999999999999999", "99999999999999999999", 0},
		{"uppercase before lowercase", Text, "Z", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := single(t, tt.mode)
			got := c.Compare(record.Record{tt.a}, record.Record{tt.b})
			assert.Equal(t, tt.want, sign(got))
		})
	}
}

func TestCompare_ContinuesOnTie(t *testing.T) {
	// key 1 text, key 2 numeric
	c, err := New([]Key{{Column: 1, Mode: Text}, {Column: 0, Mode: Numeric}})
	require.NoError(t, err)

	a := record.Record{"010", "Auvergne"}
	b := record.Record{"009", "Auvergne"}
	require.Positive(t, c.Compare(a, b), "009 must sort before 010")
	require.Negative(t, c.Compare(b, a))

	// both empty on the first key: move on
	a = record.Record{"2", ""}
	b = record.Record{"1", ""}
	require.Positive(t, c.Compare(a, b))

	require.Zero(t, c.Compare(record.Record{"1", "x"}, record.Record{"1", "x"}))
}

func TestCompare_ShortRecordIsEmpty(t *testing.T) {
	c, err := New([]Key{{Column: 3, Mode: Auto}})
	require.NoError(t, err)
	require.Negative(t, c.Compare(record.Record{"a"}, record.Record{"a", "b", "c", "d"}))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptySortKeys)

	_, err = New([]Key{{Column: -1, Mode: Auto}})
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = New([]Key{{Column: 0, Mode: Mode(42)}})
	require.ErrorIs(t, err, ErrUnknownMode)

	_, err = Build([]int{0, 1}, []Mode{Auto})
	require.ErrorIs(t, err, ErrModeCount)

	c, err := Build([]int{2, 0}, []Mode{Text, Numeric})
	require.NoError(t, err)
	require.Equal(t, []Key{{2, Text}, {0, Numeric}}, c.Keys())
}

func TestParseModes(t *testing.T) {
	modes, err := ParseModes("", ';', 3)
	require.NoError(t, err)
	require.Equal(t, []Mode{Auto, Auto, Auto}, modes)

	modes, err = ParseModes("num; TXT ;auto", ';', 3)
	require.NoError(t, err)
	require.Equal(t, []Mode{Numeric, Text, Auto}, modes)

	modes, err = ParseModes("NUM;", ';', 2)
	require.NoError(t, err)
	require.Equal(t, []Mode{Numeric, Auto}, modes)

	_, err = ParseModes("NUM", ';', 2)
	require.ErrorIs(t, err, ErrModeCount)

	_, err = ParseModes("NUM;DATE", ';', 2)
	require.ErrorIs(t, err, ErrUnknownMode)
	require.Contains(t, err.Error(), "DATE")
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "NUM", Numeric.String())
	require.Equal(t, "TXT", Text.String())
	require.Equal(t, "AUTO", Auto.String())
	require.Equal(t, "unknown", Mode(0).String())
}

func TestIsDigits(t *testing.T) {
	require.True(t, IsDigits("0123"))
	require.False(t, IsDigits(""))
	require.False(t, IsDigits("+1"))
	require.False(t, IsDigits("1e3"))
	require.False(t, IsDigits("1,000"))
}

// Properties that hold for TEXT keys and for AUTO keys over digit-only values.
func TestComparatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	auto, err := New([]Key{{Column: 0, Mode: Auto}})
	require.NoError(t, err)
	text, err := New([]Key{{Column: 0, Mode: Text}})
	require.NoError(t, err)

	properties.Property("compare is antisymmetric", prop.ForAll(
		func(a, b string) bool {
			x, y := record.Record{a}, record.Record{b}
			return sign(auto.Compare(x, y)) == -sign(auto.Compare(y, x)) &&
				sign(text.Compare(x, y)) == -sign(text.Compare(y, x))
		},
		gen.AlphaNumString(),
		gen.AlphaNumString(),
	))

	properties.Property("compare is reflexive", prop.ForAll(
		func(a string) bool {
			return auto.Compare(record.Record{a}, record.Record{a}) == 0
		},
		gen.AnyString(),
	))

	properties.Property("auto on digits matches integer order", prop.ForAll(
		func(a, b uint32) bool {
			x := record.Record{uintString(a)}
			y := record.Record{uintString(b)}
			want := 0
			if a < b {
				want = -1
			} else if a > b {
				want = 1
			}
			return sign(auto.Compare(x, y)) == want
		},
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.Property("transitive over digit strings", prop.ForAll(
		func(a, b, c uint16) bool {
			x, y, z := record.Record{uintString(uint32(a))}, record.Record{uintString(uint32(b))}, record.Record{uintString(uint32(c))}
			if auto.Compare(x, y) <= 0 && auto.Compare(y, z) <= 0 {
				return auto.Compare(x, z) <= 0
			}
			return true
		},
		gen.UInt16(),
		gen.UInt16(),
		gen.UInt16(),
	))

	properties.TestingRun(t)
}

func uintString(v uint32) string {
	// pad some values with leading zeros to exercise the numeric path
	if v%3 == 0 {
		return "00" + strconv.FormatUint(uint64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}
