package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novasort/internal/record"
)

func TestNew_RejectsSmallCapacity(t *testing.T) {
	_, err := New(2)
	require.ErrorIs(t, err, ErrCapacityTooSmall)

	b, err := New(MinCapacity)
	require.NoError(t, err)
	require.Equal(t, 3, b.Capacity())
	require.Equal(t, 2, b.FanIn())
	require.Equal(t, 2, b.StagingSlot())
}

func TestBuffer_AppendUntilFull(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)

	for i, v := range []string{"c", "a", "b"} {
		require.False(t, b.Full())
		require.NoError(t, b.Append(record.Record{v}))
		require.Equal(t, i+1, b.Len())
	}
	require.True(t, b.Full())
	require.ErrorIs(t, b.Append(record.Record{"d"}), ErrBufferFull)

	filled := b.Filled()
	require.Len(t, filled, 3)
	filled[0], filled[1] = filled[1], filled[0]
	require.Equal(t, record.Record{"a"}, b.Get(0), "Filled must alias the slots")
}

func TestBuffer_ResetDropsRecords(t *testing.T) {
	b, err := New(4)
	require.NoError(t, err)
	require.NoError(t, b.Append(record.Record{"x"}))
	require.NoError(t, b.Append(record.Record{"y"}))

	b.Reset()
	require.Equal(t, 0, b.Len())
	require.Nil(t, b.Get(0))
	require.Nil(t, b.Get(1))
	require.Empty(t, b.Filled())
}

func TestBuffer_StageAndRelease(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)

	require.NoError(t, b.Set(0, record.Record{"1"}))
	require.NoError(t, b.Set(1, record.Record{"2"}))
	require.ErrorIs(t, b.Set(3, nil), ErrSlotOutOfRange)

	got := b.Stage(1)
	require.Equal(t, record.Record{"2"}, got)
	require.Equal(t, record.Record{"2"}, b.Get(b.StagingSlot()))

	b.Release(2)
	for i := 0; i < b.Capacity(); i++ {
		require.Nil(t, b.Get(i))
	}
}
