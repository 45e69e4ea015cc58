package bufferpool

import (
	"errors"
	"fmt"

	"github.com/tuannm99/novasort/internal/record"
)

const (
	MinCapacity     = 3
	DefaultCapacity = 10
)

var (
	ErrCapacityTooSmall = errors.New("bufferpool: capacity below minimum")
	ErrBufferFull       = errors.New("bufferpool: buffer is full")
	ErrSlotOutOfRange   = errors.New("bufferpool: slot out of range")
)

// Buffer is the fixed set of M record slots shared by run generation and
// merging. Its capacity bounds how many records are held in memory at once.
//
// During generation slots [0, Len) hold the records waiting to be sorted.
// During a merge slots [0, FanIn) hold the head of each input run and the
// last slot is the staging slot for the record being written.
type Buffer struct {
	slots []record.Record
	fill  int
}

func New(capacity int) (*Buffer, error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrCapacityTooSmall, capacity, MinCapacity)
	}
	return &Buffer{slots: make([]record.Record, capacity)}, nil
}

func (b *Buffer) Capacity() int { return len(b.slots) }

// FanIn is the largest number of runs one merge may read: every slot but
// the staging one.
func (b *Buffer) FanIn() int { return len(b.slots) - 1 }

func (b *Buffer) StagingSlot() int { return len(b.slots) - 1 }

func (b *Buffer) Len() int { return b.fill }

func (b *Buffer) Full() bool { return b.fill == len(b.slots) }

// Append stores r in the next free slot.
func (b *Buffer) Append(r record.Record) error {
	if b.Full() {
		return ErrBufferFull
	}
	b.slots[b.fill] = r
	b.fill++
	return nil
}

// Filled returns the occupied slots. The slice aliases the buffer, so
// sorting it sorts the buffer in place.
func (b *Buffer) Filled() []record.Record {
	return b.slots[:b.fill]
}

// Reset empties the buffer after its records were persisted. The run on
// disk is now the only owner of that data, so the slots are dropped.
func (b *Buffer) Reset() {
	clear(b.slots[:b.fill])
	b.fill = 0
}

func (b *Buffer) Get(i int) record.Record {
	return b.slots[i]
}

func (b *Buffer) Set(i int, r record.Record) error {
	if i < 0 || i >= len(b.slots) {
		return fmt.Errorf("%w: %d (capacity %d)", ErrSlotOutOfRange, i, len(b.slots))
	}
	b.slots[i] = r
	return nil
}

// Stage copies slot i into the staging slot and returns it.
func (b *Buffer) Stage(i int) record.Record {
	b.slots[b.StagingSlot()] = b.slots[i]
	return b.slots[b.StagingSlot()]
}

// Release clears the first n slots and the staging slot.
func (b *Buffer) Release(n int) {
	if n > b.StagingSlot() {
		n = b.StagingSlot()
	}
	clear(b.slots[:n])
	b.slots[b.StagingSlot()] = nil
	b.fill = 0
}
