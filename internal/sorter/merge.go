package sorter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tuannm99/novasort/internal/record"
	"github.com/tuannm99/novasort/internal/storage"
)

var ErrFanIn = errors.New("sorter: merge fan-in exceeds buffer capacity - 1")

// mergeGroup merges runs (level, start) .. (level, start+count-1) into run
// (level+1, out). It reports whether at least one record was written.
//
// Slot j of the buffer holds the current head of input j; the last slot
// stages the record being written. The minimum is found by a linear scan
// and the lowest slot index wins ties, so equal records come out in input
// run order.
func (s *Sorter) mergeGroup(level, start, count, out int) (wrote bool, err error) {
	if count <= 0 {
		return false, nil
	}
	if count > s.buf.FanIn() {
		return false, configErr(fmt.Errorf("%w: %d inputs, capacity %d", ErrFanIn, count, s.buf.Capacity()))
	}

	inputs := make([]*storage.RunReader, 0, count)
	defer func() {
		for _, in := range inputs {
			if cerr := in.Close(); cerr != nil && err == nil {
				err = ioErr("close run "+in.ID.String(), cerr)
			}
		}
		s.buf.Release(count)
	}()

	for j := 0; j < count; j++ {
		id := storage.RunID{Level: level, Seq: start + j}
		in, err := s.runs.Open(id)
		if err != nil {
			return false, ioErr("open run "+id.String(), err)
		}
		inputs = append(inputs, in)
	}

	outID := storage.RunID{Level: level + 1, Seq: out}
	w, err := s.runs.Create(outID)
	if err != nil {
		return false, ioErr("create run "+outID.String(), err)
	}
	closed := false
	defer func() {
		if closed {
			return
		}
		_ = w.Close()
		// a half-written run must not be mistaken for a result
		if rmErr := s.runs.Remove(outID); rmErr != nil {
			slog.Warn("sorter: failed to remove partial run", "run", outID.String(), "err", rmErr)
		}
	}()

	if err := w.WriteHeader(s.header); err != nil {
		return false, ioErr("write run "+outID.String(), err)
	}

	// skip headers, preload one record per input
	for j, in := range inputs {
		h, err := in.ReadHeader()
		if err != nil {
			return false, ioErr("read run header "+in.ID.String(), err)
		}
		if !h.Equal(s.header) {
			return false, fmt.Errorf("%w: %s", ErrCorruptRun, in.Path)
		}
		rec, err := s.next(in)
		if err != nil {
			return false, err
		}
		if err := s.buf.Set(j, rec); err != nil {
			return false, err
		}
	}

	for {
		best := -1
		for j := 0; j < count; j++ {
			cur := s.buf.Get(j)
			if cur == nil {
				continue
			}
			if best == -1 || s.cmp.Compare(cur, s.buf.Get(best)) < 0 {
				best = j
			}
		}
		if best == -1 {
			break // every input is exhausted
		}

		staged := s.buf.Stage(best)
		if err := w.Write(staged); err != nil {
			return wrote, ioErr("write run "+outID.String(), err)
		}
		wrote = true

		rec, err := s.next(inputs[best])
		if err != nil {
			return wrote, err
		}
		if err := s.buf.Set(best, rec); err != nil {
			return wrote, err
		}
	}

	closed = true
	if err := w.Close(); err != nil {
		_ = s.runs.Remove(outID)
		return wrote, ioErr("close run "+outID.String(), err)
	}

	s.opts.Metrics.RecordRun(level + 1)
	s.opts.Metrics.RecordMerge(count)
	slog.Debug("sorter: merged group",
		"level", level,
		"from", start,
		"count", count,
		"out", outID.String(),
		"records", w.Count(),
	)
	return wrote, nil
}

// next returns the following record of in, or nil once it is exhausted.
func (s *Sorter) next(in *storage.RunReader) (record.Record, error) {
	rec, err := in.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, ioErr("read run "+in.ID.String(), err)
	}
	return rec, nil
}
