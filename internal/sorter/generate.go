package sorter

import (
	"errors"
	"io"
	"os"
	"slices"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/record"
	"github.com/tuannm99/novasort/internal/storage"
)

// generateRuns reads the whole source, cutting it into level-0 runs of at
// most Capacity records, each sorted. It returns the number of records read.
func (s *Sorter) generateRuns() (int, error) {
	f, err := os.Open(s.source)
	if err != nil {
		return 0, ioErr("open source", err)
	}
	defer util.CloseFileFunc(f)

	r := record.NewReader(f, s.opts.Delimiter)
	if _, err := r.ReadHeader(); err != nil {
		return 0, ioErr("read source header", err)
	}

	total, seq := 0, 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, ioErr("read source", err)
		}

		if err := s.buf.Append(rec); err != nil {
			return total, err
		}
		total++

		if s.buf.Full() {
			if err := s.flushBuffer(seq); err != nil {
				return total, err
			}
			seq++
		}
	}

	// last, partial run
	if s.buf.Len() > 0 {
		if err := s.flushBuffer(seq); err != nil {
			return total, err
		}
	}

	s.opts.Metrics.AddRecordsRead(total)
	return total, nil
}

// flushBuffer sorts the buffered records and persists them as run (0, seq).
// The buffer is emptied only after the run is closed on disk.
func (s *Sorter) flushBuffer(seq int) error {
	filled := s.buf.Filled()
	slices.SortStableFunc(filled, s.cmp.Compare)

	id := storage.RunID{Level: 0, Seq: seq}
	if err := s.writeRun(id, filled); err != nil {
		return err
	}

	s.stats.InitialRunSizes = append(s.stats.InitialRunSizes, len(filled))
	s.opts.Metrics.RecordRun(0)
	s.buf.Reset()
	return nil
}

func (s *Sorter) writeRun(id storage.RunID, recs []record.Record) error {
	w, err := s.runs.Create(id)
	if err != nil {
		return ioErr("create run "+id.String(), err)
	}
	if err := w.WriteHeader(s.header); err != nil {
		util.CloseFileFunc(w)
		return ioErr("write run "+id.String(), err)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			util.CloseFileFunc(w)
			return ioErr("write run "+id.String(), err)
		}
	}
	if err := w.Close(); err != nil {
		return ioErr("close run "+id.String(), err)
	}
	return nil
}
