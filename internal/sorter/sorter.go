package sorter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/bufferpool"
	"github.com/tuannm99/novasort/internal/keycmp"
	"github.com/tuannm99/novasort/internal/record"
	"github.com/tuannm99/novasort/internal/storage"
)

// Result is the single run left after the last merge pass.
type Result struct {
	Run   storage.RunID
	Path  string
	Codec storage.Codec
	Stats Stats
}

// Sorter runs one external sort of one source file. It is not safe for
// concurrent use and is meant to be used once: New, Sort, Close.
type Sorter struct {
	opts   Options
	source string

	header record.Header
	cmp    *keycmp.Comparator
	buf    *bufferpool.Buffer
	runs   storage.RunSet

	stats Stats

	// remove deletes one consumed run; swapped in tests.
	remove func(storage.RunID) error
}

// New reads the source header, resolves the sort columns and allocates the
// buffer and scratch directory. Every configuration problem is reported
// here. modes may be nil (all AUTO) or have one entry per column.
func New(source string, columns []string, modes []keycmp.Mode, opts Options) (*Sorter, error) {
	opts.fillDefaults()

	buf, err := bufferpool.New(opts.Capacity)
	if err != nil {
		return nil, configErr(err)
	}
	if len(columns) == 0 {
		return nil, configErr(keycmp.ErrEmptySortKeys)
	}
	if modes == nil {
		modes, _ = keycmp.ParseModes("", opts.Delimiter, len(columns))
	}
	if len(modes) != len(columns) {
		return nil, configErr(fmt.Errorf("%w: %d modes for %d columns", keycmp.ErrModeCount, len(modes), len(columns)))
	}

	header, err := readHeader(source, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	idx, err := header.Resolve(columns)
	if err != nil {
		return nil, configErr(err)
	}
	cmp, err := keycmp.Build(idx, modes)
	if err != nil {
		return nil, configErr(err)
	}

	dir, err := storage.NewScratchDir(opts.ScratchRoot, opts.Now())
	if err != nil {
		return nil, ioErr("create scratch dir", err)
	}

	s := &Sorter{
		opts:   opts,
		source: source,
		header: header,
		cmp:    cmp,
		buf:    buf,
		runs: storage.RunSet{
			Dir:     dir,
			Codec:   opts.Codec,
			Delim:   opts.Delimiter,
			Limiter: storage.NewLimiter(opts.IOLimitBytesPerS),
		},
		stats: Stats{Capacity: opts.Capacity},
	}
	s.remove = s.runs.Remove

	slog.Debug("sorter: ready",
		"source", source,
		"keys", cmp.Keys(),
		"capacity", opts.Capacity,
		"scratch", dir,
		"codec", opts.Codec.String(),
	)
	return s, nil
}

func readHeader(path string, delim byte) (record.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr("open source", err)
	}
	defer util.CloseFileFunc(f)

	h, err := record.NewReader(f, delim).ReadHeader()
	if errors.Is(err, record.ErrNoHeader) {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}
	if err != nil {
		return nil, ioErr("read source header", err)
	}
	return h, nil
}

func (s *Sorter) ScratchDir() string { return s.runs.Dir }

// Sort generates the initial runs and merges them level by level until one
// run is left.
func (s *Sorter) Sort() (*Result, error) {
	start := time.Now()
	total, err := s.generateRuns()
	if err != nil {
		return nil, err
	}
	s.stats.GenerateTime = time.Since(start)
	s.opts.Metrics.ObservePhase("generate", s.stats.GenerateTime)

	count := util.CeilDiv(total, s.buf.Capacity())
	s.stats.Records = total
	s.stats.InitialRuns = count

	slog.Info("sorter: level 0 generated",
		"records", total,
		"capacity", s.buf.Capacity(),
		"runs", count,
	)

	if count == 0 {
		// keep a header-only run so the result always exists on disk
		if err := s.writeRun(storage.RunID{}, nil); err != nil {
			return nil, err
		}
		return s.result(storage.RunID{}), nil
	}

	start = time.Now()
	level, err := s.mergeAll(count)
	if err != nil {
		return nil, err
	}
	s.stats.MergeTime = time.Since(start)
	s.opts.Metrics.ObservePhase("merge", s.stats.MergeTime)

	id := storage.RunID{Level: level, Seq: 0}
	slog.Info("sorter: done", "result", s.runs.Path(id), "level", level)
	return s.result(id), nil
}

// mergeAll runs merge passes while more than one run is left and returns
// the level of the final run. Passes never overlap: every group of a pass
// completes and the consumed level is cleaned up before the next pass.
func (s *Sorter) mergeAll(count int) (int, error) {
	fanIn := s.buf.FanIn()
	level := 0
	for count > 1 {
		pass := PassStats{Level: level, Inputs: count}
		produced := 0
		for start := 0; start < count; start += fanIn {
			n := min(fanIn, count-start)
			if _, err := s.mergeGroup(level, start, n, produced); err != nil {
				return 0, err
			}
			pass.Groups = append(pass.Groups, n)
			produced++
		}
		s.stats.Passes = append(s.stats.Passes, pass)

		slog.Info("sorter: merge pass done", "level", level+1, "runs", produced)

		s.removeLevel(level, count)
		level++
		count = produced
	}
	s.stats.FinalLevel = level
	return level, nil
}

func (s *Sorter) result(id storage.RunID) *Result {
	return &Result{
		Run:   id,
		Path:  s.runs.Path(id),
		Codec: s.runs.Codec,
		Stats: s.stats,
	}
}

// Close removes the scratch directory unless KeepScratch is set. Call it
// after the result has been published.
func (s *Sorter) Close() error {
	if s.opts.KeepScratch {
		slog.Info("sorter: keeping scratch dir", "dir", s.runs.Dir)
		return nil
	}
	return storage.RemoveScratchDir(s.runs.Dir)
}
