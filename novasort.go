package novasort

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tuannm99/novasort/internal"
	"github.com/tuannm99/novasort/internal/keycmp"
	"github.com/tuannm99/novasort/internal/metrics"
	"github.com/tuannm99/novasort/internal/output"
	"github.com/tuannm99/novasort/internal/sorter"
)

var (
	ErrConfiguration = sorter.ErrConfiguration
	ErrIO            = sorter.ErrIO
	ErrNoSink        = errors.New("novasort: no output sink")
)

// Request is one invocation: a source file, the sort columns and their
// optional comparison modes, both lists using the configured delimiter.
type Request struct {
	Source  string
	Columns string
	Modes   string
}

type Outcome struct {
	Location   string
	ReportPath string
	Stats      sorter.Stats
	Elapsed    time.Duration
}

type SortOperation interface {
	Run(ctx context.Context, req Request) (*Outcome, error)
}

var _ SortOperation = (*Runner)(nil)

// Runner wires config, sorter and sink together. A Runner can serve many
// requests one after the other; every request gets its own scratch dir.
type Runner struct {
	Config  *internal.NovaSortConfig
	Sink    output.Sink
	Metrics *metrics.Registry
}

func NewRunner(cfg *internal.NovaSortConfig, sink output.Sink, reg *metrics.Registry) *Runner {
	return &Runner{Config: cfg, Sink: sink, Metrics: reg}
}

func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	if r.Sink == nil {
		return nil, ErrNoSink
	}

	opts, err := r.Config.SortOptions()
	if err != nil {
		return nil, err
	}
	opts.Metrics = r.Metrics

	columns := SplitList(req.Columns, opts.Delimiter)
	modes, err := keycmp.ParseModes(req.Modes, opts.Delimiter, len(columns))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	s, err := sorter.New(req.Source, columns, modes, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("novasort: scratch dir not removed", "dir", s.ScratchDir(), "err", cerr)
		}
	}()

	res, err := s.Sort()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, err := r.Sink.Publish(ctx, res.Path, res.Codec)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Location: loc, Stats: res.Stats}
	if r.Config.Output.Report {
		out.ReportPath = output.ReportPath(r.Config.Output.Path)
		rep := output.Report{
			Source:  req.Source,
			Result:  loc,
			Columns: columns,
			Modes:   modeNames(modes),
			Codec:   res.Codec.String(),
			Stats:   res.Stats,
		}
		if err := output.WriteReport(out.ReportPath, rep); err != nil {
			return nil, err
		}
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

// SplitList splits a delimited list and trims every item. A blank list has
// no items.
func SplitList(s string, delim byte) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, string(delim))
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func modeNames(modes []keycmp.Mode) []string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}
