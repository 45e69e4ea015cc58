package sorter

import (
	"log/slog"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/storage"
)

// removeLevel deletes runs (level, 0) .. (level, count-1) once they have been
// merged. A run that survives every attempt is logged and left behind; the
// sort itself carries on.
func (s *Sorter) removeLevel(level, count int) {
	for seq := 0; seq < count; seq++ {
		id := storage.RunID{Level: level, Seq: seq}
		attempts, err := util.Retry(s.opts.Cleanup, func() error {
			return s.remove(id)
		})
		if err == nil {
			continue
		}
		s.stats.CleanupFailures++
		s.opts.Metrics.RecordCleanupFailure()
		slog.Warn("sorter: run not removed",
			"path", s.runs.Path(id),
			"attempts", attempts,
			"err", err,
		)
	}
}
