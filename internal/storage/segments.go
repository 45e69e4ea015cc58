package storage

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const runPrefix = "fragment_"

// ParseRunFileName is the inverse of RunFileName.
func ParseRunFileName(name string, c Codec) (RunID, bool) {
	suffix := ".csv" + c.Ext()
	if !strings.HasPrefix(name, runPrefix) || !strings.HasSuffix(name, suffix) {
		return RunID{}, false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(name, runPrefix), suffix)
	lvl, seq, ok := strings.Cut(mid, "_")
	if !ok {
		return RunID{}, false
	}
	l, err := strconv.Atoi(lvl)
	if err != nil || l < 0 {
		return RunID{}, false
	}
	s, err := strconv.Atoi(seq)
	if err != nil || s < 0 {
		return RunID{}, false
	}
	return RunID{Level: l, Seq: s}, true
}

// ListRuns scans rs.Dir and returns every run it holds, ordered by level
// then sequence.
func ListRuns(rs RunSet) ([]RunID, error) {
	ents, err := os.ReadDir(rs.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	ids := make([]RunID, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if id, ok := ParseRunFileName(e.Name(), rs.Codec); ok {
			ids = append(ids, id)
		}
	}

	slices.SortFunc(ids, func(a, b RunID) int {
		if c := cmp.Compare(a.Level, b.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	return ids, nil
}

// NewScratchDir creates root/run_<yyyyMMdd_HHmmss>_<id> for one invocation.
// The random suffix keeps invocations started in the same second apart.
func NewScratchDir(root string, now time.Time) (string, error) {
	name := fmt.Sprintf("run_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, FileMode0755); err != nil {
		return "", err
	}
	return dir, nil
}

// RemoveScratchDir deletes a scratch directory and whatever runs are left in it.
func RemoveScratchDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
