package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/storage"
)

// LocalSink decodes the final run into a file at Path, replacing whatever
// was there. The file only appears once it is complete.
type LocalSink struct {
	Path string
}

func NewLocalSink(path string) *LocalSink {
	if path == "" {
		path = DefaultPath
	}
	return &LocalSink{Path: path}
}

func (s *LocalSink) Publish(ctx context.Context, runPath string, codec storage.Codec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, storage.FileMode0755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrPublish, dir, err)
	}

	src, err := storage.OpenDecoded(runPath, codec)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrPublish, runPath, err)
	}
	defer util.CloseFileFunc(src)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPublish, err)
	}
	tmpPath := tmp.Name()
	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, src)
	if err != nil {
		util.CloseFileFunc(tmp)
		return "", fmt.Errorf("%w: copy: %w", ErrPublish, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close: %w", ErrPublish, err)
	}
	if err := os.Chmod(tmpPath, storage.FileMode0644); err != nil {
		return "", fmt.Errorf("%w: chmod: %w", ErrPublish, err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return "", fmt.Errorf("%w: rename: %w", ErrPublish, err)
	}
	ok = true

	slog.Info("output: result written", "path", s.Path, "bytes", n)
	return s.Path, nil
}
