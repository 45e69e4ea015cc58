package novasort

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novasort/internal"
	"github.com/tuannm99/novasort/internal/keycmp"
	"github.com/tuannm99/novasort/internal/metrics"
	"github.com/tuannm99/novasort/internal/output"
)

func testConfig(t *testing.T) *internal.NovaSortConfig {
	t.Helper()
	cfg, err := internal.LoadConfig("")
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Sort.Capacity = 3
	cfg.Sort.ScratchDir = filepath.Join(dir, "scratch")
	cfg.Output.Path = filepath.Join(dir, "output", "sorted.csv")
	return cfg
}

func writeSource(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunner_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Report = true
	cfg.Storage.Codec = "snappy"
	reg := metrics.NewRegistry()

	src := writeSource(t, "name;age;city\nzoe;30;Oslo\nal;9;Rome\nbob;100;Oslo\namy;30;Lima\ncat;;Rome\n")
	r := NewRunner(cfg, output.NewLocalSink(cfg.Output.Path), reg)

	out, err := r.Run(context.Background(), Request{Source: src, Columns: "age; name", Modes: "NUM;TXT"})
	require.NoError(t, err)
	require.Equal(t, cfg.Output.Path, out.Location)
	require.Equal(t, 5, out.Stats.Records)
	require.Positive(t, out.Elapsed)

	b, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	require.Equal(t, "name;age;city\ncat;;Rome\nal;9;Rome\namy;30;Lima\nzoe;30;Oslo\nbob;100;Oslo\n", string(b))

	rep, err := output.ReadReport(out.ReportPath)
	require.NoError(t, err)
	require.Equal(t, []string{"age", "name"}, rep.Columns)
	require.Equal(t, []string{"NUM", "TXT"}, rep.Modes)
	require.Equal(t, "snappy", rep.Codec)

	// scratch runs are gone once the result is published
	ents, err := os.ReadDir(cfg.Sort.ScratchDir)
	require.NoError(t, err)
	require.Empty(t, ents)

	require.InDelta(t, 5, testutil.ToFloat64(reg.RecordsRead), 0)
}

func TestRunner_DefaultModesAreAuto(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "n\n10\n9\nx\n\n100\n")

	out, err := NewRunner(cfg, output.NewLocalSink(cfg.Output.Path), nil).
		Run(context.Background(), Request{Source: src, Columns: "n"})
	require.NoError(t, err)
	require.Equal(t, 5, out.Stats.Records)

	b, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	require.Equal(t, "n\n\n9\n10\n100\nx\n", string(b))
}

func TestRunner_ConfigurationErrors(t *testing.T) {
	cfg := testConfig(t)
	src := writeSource(t, "a;b\n1;2\n")
	r := NewRunner(cfg, output.NewLocalSink(cfg.Output.Path), nil)

	for _, req := range []Request{
		{Source: src, Columns: "a;b", Modes: "NUM"},
		{Source: src, Columns: "a", Modes: "FLOAT"},
		{Source: src, Columns: "c"},
		{Source: src, Columns: ""},
	} {
		_, err := r.Run(context.Background(), req)
		require.ErrorIs(t, err, ErrConfiguration, "request %+v", req)
	}

	_, err := r.Run(context.Background(), Request{Source: src, Columns: "a", Modes: "FLOAT"})
	require.ErrorIs(t, err, keycmp.ErrUnknownMode)

	_, statErr := os.Stat(cfg.Output.Path)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRunner_MissingSource(t *testing.T) {
	cfg := testConfig(t)
	r := NewRunner(cfg, output.NewLocalSink(cfg.Output.Path), nil)

	_, err := r.Run(context.Background(), Request{Source: filepath.Join(t.TempDir(), "none.csv"), Columns: "a"})
	require.ErrorIs(t, err, ErrIO)
}

func TestRunner_NoSink(t *testing.T) {
	_, err := NewRunner(testConfig(t), nil, nil).Run(context.Background(), Request{})
	require.ErrorIs(t, err, ErrNoSink)
}

func TestSplitList(t *testing.T) {
	require.Nil(t, SplitList("  ", ';'))
	require.Equal(t, []string{"a", "b c", ""}, SplitList(" a ;b c;", ';'))
	require.Equal(t, []string{"x", "y"}, SplitList("x|y", '|'))
}
