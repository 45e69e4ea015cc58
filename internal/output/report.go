package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuannm99/novasort/internal/sorter"
	"github.com/tuannm99/novasort/internal/storage"
)

// Report is the YAML summary written next to a result.
type Report struct {
	Source  string       `yaml:"source"`
	Result  string       `yaml:"result"`
	Columns []string     `yaml:"columns"`
	Modes   []string     `yaml:"modes"`
	Codec   string       `yaml:"codec"`
	Stats   sorter.Stats `yaml:"stats"`
}

// ReportPath turns output/sorted.csv into output/sorted.report.yaml.
func ReportPath(resultPath string) string {
	ext := filepath.Ext(resultPath)
	return strings.TrimSuffix(resultPath, ext) + ".report.yaml"
}

func WriteReport(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), storage.FileMode0755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, storage.FileMode0644)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("report: encode: %w", err)
	}
	return f.Close()
}

func ReadReport(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("report: decode: %w", err)
	}
	return &r, nil
}
