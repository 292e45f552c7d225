package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/splitbill/internal/model"
)

// Format names accepted by Save.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Save writes the report into dir and returns the paths written. CSV output
// is two files, the owner table and "-lines" detail; XLSX is one workbook.
func Save(dir string, report *model.Report, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	base := filepath.Join(dir, BaseName(report))

	switch strings.ToLower(format) {
	case FormatCSV, "":
		owners := base + ".csv"
		if err := writeFile(owners, func(w io.Writer) error {
			return WriteOwners(w, report.Allocation.Owners)
		}); err != nil {
			return nil, err
		}
		lines := base + "-lines.csv"
		if err := writeFile(lines, func(w io.Writer) error {
			return WriteLines(w, report.Allocation.Lines)
		}); err != nil {
			return nil, err
		}
		return []string{owners, lines}, nil
	case FormatXLSX:
		path := base + ".xlsx"
		if err := writeFile(path, func(w io.Writer) error {
			return WriteXLSX(w, report)
		}); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q: want csv or xlsx", format)
	}
}

// BaseName returns "<YYYY-MM>-<source>-<run>" for a report, e.g.
// "2025-10-october-3f2a9c1d".
func BaseName(report *model.Report) string {
	source := strings.TrimSuffix(filepath.Base(report.Source), filepath.Ext(report.Source))
	source = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, source)
	if source == "" || source == "." || source == "_" {
		source = "statement"
	}
	run := report.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	return fmt.Sprintf("%s-%s-%s", report.GeneratedAt.Format("2006-01"), source, run)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
