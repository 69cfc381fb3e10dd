package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yurifrl/budgetu/pkg/aggregate"
	"github.com/yurifrl/budgetu/pkg/csv"
	"github.com/yurifrl/budgetu/pkg/report"
)

// WriteArtifacts writes every artifact that was produced into dir and
// returns the written paths. Failed artifacts are skipped. With groups set,
// the grouped sums are written as <name>-groups.csv too.
func WriteArtifacts(dir string, res *Result, groups bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	var written []string
	for _, a := range []struct {
		ext  string
		data []byte
		err  error
	}{
		{".xlsx", res.XLSX, res.XLSXErr},
		{".pdf", res.PDF, res.PDFErr},
	} {
		if a.err != nil || a.data == nil {
			continue
		}
		path := filepath.Join(dir, res.Name+a.ext)
		if err := WriteFileAtomic(path, a.data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if groups && res.Model != nil {
		data, err := GroupsCSV(res.Model)
		if err != nil {
			return written, fmt.Errorf("error rendering groups: %w", err)
		}
		path := filepath.Join(dir, res.Name+"-groups.csv")
		if err := WriteFileAtomic(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error moving %s into place: %w", path, err)
	}
	return nil
}

type groupRecord struct {
	group aggregate.CategoryGroup
}

func (r groupRecord) Fields() []string {
	return []string{
		r.group.Key,
		r.group.Actual.String(),
		r.group.RowActualEcho.String(),
		fmt.Sprint(r.group.Rows),
	}
}

// GroupsCSV renders the grouped sums of a model as CSV.
func GroupsCSV(m *report.Model) ([]byte, error) {
	records := make([]groupRecord, len(m.Groups))
	for i, g := range m.Groups {
		records[i] = groupRecord{group: g}
	}
	header := []string{report.LabelCategory, report.SeriesActual, report.SeriesRemaining, "Baris"}
	return csv.Create(header, records, nil)
}
