package tablestore

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVStore persists tables as comma-separated UTF-8 files with a header row
// under a single directory. Table names are file names.
type CSVStore struct {
	dir    string
	logger *slog.Logger
}

// NewCSVStore creates a CSV-backed store rooted at dir.
func NewCSVStore(dir string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{dir: dir, logger: logger}
}

// Write persists the table. The rows go to a temporary file first and are
// renamed into place only after a successful flush, so a failed stage leaves
// no truncated artifact behind.
func (s *CSVStore) Write(ctx context.Context, table Table) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	finalPath := filepath.Join(s.dir, table.Name)

	tmp, err := os.CreateTemp(s.dir, table.Name+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeCSV(tmp, table); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", table.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize %s: %w", table.Name, err)
	}

	s.logger.InfoContext(ctx, "table written",
		slog.String("table", table.Name),
		slog.String("path", finalPath),
		slog.Int("rows", len(table.Rows)))

	return nil
}

func writeCSV(f *os.File, table Table) error {
	w := csv.NewWriter(f)

	if err := w.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

// Read loads a previously written table.
func (s *CSVStore) Read(ctx context.Context, name string) (Table, error) {
	path := filepath.Join(s.dir, name)

	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("table %s has no header row", name)
	}

	return Table{
		Name:   name,
		Header: records[0],
		Rows:   records[1:],
	}, nil
}
