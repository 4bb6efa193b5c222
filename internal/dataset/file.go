package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"pdf-markup/internal/features"
)

// Row is one labeled or unlabeled dataset row.
type Row struct {
	Values features.Vector
	Label  string
}

// WriteFile writes a complete dataset to path, replacing any existing file.
func WriteFile(path string, schema features.Schema, labeled bool, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrWrite, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	w := NewWriter(f, schema, labeled)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row.Values, row.Label); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
