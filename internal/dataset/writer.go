// Package dataset reads and writes the comma separated feature tables
// exchanged with the external classifier.
//
// The format is deliberately minimal: fields are separated by commas, every
// row ends with a newline, and a double quote inside a value is doubled but
// the value itself is never wrapped in quotes.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"pdf-markup/internal/features"
)

const (
	separator = ","
	newline   = "\n"
)

var (
	// ErrUnsafeValue is returned for values that cannot be represented
	// without field quoting.
	ErrUnsafeValue = errors.New("value contains a separator or newline")

	// ErrWrite wraps failures of the underlying file or stream.
	ErrWrite = errors.New("dataset write failed")
)

// Escape doubles every double quote in value.
func Escape(value string) string {
	return strings.ReplaceAll(value, `"`, `""`)
}

// Unescape reverses Escape.
func Unescape(value string) string {
	return strings.ReplaceAll(value, `""`, `"`)
}

// Writer writes a header row followed by feature rows. A labeled writer
// produces a training table with a trailing label column; an unlabeled one
// produces a prediction table.
type Writer struct {
	w       *bufio.Writer
	schema  features.Schema
	labeled bool
	rows    int
}

// NewWriter creates a Writer for schema.
func NewWriter(w io.Writer, schema features.Schema, labeled bool) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		schema:  schema,
		labeled: labeled,
	}
}

// Header returns the header row this writer produces.
func (w *Writer) Header() []string {
	if w.labeled {
		return w.schema.Labeled()
	}
	return w.schema
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.writeLine(w.Header())
}

// WriteRow writes one feature vector. label must be set for labeled writers
// and empty otherwise.
func (w *Writer) WriteRow(v features.Vector, label string) error {
	if err := w.schema.Validate(v); err != nil {
		return fmt.Errorf("row %d: %w", w.rows, err)
	}

	fields := []string(v)
	switch {
	case w.labeled && label == "":
		return fmt.Errorf("row %d: training row without label", w.rows)
	case !w.labeled && label != "":
		return fmt.Errorf("row %d: prediction row with label %q", w.rows, label)
	case w.labeled:
		fields = append(fields[:len(fields):len(fields)], label)
	}

	if err := w.writeLine(fields); err != nil {
		return fmt.Errorf("row %d: %w", w.rows, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (w *Writer) writeLine(values []string) error {
	var sb strings.Builder
	for i, value := range values {
		if strings.ContainsAny(value, separator+newline+"\r") {
			return fmt.Errorf("%w: %q", ErrUnsafeValue, value)
		}
		if i > 0 {
			sb.WriteString(separator)
		}
		sb.WriteString(Escape(value))
	}
	sb.WriteString(newline)

	if _, err := w.w.WriteString(sb.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
