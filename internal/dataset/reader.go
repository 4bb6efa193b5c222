package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"pdf-markup/internal/features"
)

// Reader reads rows written by Writer.
type Reader struct {
	s    *bufio.Scanner
	line int
}

// NewReader creates a Reader on r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{s: s}
}

// Read returns the next row with quote doubling undone, or io.EOF.
func (r *Reader) Read() ([]string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++
	fields := strings.Split(strings.TrimSuffix(r.s.Text(), "\r"), separator)
	for i, f := range fields {
		fields[i] = Unescape(f)
	}
	return fields, nil
}

// ReadAll reads all remaining rows.
func (r *Reader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// ReadHeader returns the header row of the dataset file at path.
func ReadHeader(path string) (features.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	header, err := NewReader(f).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	return header, nil
}

// CheckHeader verifies that the dataset at path was written for schema.
func CheckHeader(path string, schema features.Schema, labeled bool) error {
	got, err := ReadHeader(path)
	if err != nil {
		return err
	}
	want := schema
	if labeled {
		want = schema.Labeled()
	}
	if !want.Equal(got) {
		return fmt.Errorf("%w: %s has %d columns %v, want %d columns %v",
			features.ErrSchemaMismatch, path, len(got), got, len(want), want)
	}
	return nil
}
