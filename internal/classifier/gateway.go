// Package classifier hands feature rows to the external classifier and
// returns its labels.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"pdf-markup/internal/features"
)

var (
	// ErrProcess is returned when the classifier cannot be started or exits
	// abnormally.
	ErrProcess = errors.New("classifier process failed")

	// ErrTimeout is returned when the classifier does not finish in time.
	// It wraps ErrProcess.
	ErrTimeout = fmt.Errorf("%w: timed out", ErrProcess)

	// ErrOutput is returned when the classifier's label file cannot be read.
	ErrOutput = errors.New("classifier output unreadable")
)

// Gateway classifies feature rows. The result holds at most one raw label
// token per row, in row order; it may be shorter than rows.
type Gateway interface {
	Classify(ctx context.Context, schema features.Schema, rows []features.Vector) ([]string, error)
}

// Func adapts an ordinary function to a Gateway.
type Func func(ctx context.Context, schema features.Schema, rows []features.Vector) ([]string, error)

func (f Func) Classify(ctx context.Context, schema features.Schema, rows []features.Vector) ([]string, error) {
	return f(ctx, schema, rows)
}
