// Package features turns annotation region images into ordered feature
// vectors for the external classifier.
package features

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strconv"
)

// LabelColumn is the trailing header column of labeled (training) datasets.
const LabelColumn = "key"

// ErrSchemaMismatch is returned when a vector or dataset header does not
// line up with the extractor's schema.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// Schema is the ordered list of feature column names.
type Schema []string

// Equal returns true if both schemas name the same columns in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate checks that v has one value per schema column.
func (s Schema) Validate(v Vector) error {
	if len(v) != len(s) {
		return fmt.Errorf("%w: vector has %d values, schema has %d columns", ErrSchemaMismatch, len(v), len(s))
	}
	return nil
}

// Labeled returns the header of a training dataset: the schema followed by
// the label column.
func (s Schema) Labeled() Schema {
	out := make(Schema, len(s), len(s)+1)
	copy(out, s)
	return append(out, LabelColumn)
}

// Vector holds one region's feature values in schema order. Numbers are
// stored in their dataset text form so training and prediction files encode
// them identically.
type Vector []string

// Extractor describes a region image by a fixed, ordered set of features.
// ExtractFeatures must be deterministic and return exactly one value per
// name in FeatureNames.
type Extractor interface {
	FeatureNames() Schema
	ExtractFeatures(img image.Image) Vector
}

// Extract runs e on img and verifies the result against e's schema.
func Extract(e Extractor, img image.Image) (Vector, error) {
	v := e.ExtractFeatures(img)
	if err := e.FeatureNames().Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

var registry = map[string]func() Extractor{
	"shape":   func() Extractor { return Shape{} },
	"default": func() Extractor { return NewDefault() },
}

// ByName returns the pure-Go extractor registered under name.
func ByName(name string) (Extractor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown feature extractor %q (have %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the registered extractor names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Float formats a numeric feature value.
func Float(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// Int formats an integer feature value.
func Int(n int) string {
	return strconv.Itoa(n)
}
