// Package corpus loads the labeled reference images used to build the
// classifier's training dataset.
//
// The corpus root holds one directory per label (text, underline, highlight),
// each containing example region images of that class.
package corpus

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"pdf-markup/internal/annotation"
	pdfimage "pdf-markup/internal/image"
)

// ErrCorpus is returned when the reference corpus cannot be read.
var ErrCorpus = errors.New("reference corpus unavailable")

// ClassOrder is the order in which label directories are read and written.
var ClassOrder = []annotation.Label{
	annotation.LabelText,
	annotation.LabelUnderline,
	annotation.LabelHighlight,
}

// Sample is one labeled reference image.
type Sample struct {
	Label annotation.Label
	Path  string
	Image image.Image
}

// Corpus holds all reference samples, grouped by class in ClassOrder and
// sorted by file name within a class.
type Corpus struct {
	Root    string
	Samples []Sample
}

// Load reads every supported image below root/<label>/ for each label.
// Missing class directories and undecodable images are errors.
func Load(root string) (*Corpus, error) {
	c := &Corpus{Root: root}
	for _, label := range ClassOrder {
		dir := filepath.Join(root, string(label))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !pdfimage.IsSupportedFormat(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			img, err := pdfimage.Load(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
			}
			c.Samples = append(c.Samples, Sample{Label: label, Path: path, Image: img})
		}
	}
	return c, nil
}

// Count returns the number of samples with the given label.
func (c *Corpus) Count(label annotation.Label) int {
	count := 0
	for _, s := range c.Samples {
		if s.Label == label {
			count++
		}
	}
	return count
}

// LoadDir reads every supported image directly inside dir, sorted by name.
// It is used for unlabeled batches of pre-cropped regions.
func LoadDir(dir string) ([]string, []image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorpus, err)
	}
	var paths []string
	var images []image.Image
	for _, entry := range entries {
		if entry.IsDir() || !pdfimage.IsSupportedFormat(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		img, err := pdfimage.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCorpus, err)
		}
		paths = append(paths, path)
		images = append(images, img)
	}
	return paths, images, nil
}
