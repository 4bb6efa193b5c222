// Package identify ties the annotation pipeline together. An Identifier
// crops candidate regions from a page, describes them with a feature
// extractor, sends the descriptions to the classifier and rebuilds typed
// annotations from the answer.
package identify

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pdf-markup/internal/annotation"
	"pdf-markup/internal/classifier"
	"pdf-markup/internal/config"
	"pdf-markup/internal/corpus"
	"pdf-markup/internal/dataset"
	"pdf-markup/internal/features"
	pdfimage "pdf-markup/internal/image"
	"pdf-markup/pkg/geometry"
)

// Identifier runs the identification pipeline for one extractor and
// classifier pairing. It is safe for concurrent use when its gateway is.
type Identifier struct {
	extractor features.Extractor
	gateway   classifier.Gateway
	schema    features.Schema
	workers   int
	training  string
}

// region carries everything known about one candidate region so that its
// box, image, features and label can never drift apart.
type region struct {
	index  int
	box    geometry.BoundingBox
	image  image.Image
	vector features.Vector
	label  string
}

// New creates an Identifier and rebuilds the training file from the
// labeled corpus named in cfg.
func New(cfg config.Config, extractor features.Extractor, gateway classifier.Gateway) (*Identifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	n, err := BuildTrainingFile(c, extractor, cfg.TrainingPath(), cfg.Workers)
	if err != nil {
		return nil, err
	}
	log.Printf("identify: wrote %d training rows to %s", n, cfg.TrainingPath())
	return Attach(cfg, extractor, gateway)
}

// Attach creates an Identifier that reuses an existing training file. The
// file's header must match the extractor's schema.
func Attach(cfg config.Config, extractor features.Extractor, gateway classifier.Gateway) (*Identifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	schema := extractor.FeatureNames()
	if err := dataset.CheckHeader(cfg.TrainingPath(), schema, true); err != nil {
		return nil, fmt.Errorf("training file unusable: %w", err)
	}
	return &Identifier{
		extractor: extractor,
		gateway:   gateway,
		schema:    schema,
		workers:   cfg.Workers,
		training:  cfg.TrainingPath(),
	}, nil
}

// Schema returns the feature columns used for training and prediction.
func (id *Identifier) Schema() features.Schema {
	return id.schema
}

// TrainingFile returns the path of the training dataset in use.
func (id *Identifier) TrainingFile() string {
	return id.training
}

// BuildTrainingFile describes every corpus sample with e and writes the
// labeled dataset to path, replacing any previous file. It returns the
// number of rows written.
func BuildTrainingFile(c *corpus.Corpus, e features.Extractor, path string, workers int) (int, error) {
	images := make([]image.Image, len(c.Samples))
	for i, s := range c.Samples {
		images[i] = s.Image
	}
	vectors, err := extractAll(context.Background(), e, images, workers)
	if err != nil {
		return 0, fmt.Errorf("failed to extract training features: %w", err)
	}

	rows := make([]dataset.Row, len(vectors))
	for i, v := range vectors {
		rows[i] = dataset.Row{Values: v, Label: string(c.Samples[i].Label)}
	}
	if err := dataset.WriteFile(path, e.FeatureNames(), true, rows); err != nil {
		return 0, fmt.Errorf("failed to write training file: %w", err)
	}
	return len(rows), nil
}

// Identify finds the annotations inside boxes on page. Boxes are in page
// image coordinates; the returned annotations are in PDF space and carry
// pageIndex. A failed classifier round trip is returned as an error.
func (id *Identifier) Identify(ctx context.Context, page image.Image, boxes []geometry.BoundingBox, pageIndex int) ([]annotation.Annotation, error) {
	images, err := pdfimage.Crop(page, boxes)
	if err != nil {
		return nil, fmt.Errorf("failed to crop regions: %w", err)
	}
	regions := make([]region, len(boxes))
	for i := range boxes {
		regions[i] = region{index: i, box: boxes[i], image: images[i]}
	}
	return id.run(ctx, regions, pageIndex)
}

// IdentifyImages classifies pre-cropped region images. Each image is
// treated as a region anchored at its own bottom-left corner.
func (id *Identifier) IdentifyImages(ctx context.Context, images []image.Image, pageIndex int) ([]annotation.Annotation, error) {
	_, anns, err := id.ClassifyImages(ctx, images, pageIndex)
	return anns, err
}

// ClassifyImages is IdentifyImages that also returns the raw classifier
// label for each image, in order, from the same classifier run. The labels
// may be shorter than images if the classifier answered fewer rows.
func (id *Identifier) ClassifyImages(ctx context.Context, images []image.Image, pageIndex int) ([]string, []annotation.Annotation, error) {
	regions := wholeImageRegions(images)
	if len(regions) == 0 {
		return nil, nil, nil
	}
	n, err := id.classify(ctx, regions)
	if err != nil {
		return nil, nil, err
	}
	return labelsOf(regions, n), reconstruct(regions, n, pageIndex), nil
}

// DumpRegions writes the region cropped for each box to dir as a PNG file,
// for inspecting what the classifier is shown.
func (id *Identifier) DumpRegions(dir string, page image.Image, boxes []geometry.BoundingBox, pageIndex int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	images, err := pdfimage.Crop(page, boxes)
	if err != nil {
		return fmt.Errorf("failed to crop regions: %w", err)
	}
	for i, img := range images {
		name := fmt.Sprintf("page%03d_region%03d.png", pageIndex, i)
		if err := pdfimage.SavePNG(filepath.Join(dir, name), img); err != nil {
			return err
		}
	}
	return nil
}

func (id *Identifier) run(ctx context.Context, regions []region, pageIndex int) ([]annotation.Annotation, error) {
	if len(regions) == 0 {
		return nil, nil
	}
	n, err := id.classify(ctx, regions)
	if err != nil {
		return nil, err
	}
	return reconstruct(regions, n, pageIndex), nil
}

func labelsOf(regions []region, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = regions[i].label
	}
	return labels
}

// reconstruct rebuilds annotations from regions whose first n entries
// received a label.
func reconstruct(regions []region, n, pageIndex int) []annotation.Annotation {
	boxes := make([]geometry.BoundingBox, len(regions))
	images := make([]image.Image, len(regions))
	for i, r := range regions {
		boxes[i] = r.box
		images[i] = r.image
	}
	return annotation.Reconstruct(labelsOf(regions, n), boxes, images, pageIndex)
}

// classify fills in the vector and label of each region and returns how
// many regions received a label.
func (id *Identifier) classify(ctx context.Context, regions []region) (int, error) {
	images := make([]image.Image, len(regions))
	for i, r := range regions {
		images[i] = r.image
	}
	vectors, err := extractAll(ctx, id.extractor, images, id.workers)
	if err != nil {
		return 0, fmt.Errorf("failed to extract features: %w", err)
	}
	for i := range regions {
		regions[i].vector = vectors[i]
	}

	labels, err := id.gateway.Classify(ctx, id.schema, vectors)
	if err != nil {
		return 0, fmt.Errorf("classification failed: %w", err)
	}
	n := min(len(labels), len(regions))
	for i := 0; i < n; i++ {
		regions[i].label = labels[i]
	}
	if n < len(regions) {
		log.Printf("identify: regions %d-%d received no label", regions[n].index, regions[len(regions)-1].index)
	}
	return n, nil
}

// extractAll describes each image with e on up to workers goroutines.
// Results keep the order of images.
func extractAll(ctx context.Context, e features.Extractor, images []image.Image, workers int) ([]features.Vector, error) {
	vectors := make([]features.Vector, len(images))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, img := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := features.Extract(e, img)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func wholeImageRegions(images []image.Image) []region {
	regions := make([]region, len(images))
	for i, img := range images {
		size := img.Bounds().Size()
		regions[i] = region{
			index: i,
			box:   geometry.NewBoundingBox(0, size.Y, size.X, size.Y),
			image: img,
		}
	}
	return regions
}
