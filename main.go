// Command pdf-markup identifies hand-made annotations on a rendered PDF page.
//
// The page image is expected to contain only annotation pixels; candidate
// regions are given as a JSON list of bounding boxes in image coordinates:
//
//	[{"x": 120, "y": 340, "width": 200, "height": 18}, ...]
//
// The annotations found are printed as JSON in PDF coordinates.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"pdf-markup/internal/annotation"
	"pdf-markup/internal/classifier"
	"pdf-markup/internal/config"
	"pdf-markup/internal/contour"
	"pdf-markup/internal/corpus"
	"pdf-markup/internal/identify"
	pdfimage "pdf-markup/internal/image"
	"pdf-markup/internal/ocr"
	"pdf-markup/internal/version"
	"pdf-markup/pkg/geometry"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "JSON config file (defaults and environment otherwise)")
	imagePath := flag.String("image", "", "Page image containing only annotation pixels")
	boxesPath := flag.String("boxes", "", "JSON file with the candidate bounding boxes")
	regionsDir := flag.String("regions", "", "Classify every image in this directory instead of a page")
	pageIndex := flag.Int("page", 0, "Zero-based page index recorded on the annotations")
	extractor := flag.String("extractor", "", "Feature extractor: contour, default or shape (overrides config)")
	skipTraining := flag.Bool("skip-training", false, "Reuse the existing training file instead of rebuilding it")
	useOCR := flag.Bool("ocr", false, "Recognize the content of text annotations")
	dumpDir := flag.String("dump", "", "Write the cropped regions to this directory")
	outPath := flag.String("o", "", "Output file (default stdout)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pdf-markup"))
		return
	}
	if (*imagePath == "" || *boxesPath == "") && *regionsDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -image <page> -boxes <boxes.json> [-page N] [-ocr] [-dump dir]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -regions <dir>\n\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *extractor != "" {
		cfg.Extractor = *extractor
	}

	ext, err := contour.ByName(cfg.Extractor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gateway, err := classifier.NewProcess(cfg.Classifier())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var id *identify.Identifier
	if *skipTraining {
		id, err = identify.Attach(cfg, ext, gateway)
	} else {
		id, err = identify.New(cfg, ext, gateway)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var anns []annotation.Annotation
	if *regionsDir != "" {
		anns, err = identifyRegions(ctx, id, *regionsDir, *pageIndex)
	} else {
		anns, err = identifyPage(ctx, id, *imagePath, *boxesPath, *pageIndex, *dumpDir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	records, err := toRecords(anns, *useOCR, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	counts := annotation.Count(anns)
	log.Printf("found %d annotations: %d highlight, %d text, %d underline",
		len(anns), counts[annotation.KindHighlight], counts[annotation.KindText], counts[annotation.KindUnderline])
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg := config.Load()
	return cfg, cfg.Validate()
}

func identifyPage(ctx context.Context, id *identify.Identifier, imagePath, boxesPath string, page int, dumpDir string) ([]annotation.Annotation, error) {
	img, err := pdfimage.Load(imagePath)
	if err != nil {
		return nil, err
	}
	boxes, err := readBoxes(boxesPath)
	if err != nil {
		return nil, err
	}
	log.Printf("page %d: %dx%d, %d candidate regions", page, img.Bounds().Dx(), img.Bounds().Dy(), len(boxes))

	if dumpDir != "" {
		if err := id.DumpRegions(dumpDir, img, boxes, page); err != nil {
			return nil, err
		}
	}
	return id.Identify(ctx, img, boxes, page)
}

func identifyRegions(ctx context.Context, id *identify.Identifier, dir string, page int) ([]annotation.Annotation, error) {
	paths, images, err := corpus.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	labels, anns, err := id.ClassifyImages(ctx, images, page)
	if err != nil {
		return nil, err
	}
	for i, label := range labels {
		log.Printf("%s: %s", paths[i], label)
	}
	return anns, nil
}

func readBoxes(path string) ([]geometry.BoundingBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boxes: %w", err)
	}
	var boxes []geometry.BoundingBox
	if err := json.Unmarshal(data, &boxes); err != nil {
		return nil, fmt.Errorf("failed to parse boxes %s: %w", path, err)
	}
	return boxes, nil
}

func toRecords(anns []annotation.Annotation, useOCR bool, cfg config.Config) ([]annotation.Record, error) {
	var engine *ocr.Engine
	if useOCR {
		var err error
		engine, err = ocr.NewEngine(cfg.OCRLanguage, cfg.TessdataPrefix)
		if err != nil {
			return nil, err
		}
		defer engine.Close()
	}

	records := make([]annotation.Record, 0, len(anns))
	for _, a := range anns {
		rec := annotation.ToRecord(a)
		if t, ok := a.(annotation.Text); ok && engine != nil {
			content, err := engine.RecognizeText(t)
			if err != nil {
				log.Printf("OCR failed for text at (%d,%d): %v", t.X, t.Y, err)
			} else {
				rec.Content = content
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
