// Command featuredump prints the feature vectors of region images as a
// prediction table, for checking what the classifier will be given.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"pdf-markup/internal/contour"
	"pdf-markup/internal/corpus"
	"pdf-markup/internal/dataset"
	"pdf-markup/internal/features"
	pdfimage "pdf-markup/internal/image"
)

func main() {
	dir := flag.String("dir", "", "Directory of region images")
	imagePath := flag.String("image", "", "Single region image")
	extractor := flag.String("extractor", "default", "Feature extractor: contour, default or shape")
	withNames := flag.Bool("names", false, "Prefix each row with the image file name")
	flag.Parse()

	if *dir == "" && *imagePath == "" {
		fmt.Println("Usage: featuredump (-dir <regions> | -image <region>) [-extractor default] [-names]")
		os.Exit(1)
	}

	ext, err := contour.ByName(*extractor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var paths []string
	var images []image.Image
	if *imagePath != "" {
		img, err := pdfimage.Load(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		paths, images = []string{*imagePath}, []image.Image{img}
	} else {
		paths, images, err = corpus.LoadDir(*dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	schema := ext.FeatureNames()
	if *withNames {
		schema = append(features.Schema{"file"}, schema...)
	}
	w := dataset.NewWriter(os.Stdout, schema, false)
	if err := w.WriteHeader(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for i, img := range images {
		v, err := features.Extract(ext, img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", paths[i], err)
			os.Exit(1)
		}
		if *withNames {
			v = append(features.Vector{filepath.Base(paths[i])}, v...)
		}
		if err := w.WriteRow(v, ""); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", paths[i], err)
			os.Exit(1)
		}
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d regions, %d features\n", w.Rows(), len(ext.FeatureNames()))
}
