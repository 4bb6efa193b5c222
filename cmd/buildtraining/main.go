// Command buildtraining rebuilds the classifier training file from the
// labeled reference corpus.
//
// Usage: buildtraining [-config file] [-corpus dir] [-o trainingData.csv] [-extractor name]
package main

import (
	"flag"
	"fmt"
	"os"

	"pdf-markup/internal/config"
	"pdf-markup/internal/contour"
	"pdf-markup/internal/corpus"
	"pdf-markup/internal/identify"
	"pdf-markup/internal/version"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	corpusDir := flag.String("corpus", "", "Corpus root with text/, underline/ and highlight/ (overrides config)")
	outputPath := flag.String("o", "", "Training file to write (overrides config)")
	extractor := flag.String("extractor", "", "Feature extractor: contour, default or shape (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("buildtraining"))
		return
	}

	cfg := config.Load()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *corpusDir != "" {
		cfg.CorpusDir = *corpusDir
	}
	if *outputPath != "" {
		cfg.TrainingFile = *outputPath
	}
	if *extractor != "" {
		cfg.Extractor = *extractor
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ext, err := contour.ByName(cfg.Extractor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loading corpus: %s\n", cfg.CorpusPath())
	c, err := corpus.Load(cfg.CorpusPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}
	for _, label := range corpus.ClassOrder {
		fmt.Printf("  %-10s %d samples\n", label, c.Count(label))
	}
	if len(c.Samples) == 0 {
		fmt.Println("Corpus is empty, nothing to train on.")
		os.Exit(1)
	}

	n, err := identify.BuildTrainingFile(c, ext, cfg.TrainingPath(), cfg.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nWrote %d training rows (%d features, extractor %s) to %s\n",
		n, len(ext.FeatureNames()), cfg.Extractor, cfg.TrainingPath())
}
