// Package config holds the settings shared by the identification pipeline
// and its command-line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"pdf-markup/internal/classifier"
)

// Config is the explicit configuration passed to the pipeline. Relative
// paths are resolved against BaseDir.
type Config struct {
	BaseDir      string `json:"base_dir"`
	CorpusDir    string `json:"corpus_dir"`
	TrainingFile string `json:"training_file"`
	WorkDir      string `json:"work_dir"`

	PredictionFile string `json:"prediction_file"`
	OutputFile     string `json:"output_file"`

	// ClassifierCommand may use the {training}, {prediction} and {output}
	// placeholders.
	ClassifierCommand []string `json:"classifier_command"`
	ClassifierDir     string   `json:"classifier_dir,omitempty"`
	ClassifierTimeout Duration `json:"classifier_timeout"`
	KeepBatches       bool     `json:"keep_batches,omitempty"`

	Extractor string `json:"extractor"`
	Workers   int    `json:"workers"`

	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
	OCRLanguage    string `json:"ocr_language,omitempty"`
}

// Duration is a time.Duration that reads and writes as a string such as "2m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseDir:        "Data",
		CorpusDir:      "AnnotationTraining",
		TrainingFile:   "trainingData.csv",
		WorkDir:        "batches",
		PredictionFile: classifier.DefaultPredictionName,
		OutputFile:     classifier.DefaultOutputName,
		ClassifierCommand: []string{
			"python3", "decision_tree.py",
			classifier.PlaceholderTraining,
			classifier.PlaceholderPrediction,
			classifier.PlaceholderOutput,
		},
		ClassifierTimeout: Duration(2 * time.Minute),
		Extractor:         "default",
		Workers:           runtime.NumCPU(),
		OCRLanguage:       "eng",
	}
}

// Load returns the defaults with environment overrides applied.
func Load() Config {
	c := Default()
	c.applyEnv()
	return c
}

// LoadFile reads a JSON configuration file on top of the defaults, applies
// environment overrides and validates the result.
func LoadFile(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// SaveFile writes the configuration as indented JSON.
func (c Config) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func (c *Config) applyEnv() {
	c.BaseDir = envStr("PDFMARKUP_BASE_DIR", c.BaseDir)
	c.CorpusDir = envStr("PDFMARKUP_CORPUS_DIR", c.CorpusDir)
	c.TrainingFile = envStr("PDFMARKUP_TRAINING_FILE", c.TrainingFile)
	c.WorkDir = envStr("PDFMARKUP_WORK_DIR", c.WorkDir)
	if cmd := envStr("PDFMARKUP_CLASSIFIER_COMMAND", ""); cmd != "" {
		c.ClassifierCommand = strings.Fields(cmd)
	}
	c.ClassifierDir = envStr("PDFMARKUP_CLASSIFIER_DIR", c.ClassifierDir)
	c.ClassifierTimeout = Duration(envDur("PDFMARKUP_CLASSIFIER_TIMEOUT", time.Duration(c.ClassifierTimeout)))
	c.KeepBatches = envBool("PDFMARKUP_KEEP_BATCHES", c.KeepBatches)
	c.Extractor = envStr("PDFMARKUP_EXTRACTOR", c.Extractor)
	c.Workers = envInt("PDFMARKUP_WORKERS", c.Workers)
	c.TessdataPrefix = envStr("TESSDATA_PREFIX", c.TessdataPrefix)
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.CorpusDir) == "":
		return fmt.Errorf("corpus_dir is required")
	case strings.TrimSpace(c.TrainingFile) == "":
		return fmt.Errorf("training_file is required")
	case strings.TrimSpace(c.WorkDir) == "":
		return fmt.Errorf("work_dir is required")
	case len(c.ClassifierCommand) == 0 || c.ClassifierCommand[0] == "":
		return fmt.Errorf("classifier_command is required")
	case c.ClassifierTimeout <= 0:
		return fmt.Errorf("classifier_timeout must be positive")
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive")
	case c.Extractor == "":
		return fmt.Errorf("extractor is required")
	}
	for _, name := range []string{c.PredictionFile, c.OutputFile} {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("batch file name %q must be a plain file name", name)
		}
	}
	return nil
}

// Path resolves p against BaseDir unless it is absolute.
func (c Config) Path(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func (c Config) CorpusPath() string   { return c.Path(c.CorpusDir) }
func (c Config) TrainingPath() string { return c.Path(c.TrainingFile) }
func (c Config) WorkPath() string     { return c.Path(c.WorkDir) }

// Classifier returns the settings for a classifier.Process.
func (c Config) Classifier() classifier.Config {
	return classifier.Config{
		Command:        c.ClassifierCommand,
		Dir:            c.ClassifierDir,
		TrainingFile:   c.TrainingPath(),
		WorkDir:        c.WorkPath(),
		PredictionName: c.PredictionFile,
		OutputName:     c.OutputFile,
		Timeout:        time.Duration(c.ClassifierTimeout),
		KeepBatches:    c.KeepBatches,
	}
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
