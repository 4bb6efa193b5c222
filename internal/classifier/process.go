package classifier

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"pdf-markup/internal/dataset"
	"pdf-markup/internal/features"
)

// Placeholders substituted in command arguments.
const (
	PlaceholderTraining   = "{training}"
	PlaceholderPrediction = "{prediction}"
	PlaceholderOutput     = "{output}"
)

// waitDelay bounds how long a canceled classifier may keep its output pipes
// open, e.g. through a child process that escaped the kill.
const waitDelay = 2 * time.Second

// Default file names inside a batch directory.
const (
	DefaultPredictionName = "predictionData.csv"
	DefaultOutputName     = "pythonOut.txt"
)

// Config controls how the external classifier is run.
type Config struct {
	// Command is the program and arguments to run. Arguments may contain
	// the {training}, {prediction} and {output} placeholders.
	Command []string
	// Dir is the working directory of the process.
	Dir string
	// Env is appended to the current environment.
	Env []string

	TrainingFile   string
	WorkDir        string // parent of the per-call batch directories
	PredictionName string
	OutputName     string

	Timeout     time.Duration // zero means no limit
	KeepBatches bool          // keep batch directories for debugging
}

// Process runs the classifier as a separate program. Each call writes its
// prediction table and reads its labels in a fresh batch directory, so
// concurrent calls do not interfere.
type Process struct {
	cfg Config
}

// NewProcess creates a process gateway.
func NewProcess(cfg Config) (*Process, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, errors.New("classifier command not set")
	}
	if cfg.PredictionName == "" {
		cfg.PredictionName = DefaultPredictionName
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultOutputName
	}
	return &Process{cfg: cfg}, nil
}

// Classify writes rows to a prediction table, runs the classifier and
// returns the label tokens it wrote, one per line.
func (p *Process) Classify(ctx context.Context, schema features.Schema, rows []features.Vector) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(p.cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create work directory: %v", dataset.ErrWrite, err)
	}
	batch, err := os.MkdirTemp(p.cfg.WorkDir, "batch-")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create batch directory: %v", dataset.ErrWrite, err)
	}
	if p.cfg.KeepBatches {
		log.Printf("classifier: keeping batch %s", batch)
	} else {
		defer os.RemoveAll(batch)
	}

	predictionPath := filepath.Join(batch, p.cfg.PredictionName)
	outputPath := filepath.Join(batch, p.cfg.OutputName)

	datasetRows := make([]dataset.Row, len(rows))
	for i, v := range rows {
		datasetRows[i] = dataset.Row{Values: v}
	}
	if err := dataset.WriteFile(predictionPath, schema, false, datasetRows); err != nil {
		return nil, fmt.Errorf("failed to write prediction table: %w", err)
	}
	if err := os.WriteFile(outputPath, nil, 0644); err != nil {
		return nil, fmt.Errorf("%w: failed to create output file: %v", dataset.ErrWrite, err)
	}

	if err := p.run(ctx, predictionPath, outputPath); err != nil {
		return nil, err
	}

	labels, err := ReadLabels(outputPath)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(rows) {
		log.Printf("classifier: %d rows but %d labels", len(rows), len(labels))
	}
	return labels, nil
}

func (p *Process) run(ctx context.Context, predictionPath, outputPath string) error {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	args := expand(p.cfg.Command, map[string]string{
		PlaceholderTraining:   p.cfg.TrainingFile,
		PlaceholderPrediction: predictionPath,
		PlaceholderOutput:     outputPath,
	})

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = p.cfg.Dir
	cmd.Env = append(os.Environ(), p.cfg.Env...)
	var logs bytes.Buffer
	cmd.Stdout = &logs
	cmd.Stderr = &logs
	killGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrTimeout, p.cfg.Timeout)
		}
		return fmt.Errorf("%w: %s: %v%s", ErrProcess, args[0], err, tail(logs.String()))
	}
	log.Printf("classifier: %s finished in %v", filepath.Base(args[0]), elapsed.Round(time.Millisecond))
	return nil
}

// ReadLabels reads one label token per line from path. Tokens are returned
// verbatim apart from a trailing carriage return. Blank lines are kept as
// empty tokens so later lines stay aligned with their rows.
func ReadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	defer f.Close()

	var labels []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		labels = append(labels, strings.TrimSuffix(s.Text(), "\r"))
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return labels, nil
}

func expand(command []string, values map[string]string) []string {
	args := make([]string, len(command))
	for i, arg := range command {
		for placeholder, value := range values {
			arg = strings.ReplaceAll(arg, placeholder, value)
		}
		args[i] = arg
	}
	return args
}

// tail returns the last lines of process output for error messages.
func tail(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return "\n" + strings.Join(lines, "\n")
}
