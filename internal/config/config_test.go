package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PDFMARKUP_BASE_DIR", "/srv/markup")
	t.Setenv("PDFMARKUP_CLASSIFIER_COMMAND", "python3 tree.py {prediction} {output}")
	t.Setenv("PDFMARKUP_CLASSIFIER_TIMEOUT", "15s")
	t.Setenv("PDFMARKUP_WORKERS", "3")
	t.Setenv("PDFMARKUP_KEEP_BATCHES", "true")

	c := Load()
	if c.BaseDir != "/srv/markup" {
		t.Errorf("BaseDir = %q", c.BaseDir)
	}
	wantCmd := []string{"python3", "tree.py", "{prediction}", "{output}"}
	if diff := cmp.Diff(wantCmd, c.ClassifierCommand); diff != "" {
		t.Errorf("ClassifierCommand mismatch (-want +got):\n%s", diff)
	}
	if time.Duration(c.ClassifierTimeout) != 15*time.Second {
		t.Errorf("ClassifierTimeout = %v", time.Duration(c.ClassifierTimeout))
	}
	if c.Workers != 3 || !c.KeepBatches {
		t.Errorf("Workers = %d, KeepBatches = %v", c.Workers, c.KeepBatches)
	}
}

func TestLoadIgnoresBadEnv(t *testing.T) {
	t.Setenv("PDFMARKUP_WORKERS", "-2")
	t.Setenv("PDFMARKUP_CLASSIFIER_TIMEOUT", "soon")

	c := Load()
	d := Default()
	if c.Workers != d.Workers || c.ClassifierTimeout != d.ClassifierTimeout {
		t.Errorf("bad env values were applied: workers %d timeout %v", c.Workers, c.ClassifierTimeout)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markup.json")
	data := `{
  "base_dir": "/data",
  "extractor": "shape",
  "classifier_timeout": "30s",
  "workers": 2
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Extractor != "shape" || c.Workers != 2 {
		t.Errorf("Extractor = %q, Workers = %d", c.Extractor, c.Workers)
	}
	if time.Duration(c.ClassifierTimeout) != 30*time.Second {
		t.Errorf("ClassifierTimeout = %v", time.Duration(c.ClassifierTimeout))
	}
	// unset fields keep their defaults
	if c.TrainingFile != "trainingData.csv" {
		t.Errorf("TrainingFile = %q", c.TrainingFile)
	}
	if got := c.TrainingPath(); got != filepath.Join("/data", "trainingData.csv") {
		t.Errorf("TrainingPath = %q", got)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	t.Setenv("TESSDATA_PREFIX", "")
	path := filepath.Join(t.TempDir(), "markup.json")
	want := Default()
	want.Workers = 4
	want.ClassifierTimeout = Duration(90 * time.Second)
	if err := want.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	cases := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "nope.json"), "failed to read config"},
		{"syntax", write("bad.json", "{"), "failed to parse config"},
		{"duration", write("dur.json", `{"classifier_timeout": 5}`), "failed to parse config"},
		{"workers", write("workers.json", `{"workers": 0}`), "workers must be positive"},
		{"batch name", write("name.json", `{"output_file": "../out.txt"}`), "plain file name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(tc.path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("LoadFile error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestClassifierSettings(t *testing.T) {
	c := Default()
	c.BaseDir = "/data"
	cc := c.Classifier()
	if cc.TrainingFile != "/data/trainingData.csv" || cc.WorkDir != "/data/batches" {
		t.Errorf("paths = %q, %q", cc.TrainingFile, cc.WorkDir)
	}
	if cc.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v", cc.Timeout)
	}
}

func TestPathKeepsAbsolute(t *testing.T) {
	c := Config{BaseDir: "/data"}
	if got := c.Path("/elsewhere/x.csv"); got != "/elsewhere/x.csv" {
		t.Errorf("Path = %q", got)
	}
}
