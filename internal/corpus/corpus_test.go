package corpus

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"pdf-markup/internal/annotation"
	pdfimage "pdf-markup/internal/image"

	"github.com/google/go-cmp/cmp"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetRGBA(0, 0, color.RGBA{255, 255, 0, 255})
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := pdfimage.SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "highlight", "b.png"), 4, 2)
	writeImage(t, filepath.Join(root, "highlight", "a.png"), 3, 2)
	writeImage(t, filepath.Join(root, "text", "t.png"), 5, 5)
	if err := os.MkdirAll(filepath.Join(root, "underline", "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "underline", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got []string
	for _, s := range c.Samples {
		got = append(got, string(s.Label)+"/"+filepath.Base(s.Path))
	}
	want := []string{"text/t.png", "highlight/a.png", "highlight/b.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
	if c.Count(annotation.LabelHighlight) != 2 || c.Count(annotation.LabelUnderline) != 0 {
		t.Errorf("unexpected counts: highlight %d underline %d",
			c.Count(annotation.LabelHighlight), c.Count(annotation.LabelUnderline))
	}
	if b := c.Samples[0].Image.Bounds(); b.Dx() != 5 || b.Dy() != 5 {
		t.Errorf("decoded size %v, want 5x5", b)
	}
}

func TestLoadMissingClass(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "text", "t.png"), 2, 2)
	_, err := Load(root)
	if !errors.Is(err, ErrCorpus) {
		t.Errorf("Load error = %v, want ErrCorpus", err)
	}
}

func TestLoadCorruptImage(t *testing.T) {
	root := t.TempDir()
	for _, l := range ClassOrder {
		if err := os.MkdirAll(filepath.Join(root, string(l)), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "text", "bad.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); !errors.Is(err, ErrCorpus) {
		t.Errorf("Load error = %v, want ErrCorpus", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "2.png"), 2, 2)
	writeImage(t, filepath.Join(dir, "1.png"), 3, 3)

	paths, images, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || len(images) != 2 {
		t.Fatalf("got %d paths, %d images", len(paths), len(images))
	}
	if filepath.Base(paths[0]) != "1.png" || images[0].Bounds().Dx() != 3 {
		t.Errorf("LoadDir not sorted by name: %v", paths)
	}
}
