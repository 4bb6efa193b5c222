package contour

import (
	"image"
	"image/color"
	"testing"

	"pdf-markup/internal/features"
)

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestMeasureCountsBlobs(t *testing.T) {
	img := page(40, 20)
	fill(img, image.Rect(2, 2, 12, 12), color.RGBA{255, 220, 0, 255})
	fill(img, image.Rect(20, 5, 24, 9), color.RGBA{0, 0, 0, 255})

	m := Measure(img)
	if m.Contours != 2 {
		t.Errorf("Contours = %d, want 2", m.Contours)
	}
	if m.LargestAreaRatio <= 0 || m.LargestAreaRatio > 100.0/800.0 {
		t.Errorf("LargestAreaRatio = %v, want in (0, 0.125]", m.LargestAreaRatio)
	}
	if m.EdgeDensity <= 0 {
		t.Errorf("EdgeDensity = %v, want > 0", m.EdgeDensity)
	}
}

func TestMeasureBlank(t *testing.T) {
	m := Measure(page(10, 10))
	if m != (Measurements{}) {
		t.Errorf("Measure(blank) = %+v, want zero", m)
	}
	if m := Measure(image.NewRGBA(image.Rect(0, 0, 0, 0))); m != (Measurements{}) {
		t.Errorf("Measure(empty) = %+v, want zero", m)
	}
}

func TestExtractorSchema(t *testing.T) {
	e, err := ByName(Name)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	base := features.NewDefault().FeatureNames()
	names := e.FeatureNames()
	if len(names) != len(base)+3 {
		t.Fatalf("got %d names, want %d", len(names), len(base)+3)
	}
	if names[len(names)-3] != "contour_count" {
		t.Errorf("first contour column = %q", names[len(names)-3])
	}

	img := page(16, 8)
	fill(img, image.Rect(0, 6, 16, 7), color.RGBA{0, 0, 0, 255})
	v, err := features.Extract(e, img)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	again, _ := features.Extract(e, img)
	for i := range v {
		if v[i] != again[i] {
			t.Errorf("column %s not deterministic: %q vs %q", names[i], v[i], again[i])
		}
	}
}

func TestByNameFallsBack(t *testing.T) {
	e, err := ByName("shape")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if _, ok := e.(features.Shape); !ok {
		t.Errorf("ByName(shape) = %T", e)
	}
	if _, err := ByName("nope"); err == nil {
		t.Error("ByName(nope) succeeded")
	}
}
