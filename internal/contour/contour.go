// Package contour adds OpenCV shape measurements to a feature extractor.
package contour

import (
	"image"

	"gocv.io/x/gocv"

	"pdf-markup/internal/features"
)

// Name selects the contour extractor in ByName.
const Name = "contour"

var contourNames = features.Schema{"contour_count", "largest_contour_area_ratio", "edge_density"}

// Canny hysteresis thresholds.
const (
	cannyLow  = 50
	cannyHigh = 150
)

// Extractor wraps a base extractor and appends the number of external ink
// contours, the area of the largest one relative to the region, and the
// fraction of Canny edge pixels.
type Extractor struct {
	base  features.Extractor
	names features.Schema
}

// New wraps base.
func New(base features.Extractor) *Extractor {
	names := append(append(features.Schema{}, base.FeatureNames()...), contourNames...)
	return &Extractor{base: base, names: names}
}

// ByName returns the contour extractor for Name and defers every other name
// to features.ByName.
func ByName(name string) (features.Extractor, error) {
	if name == Name {
		return New(features.NewDefault()), nil
	}
	return features.ByName(name)
}

func (e *Extractor) FeatureNames() features.Schema {
	return e.names
}

func (e *Extractor) ExtractFeatures(img image.Image) features.Vector {
	v := append(features.Vector{}, e.base.ExtractFeatures(img)...)
	m := Measure(img)
	return append(v,
		features.Int(m.Contours),
		features.Float(m.LargestAreaRatio),
		features.Float(m.EdgeDensity),
	)
}

// Measurements holds the OpenCV-derived values for one region.
type Measurements struct {
	Contours         int
	LargestAreaRatio float64
	EdgeDensity      float64
}

// Measure computes contour and edge statistics for img. Any pixel that is
// not pure white counts as ink.
func Measure(img image.Image) Measurements {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return Measurements{}
	}
	total := float64(w * h)

	mat := ImageToMat(img)
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	ink := gocv.NewMat()
	defer ink.Close()
	gocv.Threshold(gray, &ink, 254, 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(ink, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var m Measurements
	m.Contours = contours.Size()
	largest := 0.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largest {
			largest = area
		}
	}
	m.LargestAreaRatio = largest / total

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, cannyLow, cannyHigh)
	m.EdgeDensity = float64(gocv.CountNonZero(edges)) / total

	return m
}

// ImageToMat converts a Go image to a BGR gocv.Mat.
func ImageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}
