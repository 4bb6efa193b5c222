// Package colorutil provides shared color utilities for annotation analysis.
package colorutil

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Pure black and white, the only two colors a binarized region may contain.
var (
	Black = color.Gray{Y: 0}
	White = color.Gray{Y: 255}
)

// MaxLuminosity is the luminosity of a pure white pixel (3 * 255).
const MaxLuminosity = 3 * 255

// DefaultSpreadThreshold is the channel standard deviation above which a
// pixel counts as colored rather than gray.
const DefaultSpreadThreshold = 0.1

// RGB8 returns the 8-bit red, green and blue channels of c.
func RGB8(c color.Color) (r, g, b uint8) {
	r16, g16, b16, _ := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}

// Luminosity returns the sum of the 8-bit channels of c (0-765).
func Luminosity(c color.Color) int {
	r, g, b := RGB8(c)
	return int(r) + int(g) + int(b)
}

// Spread returns the sample standard deviation of the R, G and B channels.
// Gray pixels have a spread of zero; saturated hues have a large spread.
func Spread(c color.Color) float64 {
	r, g, b := RGB8(c)
	return stat.StdDev([]float64{float64(r), float64(g), float64(b)}, nil)
}

// IsColored reports whether the channel spread of c exceeds threshold.
func IsColored(c color.Color, threshold float64) bool {
	return Spread(c) > threshold
}

// ColoredRatio returns the fraction of non-white pixels in img that are
// colored according to IsColored. Returns 0 for an image with no ink.
func ColoredRatio(img image.Image, threshold float64) float64 {
	bounds := img.Bounds()
	var ink, colored int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			if Luminosity(c) >= MaxLuminosity {
				continue
			}
			ink++
			if IsColored(c, threshold) {
				colored++
			}
		}
	}
	if ink == 0 {
		return 0
	}
	return float64(colored) / float64(ink)
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h / 2, s, v
}

// HueName maps an OpenCV-scale hue (0-180) to a coarse color family.
// Pixels with saturation below 40 are reported as "gray".
func HueName(h, s float64) string {
	if s < 40 {
		return "gray"
	}
	switch {
	case h < 10 || h >= 160:
		return "red"
	case h < 22:
		return "orange"
	case h < 38:
		return "yellow"
	case h < 85:
		return "green"
	case h < 130:
		return "blue"
	default:
		return "purple"
	}
}
