package colorutil

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestLuminosity(t *testing.T) {
	cases := []struct {
		c    color.Color
		want int
	}{
		{color.RGBA{0, 0, 0, 255}, 0},
		{color.RGBA{255, 255, 255, 255}, MaxLuminosity},
		{color.RGBA{10, 20, 30, 255}, 60},
		{color.Gray{Y: 100}, 300},
	}
	for _, tc := range cases {
		if got := Luminosity(tc.c); got != tc.want {
			t.Errorf("Luminosity(%v) = %d, want %d", tc.c, got, tc.want)
		}
	}
}

func TestSpreadIsSampleStdDev(t *testing.T) {
	// channels 0, 0, 255: mean 85, sample variance (85²+85²+170²)/2
	want := math.Sqrt((85.0*85 + 85.0*85 + 170.0*170) / 2)
	got := Spread(color.RGBA{0, 0, 255, 255})
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Spread = %v, want %v", got, want)
	}
}

func TestIsColored(t *testing.T) {
	cases := []struct {
		name string
		c    color.Color
		want bool
	}{
		{"gray", color.RGBA{128, 128, 128, 255}, false},
		{"white", color.RGBA{255, 255, 255, 255}, false},
		{"yellow highlight", color.RGBA{255, 240, 60, 255}, true},
		{"near gray", color.RGBA{128, 128, 129, 255}, true},
	}
	for _, tc := range cases {
		if got := IsColored(tc.c, DefaultSpreadThreshold); got != tc.want {
			t.Errorf("%s: IsColored = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestColoredRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255}) // background, ignored
	img.Set(1, 0, color.RGBA{255, 255, 0, 255})
	img.Set(2, 0, color.RGBA{50, 50, 50, 255})
	img.Set(3, 0, color.RGBA{0, 0, 200, 255})

	got := ColoredRatio(img, DefaultSpreadThreshold)
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("ColoredRatio = %v, want 2/3", got)
	}

	blank := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range blank.Pix {
		blank.Pix[i] = 255
	}
	if got := ColoredRatio(blank, DefaultSpreadThreshold); got != 0 {
		t.Errorf("ColoredRatio(blank) = %v, want 0", got)
	}
}

func TestHueName(t *testing.T) {
	cases := []struct {
		rgb  [3]float64
		want string
	}{
		{[3]float64{255, 255, 0}, "yellow"},
		{[3]float64{255, 0, 0}, "red"},
		{[3]float64{0, 200, 0}, "green"},
		{[3]float64{0, 0, 255}, "blue"},
		{[3]float64{120, 120, 120}, "gray"},
	}
	for _, tc := range cases {
		h, s, _ := RGBToHSV(tc.rgb[0], tc.rgb[1], tc.rgb[2])
		if got := HueName(h, s); got != tc.want {
			t.Errorf("HueName(%v) = %q, want %q", tc.rgb, got, tc.want)
		}
	}
}
