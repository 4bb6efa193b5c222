package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestBinarizeTwoColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 17, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 17; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 15), uint8(y * 28), uint8((x + y) * 9), 255})
		}
	}

	bw := Binarize(img)
	if bw.Bounds().Dx() != 17 || bw.Bounds().Dy() != 9 {
		t.Fatalf("size %v, want 17x9", bw.Bounds())
	}
	for i, v := range bw.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d = %d, want 0 or 255", i, v)
		}
	}
}

func TestBinarizeBlackStaysBlack(t *testing.T) {
	bw := Binarize(solid(6, 4, color.RGBA{0, 0, 0, 255}))
	if d := InkDensity(bw); d != 1 {
		t.Errorf("InkDensity = %v, want 1", d)
	}
}

func TestBinarizeDiffusesToRight(t *testing.T) {
	// A lone white pixel sits exactly at the threshold and turns black. Its
	// luminosity pushes the next pixel over the threshold.
	bw := Binarize(solid(2, 1, color.RGBA{255, 255, 255, 255}))
	want := []uint8{0, 255}
	if diff := cmp.Diff(want, bw.Pix); diff != "" {
		t.Errorf("Binarize mismatch (-want +got):\n%s", diff)
	}
}

func TestBinarizeResidueIsCarriedLuminosity(t *testing.T) {
	// Pure black carries nothing forward, so the white pixel after it stays
	// at the threshold and turns black as well.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})

	bw := Binarize(img)
	if diff := cmp.Diff([]uint8{0, 0}, bw.Pix); diff != "" {
		t.Errorf("Binarize mismatch (-want +got):\n%s", diff)
	}
}

func TestBinarizeDeterministic(t *testing.T) {
	img := solid(12, 12, color.RGBA{200, 180, 90, 255})
	a := Binarize(img)
	b := Binarize(img)
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("Binarize not deterministic:\n%s", diff)
	}
}

func TestDiffuseConservesResidue(t *testing.T) {
	for _, residue := range []int{1, 15, 16, 17, 400, 765, 1107} {
		const w, h = 3, 3
		lum := make([]int, w*h)
		diffuse(lum, w, h, 1, 1, residue)

		sum := 0
		for _, v := range lum {
			sum += v
		}
		if sum != residue {
			t.Errorf("residue %d: diffused %d", residue, sum)
		}
		q := residue / 16
		want := []int{
			0, 0, 0,
			0, 0, q*7 + residue%16,
			q * 3, q * 5, q,
		}
		if diff := cmp.Diff(want, lum); diff != "" {
			t.Errorf("residue %d (-want +got):\n%s", residue, diff)
		}
	}
}

func TestDiffuseSkipsOutOfBounds(t *testing.T) {
	const w, h = 2, 2
	lum := make([]int, w*h)
	// bottom-right corner: no neighbour is in bounds
	diffuse(lum, w, h, 1, 1, 500)
	if diff := cmp.Diff(make([]int, w*h), lum); diff != "" {
		t.Errorf("corner diffusion leaked:\n%s", diff)
	}

	// last column, first row: remainder moves below
	lum = make([]int, w*h)
	diffuse(lum, w, h, 1, 0, 35) // q=2, rem=3
	want := []int{0, 0, 2 * 3, 2*5 + 3}
	if diff := cmp.Diff(want, lum); diff != "" {
		t.Errorf("edge diffusion (-want +got):\n%s", diff)
	}
}
