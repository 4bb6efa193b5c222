package image

import (
	"image"

	"pdf-markup/pkg/colorutil"
)

// Binarize converts img to a black and white image using error diffusion.
//
// Each pixel's carried luminosity (R+G+B plus what earlier pixels diffused
// onto it) is compared against pure white (765). Pixels at or below it become
// black, pixels above it become white. The residue is the carried luminosity
// minus the luminosity of the painted color: all of it for black, the excess
// over 765 for white. A positive residue is spread onto unvisited
// neighbours, so pixels must be visited in strict raster order.
func Binarize(img image.Image) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	lum := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lum[y*w+x] = colorutil.Luminosity(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}

	const threshold = colorutil.MaxLuminosity
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			residue := lum[y*w+x]
			if residue <= threshold {
				out.Pix[y*out.Stride+x] = colorutil.Black.Y
			} else {
				out.Pix[y*out.Stride+x] = colorutil.White.Y
				residue -= threshold
			}
			if residue > 0 {
				diffuse(lum, w, h, x, y, residue)
			}
		}
	}
	return out
}

// diffuse spreads residue from (x, y) onto its right and lower neighbours in
// sixteenths (7 right, 1 down-right, 5 down, 3 down-left). The remainder of
// the division goes to the right neighbour, or below on the last column.
// Targets outside the image are skipped.
func diffuse(lum []int, w, h, x, y, residue int) {
	i := y*w + x
	q, rem := residue/16, residue%16

	if x+1 < w {
		lum[i+1] += rem
	} else if y+1 < h {
		lum[i+w] += rem
	}

	if x+1 < w {
		lum[i+1] += q * 7
	}
	if x+1 < w && y+1 < h {
		lum[i+1+w] += q
	}
	if y+1 < h {
		lum[i+w] += q * 5
	}
	if x > 0 && y+1 < h {
		lum[i-1+w] += q * 3
	}
}

// InkDensity returns the fraction of black pixels in a binarized image.
func InkDensity(bw *image.Gray) float64 {
	bounds := bw.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}
	black := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if bw.GrayAt(x, y).Y == colorutil.Black.Y {
				black++
			}
		}
	}
	return float64(black) / float64(total)
}
