package features

import (
	"image"

	pdfimage "pdf-markup/internal/image"
	"pdf-markup/pkg/colorutil"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// gridSize is the side length of the downsampled ink grid.
const gridSize = 4

// hueOrder breaks ties when picking the dominant hue family.
var hueOrder = []string{"yellow", "green", "blue", "red", "orange", "purple", "gray"}

// regionStats holds the pixel statistics shared by the extractors.
type regionStats struct {
	Width, Height int

	InkDensity   float64 // black fraction after binarization
	ColoredRatio float64 // colored fraction of non-white pixels

	HueMean, SatMean, ValMean float64 // over non-white pixels
	DominantHue               string  // most frequent hue family, "none" without ink

	LumHist [4]float64 // luminosity histogram over all pixels, normalized

	InkRows         float64 // fraction of rows containing ink
	LongestInkRun   float64 // longest horizontal black run / width
	MeanTransitions float64 // black/white changes per row

	Grid [gridSize * gridSize]float64 // ink level of each grid cell, 0-1
}

func computeStats(img image.Image) regionStats {
	bounds := img.Bounds()
	st := regionStats{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		DominantHue: "none",
	}
	if st.Width == 0 || st.Height == 0 {
		return st
	}

	st.ColoredRatio = colorutil.ColoredRatio(img, colorutil.DefaultSpreadThreshold)
	st.colorStats(img)

	bw := pdfimage.Binarize(img)
	st.InkDensity = pdfimage.InkDensity(bw)
	st.rowProfile(bw)
	st.grid(bw)

	return st
}

func (st *regionStats) colorStats(img image.Image) {
	bounds := img.Bounds()
	total := float64(st.Width * st.Height)
	var hues, sats, vals []float64
	counts := make(map[string]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			lum := colorutil.Luminosity(c)
			bin := lum * len(st.LumHist) / (colorutil.MaxLuminosity + 1)
			st.LumHist[bin]++

			if lum >= colorutil.MaxLuminosity {
				continue
			}
			r, g, b := colorutil.RGB8(c)
			h, s, v := colorutil.RGBToHSV(float64(r), float64(g), float64(b))
			hues = append(hues, h)
			sats = append(sats, s)
			vals = append(vals, v)
			counts[colorutil.HueName(h, s)]++
		}
	}

	floats.Scale(1/total, st.LumHist[:])

	if len(hues) == 0 {
		return
	}
	st.HueMean = stat.Mean(hues, nil)
	st.SatMean = stat.Mean(sats, nil)
	st.ValMean = stat.Mean(vals, nil)

	best := 0
	for _, name := range hueOrder {
		if counts[name] > best {
			best = counts[name]
			st.DominantHue = name
		}
	}
}

func (st *regionStats) rowProfile(bw *image.Gray) {
	bounds := bw.Bounds()
	inkRows, longest, transitions := 0, 0, 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		run, hasInk := 0, false
		prev := colorutil.White.Y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := bw.GrayAt(x, y).Y
			if v == colorutil.Black.Y {
				hasInk = true
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
			if x > bounds.Min.X && v != prev {
				transitions++
			}
			prev = v
		}
		if hasInk {
			inkRows++
		}
	}

	st.InkRows = float64(inkRows) / float64(st.Height)
	st.LongestInkRun = float64(longest) / float64(st.Width)
	st.MeanTransitions = float64(transitions) / float64(st.Height)
}

func (st *regionStats) grid(bw *image.Gray) {
	small := image.NewGray(image.Rect(0, 0, gridSize, gridSize))
	xdraw.BiLinear.Scale(small, small.Bounds(), bw, bw.Bounds(), xdraw.Src, nil)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			st.Grid[y*gridSize+x] = 1 - float64(small.GrayAt(x, y).Y)/255
		}
	}
}
