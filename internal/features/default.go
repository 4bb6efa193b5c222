package features

import (
	"fmt"
	"image"
)

// Default combines shape, color, luminosity, row profile and a coarse ink
// grid. It is the extractor used unless configured otherwise.
type Default struct {
	names Schema
}

// NewDefault creates the default extractor.
func NewDefault() *Default {
	names := append(Schema{}, shapeNames...)
	names = append(names,
		"hue_mean", "sat_mean", "val_mean", "dominant_hue",
		"lum_bin0", "lum_bin1", "lum_bin2", "lum_bin3",
		"ink_rows", "longest_ink_run", "row_transitions",
	)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			names = append(names, fmt.Sprintf("grid_%d%d", y, x))
		}
	}
	return &Default{names: names}
}

func (d *Default) FeatureNames() Schema {
	return d.names
}

func (d *Default) ExtractFeatures(img image.Image) Vector {
	st := computeStats(img)

	v := make(Vector, 0, len(d.names))
	v = append(v, shapeValues(st)...)
	v = append(v,
		Float(st.HueMean), Float(st.SatMean), Float(st.ValMean), st.DominantHue,
	)
	for _, bin := range st.LumHist {
		v = append(v, Float(bin))
	}
	v = append(v, Float(st.InkRows), Float(st.LongestInkRun), Float(st.MeanTransitions))
	for _, cell := range st.Grid {
		v = append(v, Float(cell))
	}
	return v
}
