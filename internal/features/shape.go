package features

import "image"

// Shape describes a region by its geometry and ink coverage only.
type Shape struct{}

var shapeNames = Schema{"width", "height", "aspect_ratio", "ink_density", "colored_ratio"}

func (Shape) FeatureNames() Schema {
	return shapeNames
}

func (Shape) ExtractFeatures(img image.Image) Vector {
	return shapeValues(computeStats(img))
}

func shapeValues(st regionStats) Vector {
	aspect := 0.0
	if st.Height > 0 {
		aspect = float64(st.Width) / float64(st.Height)
	}
	return Vector{
		Int(st.Width),
		Int(st.Height),
		Float(aspect),
		Float(st.InkDensity),
		Float(st.ColoredRatio),
	}
}
