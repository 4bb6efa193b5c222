package annotation

import (
	"image"
	"log"

	"pdf-markup/pkg/geometry"
)

// Reconstruct builds annotations from classifier labels, the boxes they were
// computed for and the cropped region images. The three slices are walked by
// position and the walk stops at the end of the shortest one. Labels outside
// the closed label set produce no annotation.
func Reconstruct(labels []string, boxes []geometry.BoundingBox, images []image.Image, page int) []Annotation {
	n := min(len(labels), len(boxes), len(images))
	if n != len(labels) || n != len(boxes) || n != len(images) {
		log.Printf("annotation: page %d: %d labels, %d boxes, %d images; using first %d",
			page, len(labels), len(boxes), len(images), n)
	}

	var out []Annotation
	for i := 0; i < n; i++ {
		box := boxes[i]
		img := images[i]
		size := img.Bounds().Size()

		x := box.X
		y := ImageYToPDFY(box.Y, size.Y)

		label, ok := ParseLabel(labels[i])
		if !ok {
			log.Printf("annotation: page %d region %d: dropping unknown label %q", page, i, labels[i])
			continue
		}

		switch label {
		case LabelHighlight:
			out = append(out, Highlight{X: x, Y: y, Width: size.X, Height: size.Y, Page: page})
		case LabelText:
			out = append(out, Text{X: x, Y: y, Width: size.X, Height: size.Y, Page: page, Image: img})
		case LabelUnderline:
			out = append(out, UnderLine{X: x, Y: y, Width: size.X, Page: page})
		}
	}
	return out
}
