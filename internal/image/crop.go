package image

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"pdf-markup/pkg/geometry"
)

// ErrBoxOutOfBounds is returned for a bounding box that does not overlap the page.
var ErrBoxOutOfBounds = errors.New("bounding box outside page")

// Crop cuts one region image per box out of page, in box order.
// Boxes extending past the page edge are clipped to the page.
func Crop(page image.Image, boxes []geometry.BoundingBox) ([]image.Image, error) {
	regions := make([]image.Image, len(boxes))
	for i, box := range boxes {
		region, err := CropBox(page, box)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		regions[i] = region
	}
	return regions, nil
}

// CropBox copies the area covered by box into a new RGBA image whose
// bounds start at the origin.
func CropBox(page image.Image, box geometry.BoundingBox) (*image.RGBA, error) {
	r := box.Rect()
	if r.Empty() {
		return nil, fmt.Errorf("%w: %v has no area", ErrBoxOutOfBounds, box)
	}
	src := r.ToImageRect().Intersect(page.Bounds())
	if src.Empty() {
		return nil, fmt.Errorf("%w: %v not within %v", ErrBoxOutOfBounds, box, page.Bounds())
	}

	dst := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(dst, dst.Bounds(), page, src.Min, draw.Src)
	return dst, nil
}
