// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"image"
)

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RectInt represents a rectangle with integer coordinates.
// X, Y is the top-left corner in image space.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToImageRect converts to an image.Rectangle.
func (r RectInt) ToImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty returns true if the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// BoundingBox identifies one candidate annotation region on a page image.
//
// X, Y is the bottom-left corner in image pixel space. Image Y grows
// downward, so the box covers rows [Y-Height, Y) and columns [X, X+Width).
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewBoundingBox creates a BoundingBox from its bottom-left corner and size.
func NewBoundingBox(x, y, width, height int) BoundingBox {
	return BoundingBox{X: x, Y: y, Width: width, Height: height}
}

// BottomLeft returns the anchor corner of the box.
func (b BoundingBox) BottomLeft() PointInt {
	return PointInt{X: b.X, Y: b.Y}
}

// TopRight returns the corner opposite the anchor.
func (b BoundingBox) TopRight() PointInt {
	return PointInt{X: b.X + b.Width, Y: b.Y - b.Height}
}

// Rect returns the pixel rectangle covered by the box.
func (b BoundingBox) Rect() RectInt {
	return RectInt{X: b.X, Y: b.Y - b.Height, Width: b.Width, Height: b.Height}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}
