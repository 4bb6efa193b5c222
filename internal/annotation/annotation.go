// Package annotation defines the typed annotations recovered from a page and
// rebuilds them from classifier labels.
//
// All annotation coordinates are in PDF space: the origin is the bottom-left
// corner of the page and Y grows upward.
package annotation

import (
	"image"

	"pdf-markup/pkg/geometry"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Label is a class token emitted by the classifier.
type Label string

const (
	LabelHighlight Label = "highlight"
	LabelText      Label = "text"
	LabelUnderline Label = "underline"
)

// Labels returns the closed set of labels the classifier may emit.
func Labels() []Label {
	return []Label{LabelHighlight, LabelText, LabelUnderline}
}

// ParseLabel maps a raw classifier token to a Label.
func ParseLabel(token string) (Label, bool) {
	switch Label(token) {
	case LabelHighlight, LabelText, LabelUnderline:
		return Label(token), true
	}
	return "", false
}

// Kind tags the annotation variants.
type Kind int

const (
	KindHighlight Kind = iota
	KindText
	KindUnderline
)

func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "highlight"
	case KindText:
		return "text"
	case KindUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// Annotation is one of Highlight, Text or UnderLine. Callers dispatch on
// Kind. The set is closed: only this package implements it.
type Annotation interface {
	Kind() Kind
	// PageIndex returns the zero-based page the annotation belongs to.
	PageIndex() int
	// Origin returns the anchor (bottom-left) point in PDF space.
	Origin() geometry.PointInt
	// Rect returns the PDF-space area covered by the annotation.
	// Underlines have zero height.
	Rect() rect.Rect

	annotation()
}

// Highlight is a colored box drawn over existing content.
type Highlight struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Page   int `json:"page"`
}

func (Highlight) Kind() Kind                  { return KindHighlight }
func (h Highlight) PageIndex() int            { return h.Page }
func (h Highlight) Origin() geometry.PointInt { return geometry.PointInt{X: h.X, Y: h.Y} }
func (h Highlight) Rect() rect.Rect           { return pdfRect(h.X, h.Y, h.Width, h.Height) }
func (Highlight) annotation()                 {}

// Text is a hand-written mark. Image keeps the cropped region so its
// content can be recovered later.
type Text struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Page   int         `json:"page"`
	Image  image.Image `json:"-"`
}

func (Text) Kind() Kind                  { return KindText }
func (t Text) PageIndex() int            { return t.Page }
func (t Text) Origin() geometry.PointInt { return geometry.PointInt{X: t.X, Y: t.Y} }
func (t Text) Rect() rect.Rect           { return pdfRect(t.X, t.Y, t.Width, t.Height) }
func (Text) annotation()                 {}

// UnderLine is a single horizontal stroke; only its extent matters.
type UnderLine struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Width int `json:"width"`
	Page  int `json:"page"`
}

func (UnderLine) Kind() Kind                  { return KindUnderline }
func (u UnderLine) PageIndex() int            { return u.Page }
func (u UnderLine) Origin() geometry.PointInt { return geometry.PointInt{X: u.X, Y: u.Y} }
func (u UnderLine) Rect() rect.Rect           { return pdfRect(u.X, u.Y, u.Width, 0) }
func (UnderLine) annotation()                 {}

func pdfRect(x, y, w, h int) rect.Rect {
	return rect.Rect{
		LLx: float64(x),
		LLy: float64(y),
		URx: float64(x + w),
		URy: float64(y + h),
	}
}

// QuadPoints returns the corners of a's area in counter-clockwise order
// starting at the bottom-left, the layout used by PDF text markup
// annotations.
func QuadPoints(a Annotation) []vec.Vec2 {
	r := a.Rect()
	return []vec.Vec2{
		{X: r.LLx, Y: r.LLy},
		{X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy},
		{X: r.LLx, Y: r.URy},
	}
}

// ImageYToPDFY converts an image-space Y coordinate (origin top-left, Y down)
// to PDF space (origin bottom-left, Y up) for a raster of the given height.
func ImageYToPDFY(y, height int) int {
	return height - y
}
