package annotation

// Record is the flat, serializable form of an annotation.
type Record struct {
	Type    string `json:"type"`
	Page    int    `json:"page"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height,omitempty"`
	Content string `json:"content,omitempty"`
}

// ToRecord flattens a.
func ToRecord(a Annotation) Record {
	o := a.Origin()
	r := a.Rect()
	return Record{
		Type:   a.Kind().String(),
		Page:   a.PageIndex(),
		X:      o.X,
		Y:      o.Y,
		Width:  int(r.URx - r.LLx),
		Height: int(r.URy - r.LLy),
	}
}

// Count tallies annotations by kind.
func Count(anns []Annotation) map[Kind]int {
	counts := make(map[Kind]int)
	for _, a := range anns {
		counts[a.Kind()]++
	}
	return counts
}
