// Package history provides whole-session snapshots and the bounded
// undo/redo engine that replays them.
package history

import (
	"reflect"
)

// FitMode controls how the viewer fits pages into the window.
type FitMode int

const (
	FitNone FitMode = iota
	FitWidth
	FitPage
)

func (m FitMode) String() string {
	switch m {
	case FitWidth:
		return "width"
	case FitPage:
		return "page"
	default:
		return "none"
	}
}

// ViewerState is the viewer camera: which page is shown and how.
type ViewerState struct {
	CurrentPage      int     `json:"current_page"`
	Zoom             float64 `json:"zoom"`
	SpreadMode       bool    `json:"spread_mode"`
	FitMode          FitMode `json:"fit_mode"`
	ScrollHorizontal bool    `json:"scroll_horizontal"`
	ScrollH          float64 `json:"scroll_h"`
	ScrollV          float64 `json:"scroll_v"`
}

// PathPointData is one serialized stroke vertex. Type 0 is a move (the
// first point of a path or the start of a disjoint subpath), type 1 a
// line continuation.
type PathPointData struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Type int     `json:"type"`
}

// StrokeData is the serialized form of a stroke annotation. Color is a
// packed RGBA32 value.
type StrokeData struct {
	Kind  int             `json:"kind"`
	Color uint32          `json:"color"`
	Width int             `json:"width"`
	Path  []PathPointData `json:"path"`
}

// TextData is the serialized form of a text box annotation.
type TextData struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Color     uint32  `json:"color"`
	FontPoint int     `json:"font_point"`
}

// ShapeData is the serialized form of a shape annotation.
type ShapeData struct {
	Kind   int     `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageAnnotations holds every serialized annotation of one page.
type PageAnnotations struct {
	Strokes []StrokeData `json:"strokes,omitempty"`
	Texts   []TextData   `json:"texts,omitempty"`
	Shapes  []ShapeData  `json:"shapes,omitempty"`
}

// Snapshot is an immutable capture of the full session state at one
// point in time: viewer camera, all annotations keyed by page index,
// and the answer page texts. Page keys serialize as JSON strings and
// are consumed back as integers, which encoding/json does for map[int]
// keys on its own.
type Snapshot struct {
	Viewer      ViewerState             `json:"viewer"`
	Annotations map[int]PageAnnotations `json:"annotations"`
	AnswerPages []string                `json:"answer_pages"`
}

// Equal reports whether two snapshots are structurally equal. The
// engine uses it for adjacent-entry deduplication.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return reflect.DeepEqual(s, other)
}
