// Package annot provides the per-page annotation store and selection
// handling for marked-up documents.
package annot

import (
	"image/color"

	"github.com/google/uuid"

	"pdf-marker/pkg/geometry"
)

// StrokeKind identifies the drawing tool a stroke was made with.
type StrokeKind int

const (
	// StrokePen is an opaque freehand pen line.
	StrokePen StrokeKind = iota
	// StrokeMarker is a wide, semi-transparent highlighter line.
	StrokeMarker
)

func (k StrokeKind) String() string {
	switch k {
	case StrokePen:
		return "pen"
	case StrokeMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// ShapeKind identifies the figure drawn by a shape annotation.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeTriangle
	ShapeCross
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeTriangle:
		return "triangle"
	case ShapeCross:
		return "cross"
	default:
		return "unknown"
	}
}

// PathPoint is one vertex of a stroke path. Move marks the start of a
// disjoint subpath; the first point of a path is always a move.
type PathPoint struct {
	X    float64
	Y    float64
	Move bool
}

// Pt returns the point's coordinates.
func (p PathPoint) Pt() geometry.Point2D {
	return geometry.Point2D{X: p.X, Y: p.Y}
}

// Stroke is a freehand pen or marker path on one page. Strokes are
// identified by their position in the page's stroke list, which is also
// their z-order: later strokes paint on top of earlier ones.
type Stroke struct {
	Kind  StrokeKind
	Path  []PathPoint
	Color color.RGBA
	Width int

	// Selected is the transient selection accent. It is never persisted.
	Selected bool
}

// Subpaths splits the stroke path at move points into drawable polylines.
func (s *Stroke) Subpaths() [][]geometry.Point2D {
	var subpaths [][]geometry.Point2D
	var current []geometry.Point2D
	for _, p := range s.Path {
		if p.Move && len(current) > 0 {
			subpaths = append(subpaths, current)
			current = nil
		}
		current = append(current, p.Pt())
	}
	if len(current) > 0 {
		subpaths = append(subpaths, current)
	}
	return subpaths
}

// Bounds returns the bounding rectangle of the stroke path.
func (s *Stroke) Bounds() geometry.Rect {
	points := make([]geometry.Point2D, len(s.Path))
	for i, p := range s.Path {
		points[i] = p.Pt()
	}
	return geometry.BoundingBox(points)
}

// Text is a floating text box annotation. Identity is the value of ID,
// assigned at creation and stable across serialization.
type Text struct {
	ID        string
	Page      int
	Rect      geometry.Rect
	Text      string
	Color     color.RGBA
	FontPoint int

	Selected bool
}

// Shape is a floating figure annotation. The accent color used when a
// shape is selected is derived from Selected and not persisted.
type Shape struct {
	ID   string
	Page int
	Kind ShapeKind
	Rect geometry.Rect

	Selected bool
}

// newID returns a fresh stable annotation identifier.
func newID() string {
	return uuid.NewString()
}
