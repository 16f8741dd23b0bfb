package history

import (
	"image/color"
	"sort"

	"pdf-marker/internal/annot"
	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

// defaultStrokeWidth is used when a serialized stroke carries no usable
// width.
const defaultStrokeWidth = 2

// CaptureAnnotations serializes the store's contents into plain wire
// structs keyed by page index. It is a pure function of the store.
func CaptureAnnotations(store *annot.Store) map[int]PageAnnotations {
	data := make(map[int]PageAnnotations)
	for _, page := range store.Pages() {
		var pa PageAnnotations
		for _, stroke := range store.Strokes(page) {
			pa.Strokes = append(pa.Strokes, encodeStroke(stroke))
		}
		for _, text := range store.Texts(page) {
			pa.Texts = append(pa.Texts, TextData{
				Text:      text.Text,
				X:         text.Rect.X,
				Y:         text.Rect.Y,
				Width:     text.Rect.Width,
				Height:    text.Rect.Height,
				Color:     colorutil.PackRGBA(text.Color),
				FontPoint: text.FontPoint,
			})
		}
		for _, shape := range store.Shapes(page) {
			pa.Shapes = append(pa.Shapes, ShapeData{
				Kind:   int(shape.Kind),
				X:      shape.Rect.X,
				Y:      shape.Rect.Y,
				Width:  shape.Rect.Width,
				Height: shape.Rect.Height,
			})
		}
		data[page] = pa
	}
	return data
}

// ApplyAnnotations fully replaces the store's contents with the
// serialized data. It never merges and never fails: malformed or
// missing fields fall back to their documented defaults (opaque black
// color, stroke width 2). The returned handles are freshly assigned;
// identities from before serialization do not survive.
func ApplyAnnotations(data map[int]PageAnnotations, store *annot.Store) {
	store.ClearAll()

	pages := make([]int, 0, len(data))
	for page := range data {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	for _, page := range pages {
		pa := data[page]
		for _, sd := range pa.Strokes {
			path, c, width := decodeStroke(sd)
			if len(path) == 0 {
				continue
			}
			store.AddStroke(page, strokeKind(sd.Kind), path, c, width)
		}
		for _, td := range pa.Texts {
			t := store.AddText(page,
				geometry.NewRect(td.X, td.Y, td.Width, td.Height),
				decodeColor(td.Color), td.FontPoint)
			store.SetTextContent(t.ID, td.Text)
		}
		for _, sd := range pa.Shapes {
			store.AddShape(page, shapeKind(sd.Kind),
				geometry.NewRect(sd.X, sd.Y, sd.Width, sd.Height))
		}
	}
}

func encodeStroke(stroke *annot.Stroke) StrokeData {
	sd := StrokeData{
		Kind:  int(stroke.Kind),
		Color: colorutil.PackRGBA(stroke.Color),
		Width: stroke.Width,
		Path:  make([]PathPointData, len(stroke.Path)),
	}
	for i, p := range stroke.Path {
		kind := 1
		if i == 0 || p.Move {
			kind = 0
		}
		sd.Path[i] = PathPointData{X: p.X, Y: p.Y, Type: kind}
	}
	return sd
}

func decodeStroke(sd StrokeData) ([]annot.PathPoint, color.RGBA, int) {
	path := make([]annot.PathPoint, len(sd.Path))
	for i, pd := range sd.Path {
		path[i] = annot.PathPoint{X: pd.X, Y: pd.Y, Move: i == 0 || pd.Type == 0}
	}
	width := sd.Width
	if width < 1 {
		width = defaultStrokeWidth
	}
	return path, decodeColor(sd.Color), width
}

// decodeColor unpacks a serialized RGBA32 value; a zero value means the
// field was missing and defaults to opaque black.
func decodeColor(v uint32) color.RGBA {
	if v == 0 {
		return colorutil.Black
	}
	return colorutil.UnpackRGBA(v)
}

// strokeKind maps a serialized kind to the enum, defaulting to pen.
func strokeKind(v int) annot.StrokeKind {
	if v == int(annot.StrokeMarker) {
		return annot.StrokeMarker
	}
	return annot.StrokePen
}

// shapeKind maps a serialized kind to the enum, defaulting to circle.
func shapeKind(v int) annot.ShapeKind {
	switch v {
	case int(annot.ShapeTriangle):
		return annot.ShapeTriangle
	case int(annot.ShapeCross):
		return annot.ShapeCross
	default:
		return annot.ShapeCircle
	}
}
