package annot

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

func line(x1, y1, x2, y2 float64) []PathPoint {
	return []PathPoint{
		{X: x1, Y: y1, Move: true},
		{X: x2, Y: y2},
	}
}

func TestAddStrokeOrder(t *testing.T) {
	s := NewStore()

	i0 := s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	i1 := s.AddStroke(0, StrokeMarker, line(5, 5, 20, 5), colorutil.Yellow, 12)

	if i0 != 0 || i1 != 1 {
		t.Fatalf("indices = %d, %d, want 0, 1", i0, i1)
	}

	strokes := s.Strokes(0)
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	if strokes[0].Kind != StrokePen || strokes[1].Kind != StrokeMarker {
		t.Error("strokes must keep insertion order (z-order)")
	}
}

func TestAddStrokeNormalizesFirstPoint(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, []PathPoint{{X: 1, Y: 2}, {X: 3, Y: 4}}, colorutil.Black, 2)

	if !s.Strokes(0)[0].Path[0].Move {
		t.Error("first path point must be a move")
	}
}

func TestRemoveStrokeIdempotent(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)

	s.RemoveStroke(0, 5)
	s.RemoveStroke(0, -1)
	s.RemoveStroke(3, 0)
	if len(s.Strokes(0)) != 1 {
		t.Error("removing nonexistent indices must not change the store")
	}

	s.RemoveStroke(0, 0)
	if len(s.Strokes(0)) != 0 {
		t.Error("stroke not removed")
	}
}

func TestTranslateStroke(t *testing.T) {
	s := NewStore()
	s.AddStroke(2, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)

	s.TranslateStroke(2, 0, geometry.Point2D{X: 5, Y: -3})

	want := []PathPoint{
		{X: 5, Y: -3, Move: true},
		{X: 15, Y: 7},
	}
	if diff := cmp.Diff(want, s.Strokes(2)[0].Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestRecolorStroke(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)

	s.RecolorStroke(0, 0, colorutil.Red)
	if s.Strokes(0)[0].Color != colorutil.Red {
		t.Error("stroke color not changed")
	}

	// Out of range is a no-op
	s.RecolorStroke(0, 9, colorutil.Blue)
}

func TestTextLifecycle(t *testing.T) {
	s := NewStore()
	txt := s.AddText(1, geometry.NewRect(10, 10, 100, 40), colorutil.Black, 12)

	if txt.ID == "" {
		t.Fatal("text must get a stable ID at creation")
	}
	if s.TextByID(txt.ID) != txt {
		t.Error("text not findable by ID")
	}

	s.SetTextContent(txt.ID, "see note 4")
	s.RestyleText(txt.ID, colorutil.Red, 16)
	s.MoveText(txt.ID, geometry.Point2D{X: 5, Y: 5})

	got := s.Texts(1)[0]
	if got.Text != "see note 4" || got.Color != colorutil.Red || got.FontPoint != 16 {
		t.Errorf("unexpected text state: %+v", got)
	}
	if got.Rect != geometry.NewRect(15, 15, 100, 40) {
		t.Errorf("unexpected rect: %v", got.Rect)
	}

	s.RemoveText(1, txt.ID)
	if len(s.Texts(1)) != 0 || s.TextByID(txt.ID) != nil {
		t.Error("text not removed")
	}

	// Unknown ID and wrong page are no-ops
	s.RemoveText(1, txt.ID)
	s.RemoveText(0, "nope")
}

func TestShapeLifecycle(t *testing.T) {
	s := NewStore()
	sh := s.AddShape(0, ShapeTriangle, geometry.NewRect(0, 0, 30, 30))

	s.MoveShape(sh.ID, geometry.Point2D{X: 10, Y: 10})
	s.ResizeShape(sh.ID, geometry.NewRect(10, 10, 50, 20))

	got := s.Shapes(0)[0]
	if got.Kind != ShapeTriangle || got.Rect != geometry.NewRect(10, 10, 50, 20) {
		t.Errorf("unexpected shape state: %+v", got)
	}

	s.RemoveShape(0, sh.ID)
	if len(s.Shapes(0)) != 0 || s.ShapeByID(sh.ID) != nil {
		t.Error("shape not removed")
	}
}

func TestRemoveShapeWrongPage(t *testing.T) {
	s := NewStore()
	sh := s.AddShape(2, ShapeCross, geometry.NewRect(0, 0, 10, 10))

	s.RemoveShape(0, sh.ID)
	if s.ShapeByID(sh.ID) == nil {
		t.Error("removal with wrong page must be a no-op")
	}
}

func TestClearPage(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 1, 1), colorutil.Black, 2)
	txt := s.AddText(0, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)
	s.AddShape(1, ShapeCircle, geometry.NewRect(0, 0, 10, 10))

	s.ClearPage(0)

	if len(s.Strokes(0)) != 0 || len(s.Texts(0)) != 0 {
		t.Error("page 0 not cleared")
	}
	if s.TextByID(txt.ID) != nil {
		t.Error("ID index must not keep cleared annotations")
	}
	if len(s.Shapes(1)) != 1 {
		t.Error("other pages must be untouched")
	}
}

func TestClearAll(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 1, 1), colorutil.Black, 2)
	s.AddText(3, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)
	s.AddShape(7, ShapeCircle, geometry.NewRect(0, 0, 10, 10))

	s.ClearAll()

	if !s.Empty() {
		t.Error("store must be empty after ClearAll")
	}
}

func TestPages(t *testing.T) {
	s := NewStore()
	s.AddShape(7, ShapeCircle, geometry.NewRect(0, 0, 10, 10))
	s.AddStroke(2, StrokePen, line(0, 0, 1, 1), colorutil.Black, 2)
	s.AddText(5, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)

	if diff := cmp.Diff([]int{2, 5, 7}, s.Pages()); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}
