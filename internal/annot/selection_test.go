package annot

import (
	"testing"

	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

func TestSelectionExclusivity(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.AddStroke(0, StrokePen, line(20, 20, 30, 30), colorutil.Black, 2)
	txt := s.AddText(0, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)

	s.SelectStroke(0, 1)
	if !s.IsStrokeSelected(0, 1) {
		t.Fatal("stroke 1 should be selected")
	}
	if s.IsStrokeSelected(0, 0) || s.IsTextSelected(txt.ID) {
		t.Error("no other annotation may report selected")
	}
	if !s.Strokes(0)[1].Selected {
		t.Error("selected-visual state not applied")
	}

	s.SelectText(txt.ID)
	if !s.IsTextSelected(txt.ID) {
		t.Fatal("text should be selected")
	}
	if s.IsStrokeSelected(0, 1) || s.Strokes(0)[1].Selected {
		t.Error("previous selection must be fully cleared before the new one")
	}
}

func TestSelectRecordsPage(t *testing.T) {
	s := NewStore()
	txt := s.AddText(2, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)
	sh := s.AddShape(3, ShapeTriangle, geometry.NewRect(0, 0, 10, 10))

	s.SelectText(txt.ID)
	if got := s.Selected().Page; got != 2 {
		t.Errorf("selected text page = %d, want 2", got)
	}

	s.SelectShape(sh.ID)
	if got := s.Selected().Page; got != 3 {
		t.Errorf("selected shape page = %d, want 3", got)
	}
}

func TestSelectInvalidTarget(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.SelectStroke(0, 0)

	s.SelectStroke(0, 7)
	if s.HasSelection() {
		t.Error("selecting a nonexistent stroke must leave no selection")
	}

	s.SelectText("missing")
	if s.HasSelection() {
		t.Error("selecting an unknown text ID must leave no selection")
	}
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.SelectStroke(0, 0)

	s.RemoveStroke(0, 0)
	if s.Selected().Kind != SelectionNone {
		t.Error("deleting the selected stroke must clear the selection")
	}

	txt := s.AddText(1, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)
	s.SelectText(txt.ID)
	s.RemoveText(1, txt.ID)
	if s.HasSelection() {
		t.Error("deleting the selected text must clear the selection")
	}

	sh := s.AddShape(2, ShapeCross, geometry.NewRect(0, 0, 10, 10))
	s.SelectShape(sh.ID)
	s.RemoveShape(2, sh.ID)
	if s.HasSelection() {
		t.Error("deleting the selected shape must clear the selection")
	}
}

func TestRemoveStrokeShiftsSelection(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.AddStroke(0, StrokePen, line(20, 20, 30, 30), colorutil.Black, 2)
	s.AddStroke(0, StrokeMarker, line(40, 40, 50, 50), colorutil.Yellow, 12)
	s.SelectStroke(0, 2)

	s.RemoveStroke(0, 0)
	if !s.IsStrokeSelected(0, 1) {
		t.Fatalf("selection index must follow the stroke down, got %+v", s.Selected())
	}
	if s.Strokes(0)[1].Kind != StrokeMarker {
		t.Error("selection must still point at the same stroke")
	}

	s.RemoveStroke(0, 1)
	if s.HasSelection() {
		t.Error("deleting the selected stroke via its shifted index must clear the selection")
	}

	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.SelectStroke(0, 0)
	s.RemoveStroke(0, 1)
	if !s.IsStrokeSelected(0, 0) {
		t.Error("removing a stroke above the selection must not move it")
	}
}

func TestClearPageClearsSelectionOnThatPage(t *testing.T) {
	s := NewStore()
	s.AddStroke(0, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)
	s.AddStroke(1, StrokePen, line(0, 0, 10, 10), colorutil.Black, 2)

	s.SelectStroke(1, 0)
	s.ClearPage(0)
	if !s.IsStrokeSelected(1, 0) {
		t.Error("clearing another page must keep the selection")
	}

	s.ClearPage(1)
	if s.HasSelection() {
		t.Error("clearing the selected page must clear the selection")
	}
}

func TestHitTestStrokeTopmostWins(t *testing.T) {
	s := NewStore()
	// Two overlapping strokes; the later one is on top.
	s.AddStroke(0, StrokePen, line(0, 50, 100, 50), colorutil.Black, 4)
	s.AddStroke(0, StrokeMarker, line(50, 0, 50, 100), colorutil.Yellow, 4)

	index, ok := s.HitTestStroke(0, geometry.Point2D{X: 50, Y: 50})
	if !ok || index != 1 {
		t.Errorf("got (%d, %v), want the topmost stroke (1, true)", index, ok)
	}

	index, ok = s.HitTestStroke(0, geometry.Point2D{X: 10, Y: 50})
	if !ok || index != 0 {
		t.Errorf("got (%d, %v), want (0, true)", index, ok)
	}

	if _, ok := s.HitTestStroke(0, geometry.Point2D{X: 90, Y: 90}); ok {
		t.Error("point far from both strokes must miss")
	}
}

func TestHitTestStrokeMinimumWidth(t *testing.T) {
	s := NewStore()
	// A hairline stroke still gets a 10-wide hit outline.
	s.AddStroke(0, StrokePen, line(0, 0, 100, 0), colorutil.Black, 1)

	if _, ok := s.HitTestStroke(0, geometry.Point2D{X: 50, Y: 4}); !ok {
		t.Error("thin strokes must be hit-testable within the minimum width")
	}
	if _, ok := s.HitTestStroke(0, geometry.Point2D{X: 50, Y: 6}); ok {
		t.Error("point outside the minimum hit width must miss")
	}
}

func TestHitTestStrokeSubpaths(t *testing.T) {
	s := NewStore()
	path := []PathPoint{
		{X: 0, Y: 0, Move: true},
		{X: 10, Y: 0},
		{X: 100, Y: 100, Move: true},
		{X: 110, Y: 100},
	}
	s.AddStroke(0, StrokePen, path, colorutil.Black, 2)

	if _, ok := s.HitTestStroke(0, geometry.Point2D{X: 105, Y: 100}); !ok {
		t.Error("second subpath must be hit-testable")
	}
	// The gap between the subpaths is not part of the stroke.
	if _, ok := s.HitTestStroke(0, geometry.Point2D{X: 55, Y: 50}); ok {
		t.Error("jump between subpaths must not be hit-testable")
	}
}

func TestHitTestTextAndShape(t *testing.T) {
	s := NewStore()
	bottom := s.AddText(0, geometry.NewRect(0, 0, 50, 50), colorutil.Black, 12)
	top := s.AddText(0, geometry.NewRect(25, 25, 50, 50), colorutil.Black, 12)

	if got := s.HitTestText(0, geometry.Point2D{X: 40, Y: 40}); got != top {
		t.Error("overlap must resolve to the most recently added text")
	}
	if got := s.HitTestText(0, geometry.Point2D{X: 5, Y: 5}); got != bottom {
		t.Error("non-overlapping area must resolve to the bottom text")
	}
	if s.HitTestText(0, geometry.Point2D{X: 90, Y: 90}) != nil {
		t.Error("miss must return nil")
	}

	sh := s.AddShape(0, ShapeCircle, geometry.NewRect(60, 60, 20, 20))
	if got := s.HitTestShape(0, geometry.Point2D{X: 70, Y: 70}); got != sh {
		t.Error("shape hit test failed")
	}
}
