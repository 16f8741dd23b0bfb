package geometry

import (
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 10)

	if !r.Contains(Point2D{15, 15}) {
		t.Error("interior point should be contained")
	}
	if !r.Contains(Point2D{10, 10}) || !r.Contains(Point2D{30, 20}) {
		t.Error("boundary points should be contained")
	}
	if r.Contains(Point2D{9, 15}) || r.Contains(Point2D{15, 25}) {
		t.Error("exterior points should not be contained")
	}
}

func TestRectTranslate(t *testing.T) {
	r := NewRect(1, 2, 3, 4).Translate(Point2D{10, 20})
	want := NewRect(11, 22, 3, 4)
	if r != want {
		t.Errorf("got %v, want %v", r, want)
	}
}

func TestRectExpand(t *testing.T) {
	r := NewRect(10, 10, 20, 10).Expand(5)
	want := NewRect(5, 5, 30, 20)
	if r != want {
		t.Errorf("got %v, want %v", r, want)
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{3, 7}, {-2, 4}, {5, -1}}
	got := BoundingBox(pts)
	want := NewRect(-2, -1, 7, 8)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if BoundingBox(nil) != (Rect{}) {
		t.Error("empty input should give zero rect")
	}
}
