package annot

import (
	"pdf-marker/pkg/geometry"
)

// MinStrokeHitWidth is the minimum effective width used when hit-testing
// strokes, so that thin lines remain easy to pick.
const MinStrokeHitWidth = 10

// SelectionKind identifies which annotation variant is selected.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionStroke
	SelectionText
	SelectionShape
)

// Selected describes the single active annotation. Strokes are addressed
// by page and z-order index, text boxes and shapes by stable ID.
type Selected struct {
	Kind  SelectionKind
	Page  int
	Index int
	ID    string
}

// Selected returns the current selection state.
func (s *Store) Selected() Selected {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// HasSelection reports whether any annotation is selected.
func (s *Store) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Kind != SelectionNone
}

// SelectStroke makes the stroke at (page, index) the active annotation.
// Any previous selection is cleared first. Selecting a nonexistent
// index only clears the selection.
func (s *Store) SelectStroke(page, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
	list := s.strokes[page]
	if index < 0 || index >= len(list) {
		return
	}
	list[index].Selected = true
	s.sel = Selected{Kind: SelectionStroke, Page: page, Index: index}
}

// SelectText makes the text box with the given ID the active annotation.
func (s *Store) SelectText(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
	t := s.textsByID[id]
	if t == nil {
		return
	}
	t.Selected = true
	s.sel = Selected{Kind: SelectionText, Page: t.Page, ID: id}
}

// SelectShape makes the shape with the given ID the active annotation.
func (s *Store) SelectShape(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
	sh := s.shapesByID[id]
	if sh == nil {
		return
	}
	sh.Selected = true
	s.sel = Selected{Kind: SelectionShape, Page: sh.Page, ID: id}
}

// ClearSelection deselects the active annotation, if any.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSelectionLocked()
}

// IsStrokeSelected reports whether the stroke at (page, index) is the
// active annotation. Used by the renderer to draw the selection halo.
func (s *Store) IsStrokeSelected(page, index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Kind == SelectionStroke && s.sel.Page == page && s.sel.Index == index
}

// IsTextSelected reports whether the text box is the active annotation.
func (s *Store) IsTextSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Kind == SelectionText && s.sel.ID == id
}

// IsShapeSelected reports whether the shape is the active annotation.
func (s *Store) IsShapeSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Kind == SelectionShape && s.sel.ID == id
}

// HitTestStroke finds the topmost stroke under the point. Strokes are
// scanned in reverse list order so that later (higher z-order) strokes
// win ties. The hit outline uses an effective width of at least
// MinStrokeHitWidth.
func (s *Store) HitTestStroke(page int, p geometry.Point2D) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.strokes[page]
	for i := len(list) - 1; i >= 0; i-- {
		width := float64(list[i].Width)
		if width < MinStrokeHitWidth {
			width = MinStrokeHitWidth
		}
		for _, sub := range list[i].Subpaths() {
			if geometry.PolylineContains(sub, width, p) {
				return i, true
			}
		}
	}
	return 0, false
}

// HitTestText finds the topmost text box under the point, or nil.
func (s *Store) HitTestText(page int, p geometry.Point2D) *Text {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.texts[page]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Rect.Contains(p) {
			return list[i]
		}
	}
	return nil
}

// HitTestShape finds the topmost shape under the point, or nil.
func (s *Store) HitTestShape(page int, p geometry.Point2D) *Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.shapes[page]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Rect.Contains(p) {
			return list[i]
		}
	}
	return nil
}

// clearSelectionLocked resets the selection and the selected-visual
// state of the previously active annotation. Callers hold s.mu.
func (s *Store) clearSelectionLocked() {
	switch s.sel.Kind {
	case SelectionStroke:
		list := s.strokes[s.sel.Page]
		if s.sel.Index >= 0 && s.sel.Index < len(list) {
			list[s.sel.Index].Selected = false
		}
	case SelectionText:
		if t := s.textsByID[s.sel.ID]; t != nil {
			t.Selected = false
		}
	case SelectionShape:
		if sh := s.shapesByID[s.sel.ID]; sh != nil {
			sh.Selected = false
		}
	}
	s.sel = Selected{}
}

// selectionOnPageLocked reports whether the selection points at an
// annotation on the given page. Callers hold s.mu.
func (s *Store) selectionOnPageLocked(page int) bool {
	switch s.sel.Kind {
	case SelectionStroke:
		return s.sel.Page == page
	case SelectionText:
		t := s.textsByID[s.sel.ID]
		return t != nil && t.Page == page
	case SelectionShape:
		sh := s.shapesByID[s.sel.ID]
		return sh != nil && sh.Page == page
	default:
		return false
	}
}
