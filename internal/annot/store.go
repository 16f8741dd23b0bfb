package annot

import (
	"image/color"
	"sort"
	"sync"

	"pdf-marker/pkg/geometry"
)

// Store owns every annotation of the open document, organized per page,
// together with the current selection. All methods are safe for use
// from the UI thread; the store never calls back into its users.
type Store struct {
	mu sync.RWMutex

	strokes map[int][]*Stroke
	texts   map[int][]*Text
	shapes  map[int][]*Shape

	// ID index for text and shape annotations
	textsByID  map[string]*Text
	shapesByID map[string]*Shape

	sel Selected
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{
		strokes:    make(map[int][]*Stroke),
		texts:      make(map[int][]*Text),
		shapes:     make(map[int][]*Shape),
		textsByID:  make(map[string]*Text),
		shapesByID: make(map[string]*Shape),
	}
}

// AddStroke appends a stroke to the page's list and returns its index.
// The first path point is always treated as a move.
func (s *Store) AddStroke(page int, kind StrokeKind, path []PathPoint, c color.RGBA, width int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean := make([]PathPoint, len(path))
	copy(clean, path)
	if len(clean) > 0 {
		clean[0].Move = true
	}
	if width < 1 {
		width = 1
	}

	s.strokes[page] = append(s.strokes[page], &Stroke{
		Kind:  kind,
		Path:  clean,
		Color: c,
		Width: width,
	})
	return len(s.strokes[page]) - 1
}

// AddText creates an empty text box on the page and returns it.
func (s *Store) AddText(page int, rect geometry.Rect, c color.RGBA, fontPoint int) *Text {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Text{
		ID:        newID(),
		Page:      page,
		Rect:      rect,
		Color:     c,
		FontPoint: fontPoint,
	}
	s.texts[page] = append(s.texts[page], t)
	s.textsByID[t.ID] = t
	return t
}

// AddShape creates a shape on the page and returns it.
func (s *Store) AddShape(page int, kind ShapeKind, rect geometry.Rect) *Shape {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := &Shape{
		ID:   newID(),
		Page: page,
		Kind: kind,
		Rect: rect,
	}
	s.shapes[page] = append(s.shapes[page], sh)
	s.shapesByID[sh.ID] = sh
	return sh
}

// RemoveStroke removes the stroke at the given index. Removing a
// nonexistent index is a no-op. If the stroke is currently selected the
// selection is cleared; a stroke selection later in the same page's
// z-order shifts down with the list.
func (s *Store) RemoveStroke(page, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.strokes[page]
	if index < 0 || index >= len(list) {
		return
	}
	if s.sel.Kind == SelectionStroke && s.sel.Page == page {
		switch {
		case s.sel.Index == index:
			s.clearSelectionLocked()
		case s.sel.Index > index:
			s.sel.Index--
		}
	}
	s.strokes[page] = append(list[:index], list[index+1:]...)
}

// RemoveText removes a text box by ID. Unknown IDs are a no-op.
func (s *Store) RemoveText(page int, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.textsByID[id]
	if t == nil || t.Page != page {
		return
	}
	if s.sel.Kind == SelectionText && s.sel.ID == id {
		s.clearSelectionLocked()
	}
	delete(s.textsByID, id)
	s.texts[page] = removeText(s.texts[page], id)
}

// RemoveShape removes a shape by ID. Unknown IDs are a no-op.
func (s *Store) RemoveShape(page int, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh := s.shapesByID[id]
	if sh == nil || sh.Page != page {
		return
	}
	if s.sel.Kind == SelectionShape && s.sel.ID == id {
		s.clearSelectionLocked()
	}
	delete(s.shapesByID, id)
	s.shapes[page] = removeShape(s.shapes[page], id)
}

// RecolorStroke changes the color of the stroke at the given index.
func (s *Store) RecolorStroke(page, index int, c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.strokes[page]
	if index < 0 || index >= len(list) {
		return
	}
	list[index].Color = c
}

// TranslateStroke moves every point of the stroke by the given delta.
func (s *Store) TranslateStroke(page, index int, delta geometry.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.strokes[page]
	if index < 0 || index >= len(list) {
		return
	}
	for i := range list[index].Path {
		list[index].Path[i].X += delta.X
		list[index].Path[i].Y += delta.Y
	}
}

// SetTextContent replaces the content of a text box.
func (s *Store) SetTextContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.textsByID[id]; t != nil {
		t.Text = content
	}
}

// RestyleText changes the color and font size of a text box.
func (s *Store) RestyleText(id string, c color.RGBA, fontPoint int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.textsByID[id]; t != nil {
		t.Color = c
		t.FontPoint = fontPoint
	}
}

// MoveText moves a text box by the given delta.
func (s *Store) MoveText(id string, delta geometry.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.textsByID[id]; t != nil {
		t.Rect = t.Rect.Translate(delta)
	}
}

// MoveShape moves a shape by the given delta.
func (s *Store) MoveShape(id string, delta geometry.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh := s.shapesByID[id]; sh != nil {
		sh.Rect = sh.Rect.Translate(delta)
	}
}

// ResizeShape replaces a shape's rectangle.
func (s *Store) ResizeShape(id string, rect geometry.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh := s.shapesByID[id]; sh != nil {
		sh.Rect = rect
	}
}

// ClearPage removes every annotation on the page. The selection is
// cleared first if it points into the page.
func (s *Store) ClearPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectionOnPageLocked(page) {
		s.clearSelectionLocked()
	}
	for _, t := range s.texts[page] {
		delete(s.textsByID, t.ID)
	}
	for _, sh := range s.shapes[page] {
		delete(s.shapesByID, sh.ID)
	}
	delete(s.strokes, page)
	delete(s.texts, page)
	delete(s.shapes, page)
}

// ClearAll removes every annotation from every page and clears the
// selection.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
	s.strokes = make(map[int][]*Stroke)
	s.texts = make(map[int][]*Text)
	s.shapes = make(map[int][]*Shape)
	s.textsByID = make(map[string]*Text)
	s.shapesByID = make(map[string]*Shape)
}

// Strokes returns the page's strokes in z-order.
func (s *Store) Strokes(page int) []*Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Stroke, len(s.strokes[page]))
	copy(result, s.strokes[page])
	return result
}

// Texts returns the page's text boxes in creation order.
func (s *Store) Texts(page int) []*Text {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Text, len(s.texts[page]))
	copy(result, s.texts[page])
	return result
}

// Shapes returns the page's shapes in creation order.
func (s *Store) Shapes(page int) []*Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Shape, len(s.shapes[page]))
	copy(result, s.shapes[page])
	return result
}

// TextByID returns a text box by ID, or nil.
func (s *Store) TextByID(id string) *Text {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textsByID[id]
}

// ShapeByID returns a shape by ID, or nil.
func (s *Store) ShapeByID(id string) *Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shapesByID[id]
}

// Pages returns the sorted indices of all pages holding at least one
// annotation.
func (s *Store) Pages() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]bool)
	for page := range s.strokes {
		if len(s.strokes[page]) > 0 {
			seen[page] = true
		}
	}
	for page := range s.texts {
		if len(s.texts[page]) > 0 {
			seen[page] = true
		}
	}
	for page := range s.shapes {
		if len(s.shapes[page]) > 0 {
			seen[page] = true
		}
	}

	pages := make([]int, 0, len(seen))
	for page := range seen {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// Empty reports whether the store holds no annotations at all.
func (s *Store) Empty() bool {
	return len(s.Pages()) == 0
}

func removeText(list []*Text, id string) []*Text {
	for i, t := range list {
		if t.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeShape(list []*Shape, id string) []*Shape {
	for i, sh := range list {
		if sh.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
