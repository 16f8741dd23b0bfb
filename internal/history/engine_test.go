package history

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdf-marker/internal/annot"
	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

type fakeViewer struct {
	state ViewerState
	pages int
}

func (f *fakeViewer) ViewerState() ViewerState     { return f.state }
func (f *fakeViewer) SetViewerState(s ViewerState) { f.state = s }
func (f *fakeViewer) TotalPages() int              { return f.pages }

// fakeAnswers mimics the real answer editor: replaying text fires a
// content-changed notification that re-enters the engine.
type fakeAnswers struct {
	texts  []string
	engine *Engine
}

func (f *fakeAnswers) PageTexts() []string { return f.texts }

func (f *fakeAnswers) SetPageTexts(texts []string) {
	f.texts = texts
	if f.engine != nil {
		f.engine.RegisterSnapshot()
	}
}

func newTestEngine(pages int) (*Engine, *annot.Store, *fakeViewer, *fakeAnswers) {
	store := annot.NewStore()
	viewer := &fakeViewer{pages: pages, state: ViewerState{Zoom: 1}}
	answers := &fakeAnswers{texts: make([]string, 2)}
	engine := NewEngine(store, viewer, answers)
	answers.engine = engine
	return engine, store, viewer, answers
}

func penStroke(store *annot.Store, page int, x float64) {
	store.AddStroke(page, annot.StrokePen, []annot.PathPoint{
		{X: x, Y: 0, Move: true},
		{X: x + 10, Y: 10},
	}, colorutil.Black, 2)
}

func TestRegisterWithoutDocument(t *testing.T) {
	engine, _, _, _ := newTestEngine(0)

	engine.RegisterSnapshot()
	if engine.Depth() != 0 {
		t.Error("registering with no open document must be a no-op")
	}
}

func TestDedupIdempotence(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	penStroke(store, 0, 0)
	engine.RegisterSnapshot()
	engine.RegisterSnapshot()

	if engine.Depth() != 1 {
		t.Errorf("two registrations without a mutation left %d entries, want 1", engine.Depth())
	}
}

func TestUndoFloor(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	penStroke(store, 0, 0)
	engine.RegisterSnapshot()

	engine.Undo()
	if engine.Depth() != 1 {
		t.Error("undo with a single entry must be a no-op")
	}
	if len(store.Strokes(0)) != 1 {
		t.Error("state must be untouched by a no-op undo")
	}
}

func TestUndoRedoScenario(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	store.AddStroke(0, annot.StrokePen, []annot.PathPoint{
		{X: 0, Y: 0, Move: true},
		{X: 10, Y: 10},
	}, colorutil.Black, 2)
	engine.RegisterSnapshot()

	store.AddStroke(0, annot.StrokeMarker, []annot.PathPoint{
		{X: 0, Y: 20, Move: true},
		{X: 30, Y: 20},
	}, colorutil.Yellow, 12)
	engine.RegisterSnapshot()

	engine.Undo()
	strokes := store.Strokes(0)
	if len(strokes) != 1 || strokes[0].Kind != annot.StrokePen {
		t.Fatalf("after undo page 0 must contain only the pen stroke, got %d", len(strokes))
	}

	engine.Redo()
	strokes = store.Strokes(0)
	if len(strokes) != 2 || strokes[0].Kind != annot.StrokePen || strokes[1].Kind != annot.StrokeMarker {
		t.Fatal("after redo both strokes must be present in original order")
	}
}

func TestUndoReplay(t *testing.T) {
	engine, store, _, answers := newTestEngine(3)

	// A sequence of distinct mutations, snapshot after each.
	var wantCounts []int
	for i := 0; i < 8; i++ {
		penStroke(store, 0, float64(i*20))
		answers.texts[0] = fmt.Sprintf("draft %d", i)
		engine.RegisterSnapshot()
		wantCounts = append(wantCounts, i+1)
	}

	// After K undos the observable state equals the state before the K
	// most recent mutations.
	for k := 1; k < 8; k++ {
		engine.Undo()
		want := wantCounts[len(wantCounts)-1-k]
		if got := len(store.Strokes(0)); got != want {
			t.Fatalf("after %d undos got %d strokes, want %d", k, got, want)
		}
		if want := fmt.Sprintf("draft %d", want-1); answers.texts[0] != want {
			t.Fatalf("after %d undos answer text = %q, want %q", k, answers.texts[0], want)
		}
	}
}

func TestRedoClearedByNewRegistration(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	penStroke(store, 0, 0)
	engine.RegisterSnapshot()
	penStroke(store, 0, 20)
	engine.RegisterSnapshot()

	engine.Undo()
	if !engine.CanRedo() {
		t.Fatal("redo must be available after undo")
	}

	penStroke(store, 0, 40)
	engine.RegisterSnapshot()
	if engine.CanRedo() {
		t.Error("a new registration must clear the redo stack")
	}
}

func TestEviction(t *testing.T) {
	engine, _, viewer, _ := newTestEngine(3)

	// 60 distinct snapshots: only the camera changes.
	for i := 0; i < 60; i++ {
		viewer.state.CurrentPage = i
		engine.RegisterSnapshot()
	}

	if engine.Depth() != MaxDepth {
		t.Fatalf("depth = %d, want %d", engine.Depth(), MaxDepth)
	}

	// Undo to the bottom of the stack: the oldest surviving snapshot is
	// number 10, ordering preserved.
	for engine.CanUndo() {
		engine.Undo()
	}
	if viewer.state.CurrentPage != 10 {
		t.Errorf("oldest surviving snapshot shows page %d, want 10", viewer.state.CurrentPage)
	}
}

func TestRestoreReentrancyGuard(t *testing.T) {
	engine, store, _, answers := newTestEngine(3)

	penStroke(store, 0, 0)
	answers.texts[0] = "one"
	engine.RegisterSnapshot()
	answers.texts[0] = "two"
	engine.RegisterSnapshot()

	depth := engine.Depth()
	engine.Undo()

	// fakeAnswers.SetPageTexts re-entered RegisterSnapshot during the
	// restore; the guard must have swallowed it.
	if engine.Depth() != depth-1 {
		t.Errorf("depth = %d after undo, want %d", engine.Depth(), depth-1)
	}
	if answers.texts[0] != "one" {
		t.Errorf("answer text = %q, want %q", answers.texts[0], "one")
	}

	// The guard is released again: a real registration works.
	penStroke(store, 0, 99)
	engine.RegisterSnapshot()
	if engine.Depth() != depth {
		t.Error("engine must accept registrations after a restore")
	}
}

func TestRestoreClearsSelection(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	penStroke(store, 0, 0)
	engine.RegisterSnapshot()

	txt := store.AddText(0, geometry.NewRect(0, 0, 10, 10), colorutil.Black, 12)
	engine.RegisterSnapshot()
	store.SelectText(txt.ID)

	engine.Undo()
	if store.HasSelection() {
		t.Error("restore must clear the selection")
	}
}

func TestDeletionSafety(t *testing.T) {
	engine, store, _, _ := newTestEngine(3)

	sh := store.AddShape(0, annot.ShapeCircle, geometry.NewRect(0, 0, 10, 10))
	engine.RegisterSnapshot()

	store.SelectShape(sh.ID)
	store.RemoveShape(0, sh.ID)

	if store.Selected().Kind != annot.SelectionNone {
		t.Fatal("selection must be cleared with the deleted shape")
	}

	// Registration after the delete must not reference the dead handle.
	engine.RegisterSnapshot()
	if engine.Depth() != 2 {
		t.Errorf("depth = %d, want 2", engine.Depth())
	}
}

func TestRestoreBaseline(t *testing.T) {
	engine, store, viewer, answers := newTestEngine(3)

	snap := &Snapshot{
		Viewer: ViewerState{CurrentPage: 1, Zoom: 2},
		Annotations: map[int]PageAnnotations{
			0: {Shapes: []ShapeData{{Kind: int(annot.ShapeCross), X: 1, Y: 2, Width: 3, Height: 4}}},
		},
		AnswerPages: []string{"restored", ""},
	}
	engine.Restore(snap)

	if engine.Depth() != 1 || engine.CanUndo() || engine.CanRedo() {
		t.Error("restored snapshot must be the only baseline entry")
	}
	if viewer.state.CurrentPage != 1 || viewer.state.Zoom != 2 {
		t.Error("viewer state not restored")
	}
	if answers.texts[0] != "restored" {
		t.Error("answer text not restored")
	}
	if diff := cmp.Diff(snap.Annotations, CaptureAnnotations(store)); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
}
