package history

import (
	"pdf-marker/internal/annot"
)

// MaxDepth is the undo stack capacity. When a registration would exceed
// it, the oldest snapshot is evicted.
const MaxDepth = 50

// Viewer is the camera-state collaborator consumed by the engine.
type Viewer interface {
	// ViewerState returns the current camera state.
	ViewerState() ViewerState
	// SetViewerState restores a previously captured camera state.
	SetViewerState(ViewerState)
	// TotalPages returns the page count of the open document, zero if
	// no document is open.
	TotalPages() int
}

// AnswerEditor is the answer-area collaborator consumed by the engine.
type AnswerEditor interface {
	// PageTexts returns the text of every physical answer page.
	PageTexts() []string
	// SetPageTexts restores previously captured answer page texts.
	SetPageTexts([]string)
}

// Engine maintains bounded undo/redo stacks of snapshots. All calls
// must happen on the single UI thread; the restoring flag is a
// reentrancy guard so that replaying a snapshot (which makes the answer
// editor fire content-changed notifications) cannot register new
// snapshots, not a cross-thread lock.
//
// The undo stack always holds the current state on top of the history:
// once anything has been registered its size never drops below one.
type Engine struct {
	store   *annot.Store
	viewer  Viewer
	answers AnswerEditor

	undoStack []*Snapshot
	redoStack []*Snapshot

	restoring bool
}

// NewEngine creates a history engine over the given collaborators.
func NewEngine(store *annot.Store, viewer Viewer, answers AnswerEditor) *Engine {
	return &Engine{
		store:   store,
		viewer:  viewer,
		answers: answers,
	}
}

// Capture serializes the full current state into a snapshot without
// touching the stacks. Session saving uses it directly.
func (e *Engine) Capture() *Snapshot {
	texts := e.answers.PageTexts()
	pages := make([]string, len(texts))
	copy(pages, texts)

	return &Snapshot{
		Viewer:      e.viewer.ViewerState(),
		Annotations: CaptureAnnotations(e.store),
		AnswerPages: pages,
	}
}

// RegisterSnapshot captures the current state and pushes it onto the
// undo stack. It is a no-op while restoring, while no document is open,
// or when the capture equals the most recent stack entry. A successful
// push clears the redo stack and evicts the oldest entry once the stack
// exceeds MaxDepth.
func (e *Engine) RegisterSnapshot() {
	if e.restoring {
		return
	}
	if e.viewer.TotalPages() == 0 {
		return
	}

	snap := e.Capture()
	if n := len(e.undoStack); n > 0 && snap.Equal(e.undoStack[n-1]) {
		return
	}

	e.undoStack = append(e.undoStack, snap)
	if len(e.undoStack) > MaxDepth {
		// Evict the oldest entry without retaining it in the backing array.
		copy(e.undoStack, e.undoStack[1:])
		e.undoStack[len(e.undoStack)-1] = nil
		e.undoStack = e.undoStack[:len(e.undoStack)-1]
	}
	e.redoStack = e.redoStack[:0]
}

// Undo moves the current snapshot onto the redo stack and restores the
// entry below it. The restored entry stays on the undo stack as the new
// current baseline, so the stack never shrinks below one.
func (e *Engine) Undo() {
	if len(e.undoStack) <= 1 {
		return
	}

	n := len(e.undoStack)
	top := e.undoStack[n-1]
	e.undoStack[n-1] = nil
	e.undoStack = e.undoStack[:n-1]
	e.redoStack = append(e.redoStack, top)

	e.restore(e.undoStack[len(e.undoStack)-1])
}

// Redo restores the most recently undone snapshot and pushes it back
// onto the undo stack as the new current baseline.
func (e *Engine) Redo() {
	if len(e.redoStack) == 0 {
		return
	}

	n := len(e.redoStack)
	target := e.redoStack[n-1]
	e.redoStack[n-1] = nil
	e.redoStack = e.redoStack[:n-1]

	e.restore(target)
	e.undoStack = append(e.undoStack, target)
}

// Restore replays an externally loaded snapshot (session load) and
// makes it the new baseline of an otherwise empty history.
func (e *Engine) Restore(snap *Snapshot) {
	if snap == nil {
		return
	}
	e.ClearHistory()
	e.restore(snap)
	e.undoStack = append(e.undoStack, snap)
}

// ClearHistory empties both stacks. Called when a new document is
// opened.
func (e *Engine) ClearHistory() {
	e.undoStack = nil
	e.redoStack = nil
}

// CanUndo reports whether Undo would change state.
func (e *Engine) CanUndo() bool {
	return len(e.undoStack) > 1
}

// CanRedo reports whether Redo would change state.
func (e *Engine) CanRedo() bool {
	return len(e.redoStack) > 0
}

// Depth returns the current undo stack size.
func (e *Engine) Depth() int {
	return len(e.undoStack)
}

// restore replays a snapshot into the viewer, the store, and the answer
// editor. The restoring guard is held for the whole replay and released
// on every exit path, so a failing collaborator cannot leave the engine
// unresponsive to future registrations.
func (e *Engine) restore(snap *Snapshot) {
	e.restoring = true
	defer func() {
		e.restoring = false
	}()

	e.viewer.SetViewerState(snap.Viewer)
	ApplyAnnotations(snap.Annotations, e.store)
	e.answers.SetPageTexts(snap.AnswerPages)

	// Handles did not survive deserialization; any previous selection
	// degrades to none.
	e.store.ClearSelection()
}
