// Package session provides session lifecycle management, events, and
// persistence for the document marker.
package session

import (
	"encoding/json"
	"sync"

	"pdf-marker/internal/annot"
	"pdf-marker/internal/history"
	"pdf-marker/internal/page"
)

// AnswerPageCount is the fixed number of physical pages in one answer
// area.
const AnswerPageCount = 8

// EventType identifies different session events.
type EventType int

const (
	EventSessionLoaded EventType = iota
	EventSessionSaved
	EventDocumentOpened
	EventAnnotationsChanged
	EventSelectionChanged
	EventHistoryChanged
	EventAnswersChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// AnswerState is the text of one answer area: a fixed number of
// physical pages plus the page currently shown in its editor.
type AnswerState struct {
	PageTexts   []string `json:"page_texts"`
	CurrentPage int      `json:"current_page"`
}

// NewAnswerState returns an empty answer area.
func NewAnswerState() AnswerState {
	return AnswerState{PageTexts: make([]string, AnswerPageCount)}
}

// State holds the session state: the open document, its annotations,
// the undo history, the answer areas, and the pass-through metadata
// persisted with the session file.
type State struct {
	mu sync.RWMutex

	// Session file
	SessionPath string
	Modified    bool

	// Open document (nil when none)
	Document *page.Document

	// Annotations and history
	Store   *annot.Store
	History *history.Engine

	// Answer areas, one per question
	Answers []AnswerState

	// Pass-through metadata owned by the UI layer
	RemainingTime int
	TimerPaused   bool
	InputMode     string
	LawBookmarks  []json.RawMessage
	UIFontScale   float64

	listeners map[EventType][]EventListener
}

// NewState creates a new session state with one empty answer area.
func NewState() *State {
	return &State{
		Store:       annot.NewStore(),
		Answers:     []AnswerState{NewAnswerState()},
		UIFontScale: 1.0,
		listeners:   make(map[EventType][]EventListener),
	}
}

// AttachCollaborators wires the viewer and answer-editor collaborators
// into a history engine. The UI calls this once its widgets exist.
func (s *State) AttachCollaborators(viewer history.Viewer, answers history.AnswerEditor) {
	s.mu.Lock()
	s.History = history.NewEngine(s.Store, viewer, answers)
	s.mu.Unlock()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// OpenDocument opens a document for review. Annotations and history
// from any previously open document are discarded.
func (s *State) OpenDocument(path string) error {
	doc, err := page.LoadDocument(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Document = doc
	s.mu.Unlock()

	s.Store.ClearAll()
	if s.History != nil {
		s.History.ClearHistory()
	}

	s.SetModified(true)
	s.Emit(EventDocumentOpened, doc)
	return nil
}

// TotalPages returns the page count of the open document, zero if no
// document is open.
func (s *State) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Document == nil {
		return 0
	}
	return len(s.Document.Pages)
}
