package session

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pdf-marker/internal/history"
)

// FileVersion is written into every saved session file. Loading reads
// the stored version but does not validate it.
const FileVersion = 1

// File represents the JSON structure of a saved session.
type File struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`

	RemainingTime int    `json:"remaining_time"`
	TimerPaused   bool   `json:"timer_paused"`
	InputMode     string `json:"input_mode"`

	Answers []AnswerState `json:"answers"`

	// LawBookmarks and UIFontScale are opaque pass-through fields owned
	// by the UI layer.
	LawBookmarks []json.RawMessage `json:"law_bookmarks"`
	UIFontScale  float64           `json:"ui_font_scale"`

	PDF *DocumentState `json:"pdf"`
}

// DocumentState ties the reviewed document to the snapshot of its
// annotations and viewer camera.
type DocumentState struct {
	Path  string            `json:"path"`
	State *history.Snapshot `json:"state"`
}

// SaveSession writes the full session to the specified path. On any
// failure the error is returned and the in-memory state is untouched.
func (s *State) SaveSession(path string) error {
	s.mu.RLock()
	file := File{
		Version:       FileVersion,
		SavedAt:       time.Now(),
		RemainingTime: s.RemainingTime,
		TimerPaused:   s.TimerPaused,
		InputMode:     s.InputMode,
		Answers:       s.Answers,
		LawBookmarks:  s.LawBookmarks,
		UIFontScale:   s.UIFontScale,
	}
	if s.Document != nil && s.History != nil {
		file.PDF = &DocumentState{
			Path:  s.Document.Path,
			State: s.History.Capture(),
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionSaved, path)
	return nil
}

// LoadSession loads a session from the specified path, replacing the
// current session. If the session references a document, the document
// and its saved snapshot are restored as the new history baseline.
func (s *State) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}

	s.mu.Lock()
	s.SessionPath = path
	s.Modified = false
	s.RemainingTime = file.RemainingTime
	s.TimerPaused = file.TimerPaused
	s.InputMode = file.InputMode
	s.LawBookmarks = file.LawBookmarks
	s.UIFontScale = file.UIFontScale
	if s.UIFontScale <= 0 {
		s.UIFontScale = 1.0
	}
	s.Answers = file.Answers
	if len(s.Answers) == 0 {
		s.Answers = []AnswerState{NewAnswerState()}
	}
	for i := range s.Answers {
		for len(s.Answers[i].PageTexts) < AnswerPageCount {
			s.Answers[i].PageTexts = append(s.Answers[i].PageTexts, "")
		}
	}
	s.mu.Unlock()

	if file.PDF != nil && file.PDF.Path != "" {
		if err := s.OpenDocument(file.PDF.Path); err != nil {
			return err
		}
		if s.History != nil && file.PDF.State != nil {
			s.History.Restore(file.PDF.State)
		}
	}

	s.mu.Lock()
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventSessionLoaded, path)
	return nil
}
