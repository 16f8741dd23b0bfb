// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pdf-marker/internal/session"
)

// AnswerPanel is the answer-writing area: a fixed set of physical pages
// edited one at a time. It is the history engine's answer collaborator,
// so its full text participates in undo and redo.
type AnswerPanel struct {
	state *session.State

	entry     *widget.Entry
	pageLabel *widget.Label
	container *fyne.Container

	texts       []string
	currentPage int

	// Set while SetPageTexts rewrites the entry so OnChanged does not
	// feed the programmatic change back into the session.
	applying bool
}

// NewAnswerPanel creates the answer panel with empty pages.
func NewAnswerPanel(state *session.State) *AnswerPanel {
	ap := &AnswerPanel{
		state: state,
		texts: make([]string, session.AnswerPageCount),
	}

	ap.entry = widget.NewMultiLineEntry()
	ap.entry.Wrapping = fyne.TextWrapWord
	ap.entry.SetPlaceHolder("Write your answer here")
	ap.entry.OnChanged = ap.entryChanged

	ap.pageLabel = widget.NewLabel("")

	prev := widget.NewButton("<", func() { ap.SetPage(ap.currentPage - 1) })
	next := widget.NewButton(">", func() { ap.SetPage(ap.currentPage + 1) })
	nav := container.NewHBox(prev, ap.pageLabel, next)

	ap.container = container.NewBorder(nav, nil, nil, nil, ap.entry)
	ap.updatePageLabel()
	ap.entry.SetText(ap.texts[0])

	return ap
}

// Container returns the panel container.
func (ap *AnswerPanel) Container() fyne.CanvasObject {
	return ap.container
}

// SetPage switches the edited page. Out-of-range pages are clamped.
func (ap *AnswerPanel) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	if page >= session.AnswerPageCount {
		page = session.AnswerPageCount - 1
	}
	if page == ap.currentPage {
		return
	}
	ap.currentPage = page

	ap.applying = true
	ap.entry.SetText(ap.texts[page])
	ap.applying = false
	ap.updatePageLabel()
}

// CurrentPage returns the index of the edited page.
func (ap *AnswerPanel) CurrentPage() int {
	return ap.currentPage
}

func (ap *AnswerPanel) updatePageLabel() {
	ap.pageLabel.SetText(fmt.Sprintf("Page %d / %d", ap.currentPage+1, session.AnswerPageCount))
}

// entryChanged handles user edits to the visible page.
func (ap *AnswerPanel) entryChanged(text string) {
	if ap.applying {
		return
	}
	ap.texts[ap.currentPage] = text

	if len(ap.state.Answers) > 0 {
		ap.state.Answers[0].PageTexts = ap.PageTexts()
		ap.state.Answers[0].CurrentPage = ap.currentPage
	}
	if ap.state.History != nil {
		ap.state.History.RegisterSnapshot()
	}
	ap.state.SetModified(true)
	ap.state.Emit(session.EventAnswersChanged, ap.currentPage)
}

// AnswerEditor interface for the history engine.

// PageTexts returns a copy of all page texts.
func (ap *AnswerPanel) PageTexts() []string {
	texts := make([]string, len(ap.texts))
	copy(texts, ap.texts)
	return texts
}

// SetPageTexts replaces all page texts and refreshes the visible page.
func (ap *AnswerPanel) SetPageTexts(texts []string) {
	for i := range ap.texts {
		if i < len(texts) {
			ap.texts[i] = texts[i]
		} else {
			ap.texts[i] = ""
		}
	}

	ap.applying = true
	ap.entry.SetText(ap.texts[ap.currentPage])
	ap.applying = false

	if len(ap.state.Answers) > 0 {
		ap.state.Answers[0].PageTexts = ap.PageTexts()
	}
}
