// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"pdf-marker/internal/annot"
	"pdf-marker/internal/history"
	"pdf-marker/internal/session"
	"pdf-marker/internal/version"
	"pdf-marker/ui/canvas"
	"pdf-marker/ui/panels"
	"pdf-marker/ui/prefs"
)

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyUIFontScale = "uiFontScale"
	prefKeySpreadMode  = "spreadMode"
)

const appTitle = "PDF Marker"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app         fyne.App
	state       *session.State
	prefs       *prefs.Prefs
	canvas      *canvas.PageCanvas
	answerPanel *panels.AnswerPanel
	statusBar   *widget.Label
}

// New creates the main window and wires the canvas and answer panel
// into the session as history collaborators.
func New(fyneApp fyne.App, state *session.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	state.UIFontScale = p.FloatWithFallback(prefKeyUIFontScale, 1.0)
	fyneApp.Settings().SetTheme(&markerTheme{fontScale: state.UIFontScale})
	if p.Bool(prefKeySpreadMode, false) {
		mw.canvas.SetSpreadMode(true)
	}

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state)
	mw.answerPanel = panels.NewAnswerPanel(mw.state)
	mw.state.AttachCollaborators(mw.canvas, mw.answerPanel)

	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updatePageStatus()
	})
	mw.canvas.OnPageChange(func(page int) {
		mw.updatePageStatus()
	})
	mw.canvas.OnEditText(mw.editText)

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	// Main layout: document canvas | answer area
	split := container.NewHSplit(
		canvasArea,
		mw.answerPanel.Container(),
	)
	split.SetOffset(0.65)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 860))
}

// createToolbar creates the toolbar with tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	selectBtn := widget.NewButton("Select", func() { mw.canvas.SetTool(canvas.ToolSelect) })
	penBtn := widget.NewButton("Pen", func() { mw.canvas.SetTool(canvas.ToolPen) })
	markerBtn := widget.NewButton("Marker", func() { mw.canvas.SetTool(canvas.ToolMarker) })
	textBtn := widget.NewButton("Text", func() { mw.canvas.SetTool(canvas.ToolText) })

	shapeSelect := widget.NewSelect([]string{"Circle", "Triangle", "Cross"}, func(s string) {
		switch s {
		case "Triangle":
			mw.canvas.SetShapeKind(annot.ShapeTriangle)
		case "Cross":
			mw.canvas.SetShapeKind(annot.ShapeCross)
		default:
			mw.canvas.SetShapeKind(annot.ShapeCircle)
		}
		mw.canvas.SetTool(canvas.ToolShape)
	})
	shapeSelect.PlaceHolder = "Shape"

	prevBtn := widget.NewButton("<", func() { mw.canvas.PrevPage() })
	nextBtn := widget.NewButton(">", func() { mw.canvas.NextPage() })

	zoomOutBtn := widget.NewButton("-", func() { mw.canvas.ZoomOut() })
	zoomInBtn := widget.NewButton("+", func() { mw.canvas.ZoomIn() })
	fitWidthBtn := widget.NewButton("Fit Width", func() { mw.canvas.SetFitMode(history.FitWidth) })
	fitPageBtn := widget.NewButton("Fit Page", func() { mw.canvas.SetFitMode(history.FitPage) })

	return container.NewHBox(
		selectBtn, penBtn, markerBtn, textBtn, shapeSelect,
		widget.NewSeparator(),
		prevBtn, nextBtn,
		widget.NewSeparator(),
		zoomOutBtn, zoomInBtn, fitWidthBtn, fitPageBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Document...", mw.onOpenDocument),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Session...", mw.onOpenSession),
		fyne.NewMenuItem("Save Session", mw.onSaveSession),
		fyne.NewMenuItem("Save Session As...", mw.onSaveSessionAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", mw.onDeleteSelected),
		fyne.NewMenuItem("Clear Page", mw.onClearPage),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.ZoomOut() }),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Fit Width", func() { mw.canvas.SetFitMode(history.FitWidth) }),
		fyne.NewMenuItem("Fit Page", func() { mw.canvas.SetFitMode(history.FitPage) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Two-Page Spread", mw.onToggleSpread),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Larger UI Font", func() { mw.adjustFontScale(0.1) }),
		fyne.NewMenuItem("Smaller UI Font", func() { mw.adjustFontScale(-0.1) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupShortcuts registers keyboard shortcuts.
func (mw *MainWindow) setupShortcuts() {
	ctrl := func(key fyne.KeyName) *desktop.CustomShortcut {
		return &desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierControl}
	}

	mw.Canvas().AddShortcut(ctrl(fyne.KeyZ), func(fyne.Shortcut) { mw.onUndo() })
	mw.Canvas().AddShortcut(ctrl(fyne.KeyY), func(fyne.Shortcut) { mw.onRedo() })
	mw.Canvas().AddShortcut(ctrl(fyne.KeyS), func(fyne.Shortcut) { mw.onSaveSession() })
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(session.EventSessionLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Session loaded: " + path)
		}
		mw.canvas.Refresh()
	})

	mw.state.On(session.EventSessionSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Session saved: " + path)
		}
	})

	mw.state.On(session.EventDocumentOpened, func(data interface{}) {
		mw.canvas.SetPage(0)
		mw.canvas.Refresh()
		mw.updatePageStatus()
	})

	mw.state.On(session.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(session.EventSelectionChanged, func(data interface{}) {
		sel, ok := data.(annot.Selected)
		if !ok || sel.Kind == annot.SelectionNone {
			mw.updatePageStatus()
			return
		}
		mw.updateStatus(fmt.Sprintf("Selected %s on page %d", selectionName(sel), sel.Page+1))
	})
}

func selectionName(sel annot.Selected) string {
	switch sel.Kind {
	case annot.SelectionStroke:
		return "stroke"
	case annot.SelectionText:
		return "text box"
	case annot.SelectionShape:
		return "shape"
	}
	return "nothing"
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// updatePageStatus shows the page position and zoom in the status bar.
func (mw *MainWindow) updatePageStatus() {
	total := mw.state.TotalPages()
	if total == 0 {
		mw.updateStatus("No document open")
		return
	}
	mw.updateStatus(fmt.Sprintf("Page %d / %d    %.0f%%",
		mw.canvas.CurrentPage()+1, total, mw.canvas.Zoom()*100))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("saving preferences: %v", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.OpenDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenSession() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveSession() {
	if mw.state.SessionPath == "" {
		mw.onSaveSessionAs()
		return
	}
	if err := mw.state.SaveSession(mw.state.SessionPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveSessionAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.SaveSession(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("session.json")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.state.History == nil || !mw.state.History.CanUndo() {
		return
	}
	mw.state.History.Undo()
	mw.state.Emit(session.EventHistoryChanged, nil)
	mw.canvas.Refresh()
}

func (mw *MainWindow) onRedo() {
	if mw.state.History == nil || !mw.state.History.CanRedo() {
		return
	}
	mw.state.History.Redo()
	mw.state.Emit(session.EventHistoryChanged, nil)
	mw.canvas.Refresh()
}

func (mw *MainWindow) onDeleteSelected() {
	if !mw.state.Store.HasSelection() {
		return
	}
	mw.canvas.DeleteSelected()
}

func (mw *MainWindow) onClearPage() {
	if mw.state.TotalPages() == 0 {
		return
	}
	page := mw.canvas.CurrentPage()
	dialog.ShowConfirm("Clear Page",
		fmt.Sprintf("Remove all annotations on page %d?", page+1),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			mw.state.Store.ClearPage(page)
			if mw.state.History != nil {
				mw.state.History.RegisterSnapshot()
			}
			mw.state.SetModified(true)
			mw.state.Emit(session.EventAnnotationsChanged, nil)
			mw.canvas.Refresh()
		}, mw.Window)
}

func (mw *MainWindow) onToggleSpread() {
	spread := !mw.canvas.SpreadMode()
	mw.canvas.SetSpreadMode(spread)
	mw.canvas.Refresh()
	mw.prefs.SetBool(prefKeySpreadMode, spread)
	if err := mw.prefs.Save(); err != nil {
		log.Printf("saving preferences: %v", err)
	}
}

// adjustFontScale changes the UI font scale by delta and persists it.
func (mw *MainWindow) adjustFontScale(delta float64) {
	scale := mw.state.UIFontScale + delta
	if scale < 0.5 {
		scale = 0.5
	}
	if scale > 2.0 {
		scale = 2.0
	}
	mw.state.UIFontScale = scale
	mw.app.Settings().SetTheme(&markerTheme{fontScale: scale})
	mw.prefs.SetFloat(prefKeyUIFontScale, scale)
	if err := mw.prefs.Save(); err != nil {
		log.Printf("saving preferences: %v", err)
	}
}

// editText opens a dialog editing a text annotation's content.
func (mw *MainWindow) editText(t *annot.Text) {
	entry := widget.NewMultiLineEntry()
	entry.Wrapping = fyne.TextWrapWord
	entry.SetText(t.Text)

	d := dialog.NewCustomConfirm("Edit Text", "OK", "Cancel", entry, func(confirmed bool) {
		if !confirmed {
			return
		}
		mw.state.Store.SetTextContent(t.ID, entry.Text)
		if mw.state.History != nil {
			mw.state.History.RegisterSnapshot()
		}
		mw.state.SetModified(true)
		mw.state.Emit(session.EventAnnotationsChanged, nil)
		mw.canvas.Refresh()
	}, mw.Window)
	d.Resize(fyne.NewSize(400, 260))
	d.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About", version.String(), mw.Window)
}

// ConfirmClose intercepts window close when there are unsaved changes.
func (mw *MainWindow) ConfirmClose() {
	mw.SetCloseIntercept(func() {
		if !mw.state.Modified {
			mw.Close()
			return
		}
		dialog.ShowConfirm("Unsaved Changes",
			"The session has unsaved changes. Close anyway?",
			func(confirmed bool) {
				if confirmed {
					mw.Close()
				}
			}, mw.Window)
	})
}
