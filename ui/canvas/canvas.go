// Package canvas provides the page canvas: document display with pan,
// zoom, and annotation tools.
package canvas

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pdf-marker/internal/annot"
	"pdf-marker/internal/history"
	"pdf-marker/internal/session"
	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	defaultPenWidth    = 2
	defaultMarkerWidth = 12
	markerAlpha        = 110

	defaultFontPoint  = 12
	defaultTextWidth  = 160
	defaultTextHeight = 40
	defaultShapeSize  = 60

	// Gap between pages in spread mode, in page coordinates.
	pageGap = 12
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPen
	ToolMarker
	ToolText
	ToolShape
)

// PageCanvas displays document pages with their annotations and handles
// all mouse interaction: pan, zoom, drawing, selection.
type PageCanvas struct {
	widget.BaseWidget

	state *session.State

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	currentPage      int
	spreadMode       bool
	fitMode          history.FitMode
	scrollHorizontal bool

	// Interaction state
	tool      Tool
	penColor  color.RGBA
	penWidth  int
	shapeKind annot.ShapeKind

	// In-progress stroke (page coordinates)
	stroking    bool
	strokePage  int
	strokePath  []annot.PathPoint
	strokeColor color.RGBA
	strokeWidth int
	strokeKind  annot.StrokeKind

	// In-progress drag of the selected annotation
	draggingSel bool
	dragLast    geometry.Point2D

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
	onPageChange func(page int)
	onEditText   func(t *annot.Text)
	onMutate     func()
}

// New creates a page canvas bound to the session state.
func New(state *session.State) *PageCanvas {
	pc := &PageCanvas{
		state:    state,
		zoom:     1.0,
		tool:     ToolSelect,
		penColor: colorutil.Red,
		penWidth: defaultPenWidth,
		imgSize:  fyne.NewSize(400, 300),
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newDraggableContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	return pc
}

// zoomScroll wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) SetOffset(pos fyne.Position) {
	zs.scroll.Offset = pos
	zs.scroll.Refresh()
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *PageCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(pc *PageCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{canvas: pc, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// contentPosition converts an event position (viewport-relative) to a
// canvas position by adding the scroll offset.
func (dc *draggableContent) contentPosition(pos fyne.Position) fyne.Position {
	offset := dc.canvas.scroll.Offset()
	return fyne.Position{X: pos.X + offset.X, Y: pos.Y + offset.Y}
}

func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	pos := dc.contentPosition(ev.Position)

	switch dc.canvas.tool {
	case ToolPen, ToolMarker:
		dc.canvas.dragStroke(pos)
	case ToolSelect:
		dc.canvas.dragSelection(pos)
	}
}

func (dc *draggableContent) DragEnd() {
	switch dc.canvas.tool {
	case ToolPen, ToolMarker:
		dc.canvas.finishStroke()
	case ToolSelect:
		dc.canvas.finishSelectionDrag()
	}
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

// Tapped handles left-click events.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	dc.canvas.tapped(dc.contentPosition(ev.Position))
}

// TappedSecondary deletes the annotation under the cursor.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	dc.canvas.deleteAt(dc.contentPosition(ev.Position))
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// Container returns the canvas container for embedding in layouts.
func (pc *PageCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// Interaction

// dragStroke extends the in-progress stroke to the given canvas position.
func (pc *PageCanvas) dragStroke(pos fyne.Position) {
	page, pt, ok := pc.canvasToPage(float64(pos.X), float64(pos.Y))
	if !ok {
		return
	}

	if !pc.stroking {
		pc.stroking = true
		pc.strokePage = page
		pc.strokePath = []annot.PathPoint{{X: pt.X, Y: pt.Y, Move: true}}
		if pc.tool == ToolMarker {
			pc.strokeKind = annot.StrokeMarker
			pc.strokeColor = colorutil.WithAlpha(pc.penColor, markerAlpha)
			pc.strokeWidth = defaultMarkerWidth
		} else {
			pc.strokeKind = annot.StrokePen
			pc.strokeColor = pc.penColor
			pc.strokeWidth = pc.penWidth
		}
		return
	}

	if page != pc.strokePage {
		// Points on the neighboring page are dropped; the stroke stays
		// on the page it started on.
		return
	}

	last := pc.strokePath[len(pc.strokePath)-1]
	if last.Pt().Distance(pt) < 1.0/pc.zoom {
		return
	}
	pc.strokePath = append(pc.strokePath, annot.PathPoint{X: pt.X, Y: pt.Y})
	pc.Refresh()
}

// finishStroke commits the in-progress stroke to the store.
func (pc *PageCanvas) finishStroke() {
	if !pc.stroking {
		return
	}
	pc.stroking = false

	if len(pc.strokePath) < 2 {
		pc.strokePath = nil
		pc.Refresh()
		return
	}

	pc.state.Store.AddStroke(pc.strokePage, pc.strokeKind, pc.strokePath, pc.strokeColor, pc.strokeWidth)
	pc.strokePath = nil
	pc.mutated()
}

// dragSelection translates the selected annotation under the cursor.
func (pc *PageCanvas) dragSelection(pos fyne.Position) {
	page, pt, ok := pc.canvasToPage(float64(pos.X), float64(pos.Y))
	if !ok {
		return
	}

	store := pc.state.Store
	if !pc.draggingSel {
		if !pc.selectionHitAt(page, pt) {
			return
		}
		pc.draggingSel = true
		pc.dragLast = pt
		return
	}

	delta := pt.Sub(pc.dragLast)
	pc.dragLast = pt

	sel := store.Selected()
	switch sel.Kind {
	case annot.SelectionStroke:
		store.TranslateStroke(sel.Page, sel.Index, delta)
	case annot.SelectionText:
		store.MoveText(sel.ID, delta)
	case annot.SelectionShape:
		store.MoveShape(sel.ID, delta)
	}
	pc.Refresh()
}

func (pc *PageCanvas) finishSelectionDrag() {
	if !pc.draggingSel {
		return
	}
	pc.draggingSel = false
	pc.mutated()
}

// selectionHitAt reports whether the current selection is under the
// given page point.
func (pc *PageCanvas) selectionHitAt(page int, pt geometry.Point2D) bool {
	store := pc.state.Store
	sel := store.Selected()
	if sel.Kind == annot.SelectionNone || sel.Page != page {
		return false
	}

	switch sel.Kind {
	case annot.SelectionStroke:
		index, ok := store.HitTestStroke(page, pt)
		return ok && index == sel.Index
	case annot.SelectionText:
		t := store.HitTestText(page, pt)
		return t != nil && t.ID == sel.ID
	case annot.SelectionShape:
		sh := store.HitTestShape(page, pt)
		return sh != nil && sh.ID == sel.ID
	}
	return false
}

// tapped dispatches a left click according to the active tool.
func (pc *PageCanvas) tapped(pos fyne.Position) {
	page, pt, ok := pc.canvasToPage(float64(pos.X), float64(pos.Y))
	if !ok {
		return
	}

	store := pc.state.Store
	switch pc.tool {
	case ToolSelect:
		pc.selectAt(page, pt)

	case ToolText:
		// Tapping an existing text box edits it instead of stacking a
		// new one on top.
		t := store.HitTestText(page, pt)
		if t == nil {
			rect := geometry.NewRect(pt.X, pt.Y, defaultTextWidth, defaultTextHeight)
			t = store.AddText(page, rect, pc.penColor, defaultFontPoint)
			pc.mutated()
		}
		store.SelectText(t.ID)
		pc.state.Emit(session.EventSelectionChanged, store.Selected())
		if pc.onEditText != nil {
			pc.onEditText(t)
		}

	case ToolShape:
		rect := geometry.NewRect(
			pt.X-defaultShapeSize/2, pt.Y-defaultShapeSize/2,
			defaultShapeSize, defaultShapeSize)
		sh := store.AddShape(page, pc.shapeKind, rect)
		store.SelectShape(sh.ID)
		pc.mutated()
		pc.state.Emit(session.EventSelectionChanged, store.Selected())
	}
}

// selectAt hit-tests the page point and updates the selection. Text
// boxes win over shapes, shapes over strokes; a miss clears the
// selection.
func (pc *PageCanvas) selectAt(page int, pt geometry.Point2D) {
	store := pc.state.Store

	if t := store.HitTestText(page, pt); t != nil {
		store.SelectText(t.ID)
	} else if sh := store.HitTestShape(page, pt); sh != nil {
		store.SelectShape(sh.ID)
	} else if index, ok := store.HitTestStroke(page, pt); ok {
		store.SelectStroke(page, index)
	} else {
		store.ClearSelection()
	}

	pc.state.Emit(session.EventSelectionChanged, store.Selected())
	pc.Refresh()
}

// deleteAt removes the topmost annotation under the given canvas
// position.
func (pc *PageCanvas) deleteAt(pos fyne.Position) {
	page, pt, ok := pc.canvasToPage(float64(pos.X), float64(pos.Y))
	if !ok {
		return
	}

	store := pc.state.Store
	if t := store.HitTestText(page, pt); t != nil {
		store.RemoveText(page, t.ID)
	} else if sh := store.HitTestShape(page, pt); sh != nil {
		store.RemoveShape(page, sh.ID)
	} else if index, hit := store.HitTestStroke(page, pt); hit {
		store.RemoveStroke(page, index)
	} else {
		return
	}
	pc.mutated()
}

// DeleteSelected removes the currently selected annotation, if any.
func (pc *PageCanvas) DeleteSelected() {
	store := pc.state.Store
	sel := store.Selected()
	switch sel.Kind {
	case annot.SelectionStroke:
		store.RemoveStroke(sel.Page, sel.Index)
	case annot.SelectionText:
		store.RemoveText(sel.Page, sel.ID)
	case annot.SelectionShape:
		store.RemoveShape(sel.Page, sel.ID)
	default:
		return
	}
	pc.mutated()
}

// mutated records an annotation mutation: snapshot, modified flag,
// events, repaint.
func (pc *PageCanvas) mutated() {
	if pc.state.History != nil {
		pc.state.History.RegisterSnapshot()
	}
	pc.state.SetModified(true)
	pc.state.Emit(session.EventAnnotationsChanged, nil)
	if pc.onMutate != nil {
		pc.onMutate()
	}
	pc.Refresh()
}

// Camera

// SetZoom sets the zoom level, clamped to the allowed range. Setting
// the zoom by hand leaves fit mode.
func (pc *PageCanvas) SetZoom(zoom float64) {
	pc.fitMode = history.FitNone
	pc.applyZoom(zoom)
}

func (pc *PageCanvas) applyZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PageCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PageCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PageCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// SetFitMode sets the fit mode and recomputes the zoom accordingly.
func (pc *PageCanvas) SetFitMode(mode history.FitMode) {
	pc.fitMode = mode
	pc.applyFit()
}

// applyFit recomputes the zoom for the current fit mode.
func (pc *PageCanvas) applyFit() {
	if pc.fitMode == history.FitNone {
		return
	}

	pw, ph := pc.spreadSize()
	if pw <= 0 || ph <= 0 {
		return
	}
	viewSize := pc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / pw
	zoomY := float64(viewSize.Height) / ph

	zoom := zoomX
	if pc.fitMode == history.FitPage && zoomY < zoomX {
		zoom = zoomY
	}
	pc.applyZoom(zoom * 0.98)
}

// SetSpreadMode switches between single-page and two-page display.
func (pc *PageCanvas) SetSpreadMode(spread bool) {
	pc.spreadMode = spread
	pc.updateContentSize()
	pc.applyFit()
}

// SpreadMode returns whether two pages are shown side by side.
func (pc *PageCanvas) SpreadMode() bool {
	return pc.spreadMode
}

// SetScrollHorizontal switches the page-advance scroll axis.
func (pc *PageCanvas) SetScrollHorizontal(horizontal bool) {
	pc.scrollHorizontal = horizontal
}

// SetPage displays the given page. Out-of-range pages are clamped.
func (pc *PageCanvas) SetPage(page int) {
	total := pc.TotalPages()
	if total == 0 {
		pc.currentPage = 0
		return
	}
	if page < 0 {
		page = 0
	}
	if page >= total {
		page = total - 1
	}
	pc.currentPage = page
	pc.updateContentSize()
	pc.applyFit()
	if pc.onPageChange != nil {
		pc.onPageChange(page)
	}
}

// CurrentPage returns the index of the displayed page.
func (pc *PageCanvas) CurrentPage() int {
	return pc.currentPage
}

// NextPage advances by one page, or two in spread mode.
func (pc *PageCanvas) NextPage() {
	step := 1
	if pc.spreadMode {
		step = 2
	}
	pc.SetPage(pc.currentPage + step)
}

// PrevPage goes back by one page, or two in spread mode.
func (pc *PageCanvas) PrevPage() {
	step := 1
	if pc.spreadMode {
		step = 2
	}
	pc.SetPage(pc.currentPage - step)
}

// SetTool sets the current interaction tool.
func (pc *PageCanvas) SetTool(tool Tool) {
	pc.tool = tool
	pc.stroking = false
	pc.strokePath = nil
}

// SetPenColor sets the color used by the pen, marker, text, and shape
// tools.
func (pc *PageCanvas) SetPenColor(c color.RGBA) {
	pc.penColor = c
}

// SetPenWidth sets the pen stroke width.
func (pc *PageCanvas) SetPenWidth(width int) {
	if width < 1 {
		width = 1
	}
	pc.penWidth = width
}

// SetShapeKind sets the shape placed by the shape tool.
func (pc *PageCanvas) SetShapeKind(kind annot.ShapeKind) {
	pc.shapeKind = kind
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PageCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnPageChange sets a callback for page changes.
func (pc *PageCanvas) OnPageChange(callback func(page int)) {
	pc.onPageChange = callback
}

// OnEditText sets a callback invoked when a text box wants editing.
func (pc *PageCanvas) OnEditText(callback func(t *annot.Text)) {
	pc.onEditText = callback
}

// OnMutate sets a callback invoked after any annotation mutation.
func (pc *PageCanvas) OnMutate(callback func()) {
	pc.onMutate = callback
}

// Viewer interface for the history engine.

// ViewerState captures the camera for snapshots.
func (pc *PageCanvas) ViewerState() history.ViewerState {
	offset := pc.scroll.Offset()
	return history.ViewerState{
		CurrentPage:      pc.currentPage,
		Zoom:             pc.zoom,
		SpreadMode:       pc.spreadMode,
		FitMode:          pc.fitMode,
		ScrollHorizontal: pc.scrollHorizontal,
		ScrollH:          float64(offset.X),
		ScrollV:          float64(offset.Y),
	}
}

// SetViewerState restores a captured camera.
func (pc *PageCanvas) SetViewerState(vs history.ViewerState) {
	pc.currentPage = vs.CurrentPage
	pc.spreadMode = vs.SpreadMode
	pc.fitMode = vs.FitMode
	pc.scrollHorizontal = vs.ScrollHorizontal
	pc.applyZoom(vs.Zoom)
	pc.scroll.SetOffset(fyne.Position{X: float32(vs.ScrollH), Y: float32(vs.ScrollV)})
	if pc.onPageChange != nil {
		pc.onPageChange(pc.currentPage)
	}
	pc.Refresh()
}

// TotalPages returns the page count of the open document.
func (pc *PageCanvas) TotalPages() int {
	return pc.state.TotalPages()
}

// Refresh repaints the canvas.
func (pc *PageCanvas) Refresh() {
	pc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pageCanvasRenderer{canvas: pc}
}

type pageCanvasRenderer struct {
	canvas *PageCanvas
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *pageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *pageCanvasRenderer) Destroy() {}
