// Package canvas provides page layout and raster rendering.
package canvas

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	xdraw "golang.org/x/image/draw"

	"pdf-marker/internal/annot"
	"pdf-marker/pkg/colorutil"
	"pdf-marker/pkg/geometry"
)

// pageSlot places one page on the canvas. The rectangle is in canvas
// pixels at the current zoom.
type pageSlot struct {
	page int
	rect image.Rectangle
}

// layoutPages returns the displayed pages and their canvas rectangles.
// In spread mode the next page sits to the right of the current one.
func (pc *PageCanvas) layoutPages() []pageSlot {
	doc := pc.state.Document
	if doc == nil {
		return nil
	}

	slots := make([]pageSlot, 0, 2)
	x := 0.0
	count := 1
	if pc.spreadMode {
		count = 2
	}
	for i := 0; i < count; i++ {
		p := doc.Page(pc.currentPage + i)
		if p == nil {
			break
		}
		w, h := p.Size()
		slots = append(slots, pageSlot{
			page: pc.currentPage + i,
			rect: image.Rect(
				int(x*pc.zoom), 0,
				int((x+float64(w))*pc.zoom), int(float64(h)*pc.zoom)),
		})
		x += float64(w) + pageGap
	}
	return slots
}

// spreadSize returns the unzoomed extent of the displayed pages.
func (pc *PageCanvas) spreadSize() (w, h float64) {
	doc := pc.state.Document
	if doc == nil {
		return 0, 0
	}
	count := 1
	if pc.spreadMode {
		count = 2
	}
	for i := 0; i < count; i++ {
		p := doc.Page(pc.currentPage + i)
		if p == nil {
			break
		}
		pw, ph := p.Size()
		if i > 0 {
			w += pageGap
		}
		w += float64(pw)
		if float64(ph) > h {
			h = float64(ph)
		}
	}
	return w, h
}

// canvasToPage converts a canvas position to a page index and a point
// in that page's coordinates. ok is false outside every page.
func (pc *PageCanvas) canvasToPage(x, y float64) (page int, pt geometry.Point2D, ok bool) {
	for _, slot := range pc.layoutPages() {
		if int(x) >= slot.rect.Min.X && int(x) < slot.rect.Max.X &&
			int(y) >= slot.rect.Min.Y && int(y) < slot.rect.Max.Y {
			return slot.page, geometry.Point2D{
				X: (x - float64(slot.rect.Min.X)) / pc.zoom,
				Y: (y - float64(slot.rect.Min.Y)) / pc.zoom,
			}, true
		}
	}
	return 0, geometry.Point2D{}, false
}

// updateContentSize updates the raster size from the page layout and
// zoom.
func (pc *PageCanvas) updateContentSize() {
	w, h := pc.spreadSize()
	if w == 0 || h == 0 {
		pc.imgSize = fyne.NewSize(400, 300)
	} else {
		pc.imgSize = fyne.NewSize(float32(w*pc.zoom), float32(h*pc.zoom))
	}

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Neutral gray backdrop around the pages
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 0x60
		output.Pix[i+1] = 0x60
		output.Pix[i+2] = 0x60
		output.Pix[i+3] = 0xff
	}

	doc := pc.state.Document
	if doc == nil {
		return output
	}

	for _, slot := range pc.layoutPages() {
		p := doc.Page(slot.page)
		if p == nil || p.Image == nil {
			continue
		}
		xdraw.ApproxBiLinear.Scale(output, slot.rect, p.Image, p.Image.Bounds(), xdraw.Src, nil)
		pc.drawAnnotations(output, slot)
	}

	// In-progress stroke preview on its own page
	if pc.stroking && len(pc.strokePath) > 1 {
		for _, slot := range pc.layoutPages() {
			if slot.page == pc.strokePage {
				pc.drawStrokePath(output, slot, pc.strokePath, pc.strokeColor, pc.strokeWidth)
				break
			}
		}
	}

	return output
}

// drawAnnotations renders every annotation of one page slot.
func (pc *PageCanvas) drawAnnotations(output *image.RGBA, slot pageSlot) {
	store := pc.state.Store

	for index, stroke := range store.Strokes(slot.page) {
		pc.drawStrokePath(output, slot, stroke.Path, stroke.Color, stroke.Width)
		if store.IsStrokeSelected(slot.page, index) {
			pc.drawSelectionHalo(output, slot, stroke.Bounds().Expand(float64(stroke.Width)/2+2))
		}
	}

	for _, sh := range store.Shapes(slot.page) {
		pc.drawShape(output, slot, sh)
		if store.IsShapeSelected(sh.ID) {
			pc.drawSelectionHalo(output, slot, sh.Rect.Expand(3))
		}
	}

	for _, t := range store.Texts(slot.page) {
		pc.drawTextBox(output, slot, t)
		if store.IsTextSelected(t.ID) {
			pc.drawSelectionHalo(output, slot, t.Rect.Expand(3))
		}
	}
}

// toCanvas converts a page point to canvas pixels within a slot.
func (pc *PageCanvas) toCanvas(slot pageSlot, p geometry.Point2D) (x, y int) {
	return slot.rect.Min.X + int(p.X*pc.zoom), slot.rect.Min.Y + int(p.Y*pc.zoom)
}

// drawStrokePath renders one polyline with round caps. A translucent
// color alpha-blends with the page underneath.
func (pc *PageCanvas) drawStrokePath(output *image.RGBA, slot pageSlot, path []annot.PathPoint, col color.RGBA, width int) {
	radius := int(float64(width) * pc.zoom / 2)
	if radius < 1 {
		radius = 1
	}

	var prevX, prevY int
	havePrev := false
	for i, p := range path {
		x, y := pc.toCanvas(slot, p.Pt())
		if i == 0 || p.Move {
			pc.stampDot(output, x, y, radius, col)
			prevX, prevY = x, y
			havePrev = true
			continue
		}
		if havePrev {
			pc.stampLine(output, prevX, prevY, x, y, radius, col)
		}
		prevX, prevY = x, y
		havePrev = true
	}
}

// stampLine walks a line with Bresenham steps and stamps a round dot at
// each step.
func (pc *PageCanvas) stampLine(output *image.RGBA, x1, y1, x2, y2, radius int, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		pc.stampDot(output, x1, y1, radius, col)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// stampDot draws a filled circle, blending translucent colors.
func (pc *PageCanvas) stampDot(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			px, py := cx+dx, cy+dy
			if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
				continue
			}
			blendPixel(output, px, py, col)
		}
	}
}

// blendPixel writes a color, alpha-blending when it is translucent.
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	if col.A >= 0xff {
		output.SetRGBA(x, y, col)
		return
	}
	existing := output.RGBAAt(x, y)
	alpha := float64(col.A) / 255
	inv := 1 - alpha
	output.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*alpha + float64(existing.R)*inv),
		G: uint8(float64(col.G)*alpha + float64(existing.G)*inv),
		B: uint8(float64(col.B)*alpha + float64(existing.B)*inv),
		A: 255,
	})
}

// drawShape renders a shape annotation as an outline.
func (pc *PageCanvas) drawShape(output *image.RGBA, slot pageSlot, sh *annot.Shape) {
	col := colorutil.Red
	x1, y1 := pc.toCanvas(slot, geometry.Point2D{X: sh.Rect.X, Y: sh.Rect.Y})
	x2, y2 := pc.toCanvas(slot, geometry.Point2D{X: sh.Rect.X + sh.Rect.Width, Y: sh.Rect.Y + sh.Rect.Height})

	switch sh.Kind {
	case annot.ShapeCircle:
		pc.drawEllipseOutline(output, x1, y1, x2, y2, col)

	case annot.ShapeTriangle:
		topX := (x1 + x2) / 2
		pc.drawLine(output, topX, y1, x1, y2, col, 2)
		pc.drawLine(output, x1, y2, x2, y2, col, 2)
		pc.drawLine(output, x2, y2, topX, y1, col, 2)

	case annot.ShapeCross:
		pc.drawLine(output, x1, y1, x2, y2, col, 2)
		pc.drawLine(output, x1, y2, x2, y1, col, 2)
	}
}

// drawEllipseOutline draws a 2 pixel ellipse ring inside the given box.
func (pc *PageCanvas) drawEllipseOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	cx := float64(x1+x2) / 2
	cy := float64(y1+y2) / 2
	rx := float64(x2-x1) / 2
	ry := float64(y2-y1) / 2
	if rx < 1 || ry < 1 {
		return
	}

	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			// Normalized radial distance; the ring is where it crosses 1.
			nx := (float64(x) - cx) / rx
			ny := (float64(y) - cy) / ry
			d := nx*nx + ny*ny
			inx := (float64(x) - cx) / (rx - 2)
			iny := (float64(y) - cy) / (ry - 2)
			if d <= 1 && (rx <= 2 || ry <= 2 || inx*inx+iny*iny >= 1) {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func (pc *PageCanvas) drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					blendPixel(output, px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawTextBox renders a text annotation: a light box outline plus its
// content in the bitmap glyph font.
func (pc *PageCanvas) drawTextBox(output *image.RGBA, slot pageSlot, t *annot.Text) {
	x1, y1 := pc.toCanvas(slot, geometry.Point2D{X: t.Rect.X, Y: t.Rect.Y})
	x2, y2 := pc.toCanvas(slot, geometry.Point2D{X: t.Rect.X + t.Rect.Width, Y: t.Rect.Y + t.Rect.Height})

	border := colorutil.WithAlpha(t.Color, 90)
	pc.drawLine(output, x1, y1, x2, y1, border, 1)
	pc.drawLine(output, x1, y2, x2, y2, border, 1)
	pc.drawLine(output, x1, y1, x1, y2, border, 1)
	pc.drawLine(output, x2, y1, x2, y2, border, 1)

	if t.Text == "" {
		return
	}

	// Glyph scale tracks the font size: one font pixel per 3 points.
	scale := int(float64(t.FontPoint) / 3 * pc.zoom)
	if scale < 1 {
		scale = 1
	}
	if scale > 8 {
		scale = 8
	}
	drawGlyphString(output, t.Text, x1+scale*2, y1+scale*2, t.Color, scale, x2)
}

// drawSelectionHalo draws a dashed rectangle around the given page-space
// bounds in the selection accent color.
func (pc *PageCanvas) drawSelectionHalo(output *image.RGBA, slot pageSlot, r geometry.Rect) {
	col := colorutil.Highlight
	x1, y1 := pc.toCanvas(slot, geometry.Point2D{X: r.X, Y: r.Y})
	x2, y2 := pc.toCanvas(slot, geometry.Point2D{X: r.X + r.Width, Y: r.Y + r.Height})

	bounds := output.Bounds()

	// Dashed outline: alternate pixel runs
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.SetRGBA(x, y1, col)
		}
		if (x+y2)%4 < 2 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.SetRGBA(x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x1, y, col)
		}
		if (x2+y)%4 < 2 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x2, y, col)
		}
	}
}
