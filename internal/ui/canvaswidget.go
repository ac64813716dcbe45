package ui

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/interaction"
	"GenCanvas/internal/raster"
	"GenCanvas/internal/scene"
)

// CanvasWidget is the drawable surface. It owns no scene data; every pointer
// event is forwarded to the interaction engine and the renderer repaints from
// the store.
type CanvasWidget struct {
	widget.BaseWidget

	store  *scene.Store
	engine *interaction.Engine

	// last modifiers seen on a mouse event; fyne drag events carry none.
	mods interaction.Modifiers

	statusBar *widget.Label

	zoomAnim *fyne.Animation
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ fyne.DoubleTappable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)

// NewCanvasWidget wires the widget to its store and engine.
func NewCanvasWidget(store *scene.Store, engine *interaction.Engine) *CanvasWidget {
	w := &CanvasWidget{
		store:     store,
		engine:    engine,
		statusBar: widget.NewLabel("Ready"),
	}
	w.ExtendBaseWidget(w)
	store.OnChange = func() {
		fyne.Do(w.Refresh)
	}
	return w
}

// StatusBar returns the label the engine reports inline messages to.
func (w *CanvasWidget) StatusBar() *widget.Label { return w.statusBar }

// SetStatus updates the status line from any goroutine.
func (w *CanvasWidget) SetStatus(text string) {
	fyne.Do(func() {
		w.statusBar.SetText(text)
	})
}

func modifiersOf(m fyne.KeyModifier) interaction.Modifiers {
	return interaction.Modifiers{
		Shift: m&fyne.KeyModifierShift != 0,
		Ctrl:  m&fyne.KeyModifierControl != 0 || m&fyne.KeyModifierSuper != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
	}
}

func (w *CanvasWidget) pointerEvent(pos fyne.Position) interaction.PointerEvent {
	return interaction.PointerEvent{
		Screen: geom.Pt(pos.X, pos.Y),
		Mods:   w.mods,
	}
}

func (w *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.mods = modifiersOf(e.Modifier)
	w.engine.PointerDown(w.pointerEvent(e.Position))
	w.Refresh()
}

func (w *CanvasWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.engine.PointerUp(w.pointerEvent(e.Position))
	w.Refresh()
}

func (w *CanvasWidget) Dragged(e *fyne.DragEvent) {
	w.engine.PointerMove(w.pointerEvent(e.Position))
	w.Refresh()
}

func (w *CanvasWidget) DragEnd() {}

func (w *CanvasWidget) DoubleTapped(e *fyne.PointEvent) {
	w.engine.DoubleTap(w.pointerEvent(e.Position))
}

// Scrolled zooms about the cursor so the canvas point under it stays put.
func (w *CanvasWidget) Scrolled(e *fyne.ScrollEvent) {
	b := w.store.Active()
	factor := float32(1.1)
	if e.Scrolled.DY < 0 {
		factor = 1 / factor
	}
	newZoom := b.Zoom * factor
	if newZoom < 0.1 {
		newZoom = 0.1
	}
	if newZoom > 8 {
		newZoom = 8
	}
	anchor := geom.ScreenToCanvas(geom.Pt(e.Position.X, e.Position.Y), b.PanX, b.PanY, b.Zoom)
	w.store.SetZoom(newZoom)
	w.store.SetPan(
		e.Position.X-anchor.X*newZoom,
		e.Position.Y-anchor.Y*newZoom,
	)
}

func (w *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &canvasRenderer{w: w, images: make(map[string]image.Image)}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type canvasRenderer struct {
	w          *CanvasWidget
	background *canvas.Rectangle
	size       fyne.Size

	// decoded pixels keyed by href; rebuilt lazily, dropped when the href
	// changes (destructive crop, AI replacement).
	images map[string]image.Image
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *canvasRenderer) Refresh() { canvas.Refresh(r.w) }

func (r *canvasRenderer) Destroy() {}

func (r *canvasRenderer) toScreen(p geom.Point) fyne.Position {
	b := r.w.store.Active()
	s := geom.CanvasToScreen(p, b.PanX, b.PanY, b.Zoom)
	return fyne.NewPos(s.X, s.Y)
}

// Objects rebuilds the paint list from the active board on every refresh, in
// the board's z-order, with selection and overlay chrome on top.
func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	board := r.w.store.Active()
	zoom := board.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if board.Background != "" {
		r.background.FillColor = parseColor(board.Background, color.White)
	} else {
		r.background.FillColor = color.White
	}

	objects := []fyne.CanvasObject{r.background}
	byId := scene.IndexById(board.Elements)
	for _, e := range board.Elements {
		if scene.IsHidden(e, byId) {
			continue
		}
		objects = append(objects, r.renderElement(e, zoom)...)
	}

	objects = append(objects, r.selectionOverlay(board, zoom)...)
	objects = append(objects, r.cropOverlay(zoom)...)
	return objects
}

func (r *canvasRenderer) renderElement(e *scene.Element, zoom float32) []fyne.CanvasObject {
	switch e.Kind {
	case scene.KindPath, scene.KindArrow, scene.KindLine:
		return r.renderStroke(e, zoom)
	case scene.KindShape:
		return r.renderShape(e, zoom)
	case scene.KindText:
		return r.renderText(e, zoom)
	case scene.KindImage, scene.KindVideo:
		return r.renderImage(e, zoom)
	case scene.KindFrame:
		return r.renderFrame(e, zoom)
	case scene.KindGroup:
		return nil // groups have no visual content of their own
	}
	return nil
}

func (r *canvasRenderer) renderStroke(e *scene.Element, zoom float32) []fyne.CanvasObject {
	if len(e.Points) < 2 {
		return nil
	}
	col := parseColor(e.Stroke, color.Black)
	if e.Opacity > 0 && e.Opacity < 1 {
		col = withAlpha(col, e.Opacity)
	}
	segs := make([]fyne.CanvasObject, 0, len(e.Points)-1)
	for i := 0; i < len(e.Points)-1; i++ {
		seg := canvas.NewLine(col)
		seg.StrokeWidth = e.StrokeWidth * zoom
		seg.Position1 = r.toScreen(e.Points[i])
		seg.Position2 = r.toScreen(e.Points[i+1])
		segs = append(segs, seg)
	}
	if e.Kind == scene.KindArrow {
		segs = append(segs, r.arrowHead(e, col, zoom)...)
	}
	return segs
}

func (r *canvasRenderer) arrowHead(e *scene.Element, col color.Color, zoom float32) []fyne.CanvasObject {
	n := len(e.Points)
	tip := e.Points[n-1]
	ang := geom.AngleDeg(tip, e.Points[n-2])
	size := (6 + e.StrokeWidth*2)
	left := geom.RotatePoint(geom.Pt(tip.X-size, tip.Y-size/2), tip, ang)
	right := geom.RotatePoint(geom.Pt(tip.X-size, tip.Y+size/2), tip, ang)
	l1 := canvas.NewLine(col)
	l1.StrokeWidth = e.StrokeWidth * zoom
	l1.Position1, l1.Position2 = r.toScreen(tip), r.toScreen(left)
	l2 := canvas.NewLine(col)
	l2.StrokeWidth = e.StrokeWidth * zoom
	l2.Position1, l2.Position2 = r.toScreen(tip), r.toScreen(right)
	return []fyne.CanvasObject{l1, l2}
}

func (r *canvasRenderer) renderShape(e *scene.Element, zoom float32) []fyne.CanvasObject {
	b := scene.ElementBounds(e)
	pos := r.toScreen(geom.Pt(b.X, b.Y))
	size := fyne.NewSize(b.W*zoom, b.H*zoom)
	fill := parseColor(e.Fill, color.Transparent)
	stroke := parseColor(e.Stroke, color.Black)
	if e.Opacity > 0 && e.Opacity < 1 {
		fill = withAlpha(fill, e.Opacity)
		stroke = withAlpha(stroke, e.Opacity)
	}

	switch e.Shape {
	case scene.ShapeCircle:
		c := canvas.NewCircle(fill)
		c.StrokeColor = stroke
		c.StrokeWidth = e.StrokeWidth * zoom
		c.Move(pos)
		c.Resize(size)
		return []fyne.CanvasObject{c}
	case scene.ShapeTriangle:
		top := r.toScreen(geom.Pt(b.X+b.W/2, b.Y))
		bl := r.toScreen(geom.Pt(b.X, b.Y+b.H))
		br := r.toScreen(geom.Pt(b.X+b.W, b.Y+b.H))
		var out []fyne.CanvasObject
		for _, pair := range [][2]fyne.Position{{top, bl}, {bl, br}, {br, top}} {
			l := canvas.NewLine(stroke)
			l.StrokeWidth = e.StrokeWidth * zoom
			l.Position1, l.Position2 = pair[0], pair[1]
			out = append(out, l)
		}
		return out
	default:
		rect := canvas.NewRectangle(fill)
		rect.StrokeColor = stroke
		rect.StrokeWidth = e.StrokeWidth * zoom
		rect.Move(pos)
		rect.Resize(size)
		return []fyne.CanvasObject{rect}
	}
}

func (r *canvasRenderer) renderText(e *scene.Element, zoom float32) []fyne.CanvasObject {
	t := canvas.NewText(e.Content, parseColor(e.Stroke, color.Black))
	t.TextSize = e.FontSize * zoom
	t.Move(r.toScreen(geom.Pt(e.X, e.Y)))
	return []fyne.CanvasObject{t}
}

func (r *canvasRenderer) renderImage(e *scene.Element, zoom float32) []fyne.CanvasObject {
	b := scene.ElementBounds(e)
	pos := r.toScreen(geom.Pt(b.X, b.Y))
	size := fyne.NewSize(b.W*zoom, b.H*zoom)

	if e.Href == "" {
		// Placeholder (pending or failed generation, or a video poster-less
		// element): a bordered box with the element's label.
		box := canvas.NewRectangle(color.NRGBA{R: 238, G: 238, B: 242, A: 255})
		box.StrokeColor = color.Gray{Y: 140}
		box.StrokeWidth = 1
		box.Move(pos)
		box.Resize(size)
		label := canvas.NewText(e.Name, color.Gray{Y: 90})
		label.TextSize = 12 * zoom
		label.Move(fyne.NewPos(pos.X+6, pos.Y+6))
		return []fyne.CanvasObject{box, label}
	}

	decoded, ok := r.images[e.Href]
	if !ok {
		var err error
		decoded, err = raster.DecodeDataURI(e.Href)
		if err != nil {
			broken := canvas.NewRectangle(color.NRGBA{R: 250, G: 225, B: 225, A: 255})
			broken.StrokeColor = color.NRGBA{R: 200, G: 60, B: 60, A: 255}
			broken.StrokeWidth = 1
			broken.Move(pos)
			broken.Resize(size)
			return []fyne.CanvasObject{broken}
		}
		r.images[e.Href] = decoded
	}
	img := canvas.NewImageFromImage(decoded)
	img.FillMode = canvas.ImageFillStretch
	img.Move(pos)
	img.Resize(size)
	return []fyne.CanvasObject{img}
}

func (r *canvasRenderer) renderFrame(e *scene.Element, zoom float32) []fyne.CanvasObject {
	b := scene.ElementBounds(e)
	pos := r.toScreen(geom.Pt(b.X, b.Y))
	rect := canvas.NewRectangle(parseColor(e.Background, color.White))
	rect.StrokeColor = color.Gray{Y: 120}
	rect.StrokeWidth = 1
	rect.Move(pos)
	rect.Resize(fyne.NewSize(b.W*zoom, b.H*zoom))
	name := canvas.NewText(e.Name, color.Gray{Y: 90})
	name.TextSize = 12
	name.Move(fyne.NewPos(pos.X, pos.Y-16))
	return []fyne.CanvasObject{rect, name}
}

// selectionOverlay draws rotated outlines for selected elements, the lighter
// treatment for a select-box's provisional picks, and resize/rotate handles
// when exactly one element is selected.
func (r *canvasRenderer) selectionOverlay(board *scene.Board, zoom float32) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	selected := r.w.store.SelectedIds()
	accent := color.NRGBA{R: 40, G: 110, B: 240, A: 255}
	pending := color.NRGBA{R: 40, G: 110, B: 240, A: 110}

	for _, id := range selected {
		if e := scene.Find(board.Elements, id); e != nil {
			out = append(out, r.outline(e, accent, zoom)...)
		}
	}
	for _, id := range r.w.engine.Pending() {
		if e := scene.Find(board.Elements, id); e != nil {
			out = append(out, r.outline(e, pending, zoom)...)
		}
	}

	if len(selected) == 1 {
		if e := scene.Find(board.Elements, selected[0]); e != nil {
			out = append(out, r.handles(e, accent, zoom)...)
		}
	}
	return out
}

// outline draws the element's bounds as four lines rotated with the element.
func (r *canvasRenderer) outline(e *scene.Element, col color.Color, zoom float32) []fyne.CanvasObject {
	b := scene.ElementBounds(e)
	corners := b.Corners()
	c := b.Center()
	var out []fyne.CanvasObject
	for i := range corners {
		p1 := geom.RotatePoint(corners[i], c, e.Rotation)
		p2 := geom.RotatePoint(corners[(i+1)%4], c, e.Rotation)
		l := canvas.NewLine(col)
		l.StrokeWidth = 1.5
		l.Position1, l.Position2 = r.toScreen(p1), r.toScreen(p2)
		out = append(out, l)
	}
	return out
}

func (r *canvasRenderer) handles(e *scene.Element, col color.Color, zoom float32) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	b := scene.ElementBounds(e)
	hs := float32(8)
	for _, h := range interaction.HandlePoints(b, e.Rotation, zoom) {
		sq := canvas.NewRectangle(color.White)
		sq.StrokeColor = col
		sq.StrokeWidth = 1.5
		p := r.toScreen(h)
		sq.Move(fyne.NewPos(p.X-hs/2, p.Y-hs/2))
		sq.Resize(fyne.NewSize(hs, hs))
		out = append(out, sq)
	}
	return out
}

// cropOverlay draws the crop or reference-selection rectangle when one is
// active.
func (r *canvasRenderer) cropOverlay(zoom float32) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	draw := func(rect geom.Rect, col color.Color) {
		box := canvas.NewRectangle(color.Transparent)
		box.StrokeColor = col
		box.StrokeWidth = 2
		box.Move(r.toScreen(geom.Pt(rect.X, rect.Y)))
		box.Resize(fyne.NewSize(rect.W*zoom, rect.H*zoom))
		out = append(out, box)
	}
	if id, rect := r.w.engine.CropRect(); id != "" {
		draw(rect, color.NRGBA{R: 240, G: 160, B: 30, A: 255})
	}
	if id, rect := r.w.engine.RefRect(); id != "" {
		draw(rect, color.NRGBA{R: 150, G: 60, B: 220, A: 255})
	}
	return out
}

func parseColor(hex string, fallback color.Color) color.Color {
	if len(hex) == 4 && hex[0] == '#' {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	if len(hex) != 7 || hex[0] != '#' {
		return fallback
	}
	var rr, gg, bb int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &rr, &gg, &bb); err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(rr), G: uint8(gg), B: uint8(bb), A: 255}
}

func withAlpha(c color.Color, opacity float32) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(opacity * 255),
	}
}
