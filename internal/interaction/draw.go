package interaction

import (
	"github.com/chewxy/math32"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// beginFreehand starts a path element at the pointer and appends it to the
// live (uncommitted) element array. Every subsequent sample is kept verbatim;
// no decimation.
func (en *Engine) beginFreehand(p geom.Point) {
	e := &scene.Element{
		Id:          scene.NewId(),
		Kind:        scene.KindPath,
		Points:      []geom.Point{p},
		Stroke:      en.StrokeColor,
		StrokeWidth: en.StrokeWidth,
	}
	if en.tool == ToolHighlighter {
		e.Opacity = 0.4
		e.StrokeWidth = en.StrokeWidth * 4
	}
	en.g.mode = ModeDraw
	en.g.newId = e.Id
	en.appendNew(e)
}

func (en *Engine) moveFreehand(p geom.Point) {
	id := en.g.newId
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if e.Id == id {
				c := e.Clone()
				c.Points = append(c.Points, p)
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}, false)
}

// endFreehand commits the drawn path and frame-parents it; the draw tool
// stays active for continuous drawing.
func (en *Engine) endFreehand() {
	en.commitDrawn()
}

func (en *Engine) beginShape(p geom.Point) {
	e := &scene.Element{
		Id:          scene.NewId(),
		Kind:        scene.KindShape,
		Shape:       en.shapeKind,
		X:           p.X,
		Y:           p.Y,
		Fill:        en.FillColor,
		Stroke:      en.StrokeColor,
		StrokeWidth: en.StrokeWidth,
	}
	en.g.mode = ModeDrawShape
	en.g.newId = e.Id
	en.appendNew(e)
}

func (en *Engine) beginFrame(p geom.Point) {
	e := &scene.Element{
		Id:         scene.NewId(),
		Kind:       scene.KindFrame,
		Name:       "Frame",
		X:          p.X,
		Y:          p.Y,
		Background: "#ffffff",
	}
	en.g.mode = ModeDrawFrame
	en.g.newId = e.Id
	en.appendNew(e)
}

// moveShape grows the drawn shape/frame from the anchor corner. A held shift
// constrains rectangles and circles to a square bounding box and triangles to
// an equilateral-like width*sqrt(3)/2 height, with correct anchoring for
// drags in any direction.
func (en *Engine) moveShape(p geom.Point, mods Modifiers) {
	dx := p.X - en.g.start.X
	dy := p.Y - en.g.start.Y
	w := math32.Abs(dx)
	h := math32.Abs(dy)

	constrained := mods.Shift && en.g.mode == ModeDrawShape
	if constrained {
		if en.shapeKind == scene.ShapeTriangle {
			h = w * math32.Sqrt(3) / 2
		} else {
			side := math32.Max(w, h)
			w, h = side, side
		}
	}

	x := en.g.start.X
	if dx < 0 {
		x -= w
	}
	y := en.g.start.Y
	if dy < 0 {
		y -= h
	}

	id := en.g.newId
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if e.Id == id {
				c := e.Clone()
				c.X, c.Y, c.Width, c.Height = x, y, w, h
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}, false)
}

func (en *Engine) beginTwoPoint(p geom.Point, kind scene.Kind, mode Mode) {
	e := &scene.Element{
		Id:          scene.NewId(),
		Kind:        kind,
		Points:      []geom.Point{p, p},
		Stroke:      en.StrokeColor,
		StrokeWidth: en.StrokeWidth,
	}
	en.g.mode = mode
	en.g.newId = e.Id
	en.appendNew(e)
}

func (en *Engine) moveTwoPoint(p geom.Point) {
	id := en.g.newId
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if e.Id == id {
				c := e.Clone()
				c.Points[1] = p
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}, false)
}

func (en *Engine) beginText(p geom.Point) {
	e := &scene.Element{
		Id:       scene.NewId(),
		Kind:     scene.KindText,
		X:        p.X,
		Y:        p.Y,
		Width:    160,
		Height:   en.FontSize * 1.5,
		Content:  "",
		Stroke:   en.StrokeColor,
		FontSize: en.FontSize,
	}
	en.g.mode = ModeDrawShape // sized like a shape while dragging
	en.g.newId = e.Id
	en.appendNew(e)
}

// appendNew adds a freshly created element to the live array without a
// history entry; the commit happens once at gesture end.
func (en *Engine) appendNew(e *scene.Element) {
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els)+1)
		copy(next, els)
		next[len(els)] = e
		return next
	}, false)
}

// endDrawn commits a shape/frame/arrow/line, frame-parents it exactly like a
// drag, selects it, and reverts the tool to select (only freehand draw stays
// active).
func (en *Engine) endDrawn() {
	en.commitDrawn()
	en.SetTool(ToolSelect)
}

func (en *Engine) commitDrawn() {
	id := en.g.newId
	if id == "" {
		return
	}
	moved := map[string]*scene.Element{id: nil}
	if en.OnEditText != nil {
		// Newly placed text elements open their inline editor right away.
		if e := scene.Find(en.store.Elements(), id); e != nil && e.Kind == scene.KindText {
			defer en.OnEditText(id)
		}
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		return reparentInFrames(els, moved)
	})
	en.store.SetSelection(id)
}

// eraseAt deletes, transiently, every freehand path with any sampled point
// within a zoom-adjusted radius of the pointer. The commit happens once at
// release.
func (en *Engine) eraseAt(p geom.Point) {
	radius := float32(eraseRadius) / en.zoom()
	hit := false
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els))
		for _, e := range els {
			if e.Kind == scene.KindPath && pathNear(e, p, radius) {
				hit = true
				continue
			}
			next = append(next, e)
		}
		return next
	}, false)
	if hit {
		en.g.changed = true
	}
}

func pathNear(e *scene.Element, p geom.Point, radius float32) bool {
	for _, pt := range e.Points {
		if pt.Dist(p) <= radius {
			return true
		}
	}
	return false
}

func (en *Engine) endErase() {
	if !en.g.changed {
		return
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		copy(next, els)
		return next
	})
}
