package interaction

import (
	"github.com/chewxy/math32"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

var resizeHandles = [8]Handle{
	HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW,
}

// handlePoint returns the canvas position of a handle on the element's
// rotated bounds.
func handlePoint(b geom.Rect, rotation float32, h Handle, zoom float32) geom.Point {
	var p geom.Point
	switch h {
	case HandleNW:
		p = geom.Pt(b.X, b.Y)
	case HandleN:
		p = geom.Pt(b.X+b.W/2, b.Y)
	case HandleNE:
		p = geom.Pt(b.X+b.W, b.Y)
	case HandleE:
		p = geom.Pt(b.X+b.W, b.Y+b.H/2)
	case HandleSE:
		p = geom.Pt(b.X+b.W, b.Y+b.H)
	case HandleS:
		p = geom.Pt(b.X+b.W/2, b.Y+b.H)
	case HandleSW:
		p = geom.Pt(b.X, b.Y+b.H)
	case HandleW:
		p = geom.Pt(b.X, b.Y+b.H/2)
	case HandleRotate:
		p = geom.Pt(b.X+b.W/2, b.Y-rotateHandleOffset/zoom)
	}
	return geom.RotatePoint(p, b.Center(), rotation)
}

// HandlePoints returns the canvas positions of the 8 resize handles plus the
// rotate handle, in that order, for overlay rendering.
func HandlePoints(b geom.Rect, rotation, zoom float32) []geom.Point {
	out := make([]geom.Point, 0, 9)
	for _, h := range resizeHandles {
		out = append(out, handlePoint(b, rotation, h, zoom))
	}
	return append(out, handlePoint(b, rotation, HandleRotate, zoom))
}

// handleAt hit-tests the 8 resize handles and the rotate handle of an
// element. Handles use small fixed screen-size targets (zoom-adjusted) and
// always beat body hit-testing.
func (en *Engine) handleAt(e *scene.Element, p geom.Point) Handle {
	zoom := en.zoom()
	hit := float32(handleHitSize) / zoom
	b := scene.ElementBounds(e)
	if p.Dist(handlePoint(b, e.Rotation, HandleRotate, zoom)) <= hit {
		return HandleRotate
	}
	for _, h := range resizeHandles {
		if p.Dist(handlePoint(b, e.Rotation, h, zoom)) <= hit {
			return h
		}
	}
	return HandleNone
}

// beginTransform enters resize or rotate mode, reconstructing the original
// bounds exactly once at gesture start.
func (en *Engine) beginTransform(e *scene.Element, h Handle) {
	en.g.targetId = e.Id
	en.g.handle = h
	en.g.origBounds = scene.ElementBounds(e)
	en.g.origRotation = e.Rotation
	en.g.origins = map[string]*scene.Element{e.Id: e.Clone()}
	if h == HandleRotate {
		en.g.mode = ModeRotate
	} else {
		en.g.mode = ModeResize
	}
}

// moveResize recomputes the element from its gesture-start snapshot. The
// pointer delta is rotated into the element's local frame so resizing feels
// axis-aligned even when the element is rotated, and the opposite anchor is
// solved to stay fixed in world space.
func (en *Engine) moveResize(p geom.Point, mods Modifiers) {
	o := en.g.origins[en.g.targetId]
	if o == nil {
		return
	}
	world := p.Sub(en.g.start)
	local := geom.RotatePoint(world, geom.Pt(0, 0), -o.Rotation)

	proportional := false
	switch o.Kind {
	case scene.KindImage, scene.KindVideo:
		proportional = true
	case scene.KindText:
		proportional = false
	default:
		proportional = mods.Shift
	}

	resized := resizeElement(o, en.g.origBounds, en.g.handle, local, proportional)
	en.g.changed = true
	en.store.TransientUpdate(replaceElement(resized), false)
}

// resizeElement returns a clone of o resized per the handle and local-frame
// delta relative to the original bounds orig.
func resizeElement(o *scene.Element, orig geom.Rect, h Handle, local geom.Point, proportional bool) *scene.Element {
	newW, newH := orig.W, orig.H
	switch h {
	case HandleE, HandleNE, HandleSE:
		newW = orig.W + local.X
	case HandleW, HandleNW, HandleSW:
		newW = orig.W - local.X
	}
	switch h {
	case HandleS, HandleSW, HandleSE:
		newH = orig.H + local.Y
	case HandleN, HandleNW, HandleNE:
		newH = orig.H - local.Y
	}
	newW = math32.Max(newW, minElementSize)
	newH = math32.Max(newH, minElementSize)

	if proportional && orig.W > 0 && orig.H > 0 {
		ratio := orig.W / orig.H
		switch h {
		case HandleE, HandleW:
			newH = newW / ratio
		case HandleN, HandleS:
			newW = newH * ratio
		default:
			// Corner: the axis that grew more (relatively) leads.
			if newW/orig.W >= newH/orig.H {
				newH = newW / ratio
			} else {
				newW = newH * ratio
			}
		}
	}

	// Position in the unrotated local frame: sides opposite the handle stay.
	newX, newY := orig.X, orig.Y
	switch h {
	case HandleW, HandleNW, HandleSW:
		newX = orig.X + (orig.W - newW)
	}
	switch h {
	case HandleN, HandleNW, HandleNE:
		newY = orig.Y + (orig.H - newH)
	}
	newR := geom.R(newX, newY, newW, newH)

	// Keep the opposite anchor stationary in world space under rotation:
	// rotate the anchor through the old and the new center and translate by
	// the difference.
	if o.Rotation != 0 {
		aOld := geom.RotatePoint(anchorPoint(orig, h), orig.Center(), o.Rotation)
		aNew := geom.RotatePoint(anchorPoint(newR, h), newR.Center(), o.Rotation)
		newR.X += aOld.X - aNew.X
		newR.Y += aOld.Y - aNew.Y
	}

	c := o.Clone()
	switch o.Kind {
	case scene.KindPath, scene.KindArrow, scene.KindLine:
		// Point lists rescale relative to the original bounds origin instead
		// of moving width/height fields.
		sx := newR.W / orig.W
		sy := newR.H / orig.H
		for i, pt := range o.Points {
			c.Points[i] = geom.Pt(
				newR.X+(pt.X-orig.X)*sx,
				newR.Y+(pt.Y-orig.Y)*sy,
			)
		}
	default:
		c.X, c.Y = newR.X, newR.Y
		c.Width, c.Height = newR.W, newR.H
	}
	return c
}

// anchorPoint is the point of r opposite the active handle (the corner or
// edge midpoint that must not move).
func anchorPoint(r geom.Rect, h Handle) geom.Point {
	switch h {
	case HandleNW:
		return geom.Pt(r.X+r.W, r.Y+r.H)
	case HandleN:
		return geom.Pt(r.X+r.W/2, r.Y+r.H)
	case HandleNE:
		return geom.Pt(r.X, r.Y+r.H)
	case HandleE:
		return geom.Pt(r.X, r.Y+r.H/2)
	case HandleSE:
		return geom.Pt(r.X, r.Y)
	case HandleS:
		return geom.Pt(r.X+r.W/2, r.Y)
	case HandleSW:
		return geom.Pt(r.X+r.W, r.Y)
	case HandleW:
		return geom.Pt(r.X+r.W, r.Y+r.H/2)
	}
	return r.Center()
}

// moveRotate sets rotation = original + swept angle around the fixed bounds
// center, snapping to 15-degree steps while shift is held.
func (en *Engine) moveRotate(p geom.Point, mods Modifiers) {
	o := en.g.origins[en.g.targetId]
	if o == nil {
		return
	}
	pivot := en.g.origBounds.Center()
	delta := geom.AngleDeg(p, pivot) - geom.AngleDeg(en.g.start, pivot)
	rot := en.g.origRotation + delta
	if mods.Shift {
		rot = math32.Round(rot/15) * 15
	}
	c := o.Clone()
	c.Rotation = normalizeDeg(rot)
	en.g.changed = true
	en.store.TransientUpdate(replaceElement(c), false)
}

func normalizeDeg(d float32) float32 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

// endTransform commits the resize/rotate result.
func (en *Engine) endTransform() {
	if !en.g.changed {
		return
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		copy(next, els)
		return next
	})
}

// replaceElement is an updater swapping one element by id.
func replaceElement(c *scene.Element) scene.Updater {
	return func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if e.Id == c.Id {
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}
}
