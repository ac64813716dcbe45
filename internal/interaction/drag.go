package interaction

import (
	"github.com/chewxy/math32"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// downSelect resolves a pointer-down under the select tool: resize/rotate
// handles of a single selection first, then element bodies, then empty space.
func (en *Engine) downSelect(p geom.Point, mods Modifiers) {
	selected := en.store.SelectedIds()
	if len(selected) == 1 {
		if e := scene.Find(en.store.Elements(), selected[0]); e != nil {
			if h := en.handleAt(e, p); h != HandleNone {
				en.beginTransform(e, h)
				return
			}
		}
	}

	elements := en.store.Elements()
	top := scene.TopmostAt(elements, p)
	if top != nil {
		root := scene.SelectableRoot(elements, top.Id)
		if root != nil {
			if mods.Shift {
				if en.store.IsSelected(root.Id) {
					en.store.Deselect(root.Id)
					return
				}
				en.store.Select(root.Id)
			} else if !en.store.IsSelected(root.Id) {
				en.store.SetSelection(root.Id)
			}
			en.beginDrag()
			return
		}
	}

	// Empty space (or a locked element, which behaves like empty space).
	if !mods.Shift {
		en.store.ClearSelection()
	}
	en.g.mode = ModeSelectBox
}

// beginDrag snapshots the full closure of the selection (selected elements
// plus all descendants of selected containers) at gesture start.
func (en *Engine) beginDrag() {
	en.g.mode = ModeDrag
	en.g.origins = make(map[string]*scene.Element)
	elements := en.store.Elements()
	for _, id := range en.store.SelectedIds() {
		e := scene.Find(elements, id)
		if e == nil {
			continue
		}
		en.g.origins[e.Id] = e.Clone()
		for _, d := range scene.Descendants(elements, e.Id) {
			en.g.origins[d.Id] = d.Clone()
		}
	}
}

// moveDrag applies the gesture delta (snapped per axis) to every snapshot.
func (en *Engine) moveDrag(p geom.Point) {
	if len(en.g.origins) == 0 {
		return
	}
	dx := p.X - en.g.start.X
	dy := p.Y - en.g.start.Y
	dx, dy = en.snapDelta(dx, dy)

	en.g.changed = true
	en.store.TransientUpdate(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if o, ok := en.g.origins[e.Id]; ok {
				c := o.Clone()
				c.MoveBy(dx, dy)
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}, false)
}

// snapDelta aligns the drag delta per axis against the snap lines of every
// non-moving element: left/center/right and top/middle/bottom of each moving
// element versus the same lines of each static one. The single closest
// candidate within the threshold wins per axis; ties keep the first found in
// z-order, so moving elements are walked in slice order rather than over the
// origins map.
func (en *Engine) snapDelta(dx, dy float32) (float32, float32) {
	thr := float32(snapThreshold) / en.zoom()
	bestX := thr + 1
	bestY := thr + 1

	elements := en.store.Elements()
	for _, el := range elements {
		o, moving := en.g.origins[el.Id]
		if !moving {
			continue
		}
		mb := scene.RotatedElementBounds(o)
		mb.X += dx
		mb.Y += dy
		mxs := [3]float32{mb.X, mb.X + mb.W/2, mb.X + mb.W}
		mys := [3]float32{mb.Y, mb.Y + mb.H/2, mb.Y + mb.H}

		for _, e := range elements {
			if _, moving := en.g.origins[e.Id]; moving {
				continue
			}
			sb := scene.RotatedElementBounds(e)
			sxs := [3]float32{sb.X, sb.X + sb.W/2, sb.X + sb.W}
			sys := [3]float32{sb.Y, sb.Y + sb.H/2, sb.Y + sb.H}
			for _, mx := range mxs {
				for _, sx := range sxs {
					if d := sx - mx; math32.Abs(d) < math32.Abs(bestX) {
						bestX = d
					}
				}
			}
			for _, my := range mys {
				for _, sy := range sys {
					if d := sy - my; math32.Abs(d) < math32.Abs(bestY) {
						bestY = d
					}
				}
			}
		}
	}

	if math32.Abs(bestX) <= thr {
		dx += bestX
	}
	if math32.Abs(bestY) <= thr {
		dy += bestY
	}
	return dx, dy
}

// endDrag commits the final positions and re-evaluates frame containment for
// every moved element (frames themselves excluded).
func (en *Engine) endDrag() {
	if !en.g.changed {
		return
	}
	moved := en.g.origins
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		return reparentInFrames(els, moved)
	})
}

// reparentInFrames assigns each moved, frame-eligible element to the
// smallest-area frame that fully contains its bounds, or clears its parent if
// none does. Group members stay with their group; frames are never reparented.
func reparentInFrames(els []*scene.Element, moved map[string]*scene.Element) []*scene.Element {
	byId := scene.IndexById(els)
	next := make([]*scene.Element, len(els))
	copy(next, els)

	for i, e := range next {
		if _, ok := moved[e.Id]; !ok {
			continue
		}
		if e.Kind == scene.KindFrame {
			continue
		}
		if parent := byId[e.ParentId]; parent != nil && parent.Kind == scene.KindGroup {
			continue
		}
		frameId := enclosingFrameId(next, e)
		if frameId != e.ParentId {
			c := e.Clone()
			c.ParentId = frameId
			next[i] = c
		}
	}
	return next
}

// enclosingFrameId finds the smallest-area frame whose bounds fully contain
// the element's rotated footprint. Empty string when none qualifies.
func enclosingFrameId(els []*scene.Element, e *scene.Element) string {
	eb := scene.RotatedElementBounds(e)
	bestId := ""
	bestArea := float32(math32.MaxFloat32)
	for _, f := range els {
		if f.Kind != scene.KindFrame || f.Id == e.Id {
			continue
		}
		fb := scene.ElementBounds(f)
		if fb.ContainsRect(eb) && fb.Area() < bestArea {
			bestArea = fb.Area()
			bestId = f.Id
		}
	}
	return bestId
}

// moveSelectBox recomputes the provisional selection: every selectable,
// visible top-level element whose rotated footprint intersects the rubber
// band. Hidden elements are skipped like click selection skips them.
func (en *Engine) moveSelectBox(p geom.Point) {
	box := geom.R(en.g.start.X, en.g.start.Y, p.X-en.g.start.X, p.Y-en.g.start.Y).Normalized()
	elements := en.store.Elements()
	byId := scene.IndexById(elements)
	seen := make(map[string]struct{})
	var pending []string
	for _, e := range elements {
		if scene.IsHidden(e, byId) {
			continue
		}
		if !scene.RotatedElementBounds(e).Intersects(box) {
			continue
		}
		root := scene.SelectableRoot(elements, e.Id)
		if root == nil {
			continue
		}
		if _, dup := seen[root.Id]; dup {
			continue
		}
		seen[root.Id] = struct{}{}
		pending = append(pending, root.Id)
	}
	en.g.pending = pending
}

// Pending exposes the provisional select-box selection for the lighter
// "pending" treatment during the drag.
func (en *Engine) Pending() []string { return en.g.pending }

func (en *Engine) endSelectBox() {
	en.store.SetSelection(en.g.pending...)
}

// endLasso finalizes lasso selection: visible elements whose bounds center
// lies inside the accumulated polygon (even-odd rule).
func (en *Engine) endLasso() {
	if len(en.g.lasso) < 3 {
		return
	}
	elements := en.store.Elements()
	byId := scene.IndexById(elements)
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range elements {
		if scene.IsHidden(e, byId) {
			continue
		}
		c := scene.RotatedElementBounds(e).Center()
		if !geom.PointInPolygon(c, en.g.lasso) {
			continue
		}
		root := scene.SelectableRoot(elements, e.Id)
		if root == nil {
			continue
		}
		if _, dup := seen[root.Id]; dup {
			continue
		}
		seen[root.Id] = struct{}{}
		ids = append(ids, root.Id)
	}
	en.store.SetSelection(ids...)
}
