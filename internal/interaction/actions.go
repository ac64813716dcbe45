package interaction

import (
	"log"

	"GenCanvas/internal/raster"
	"GenCanvas/internal/scene"
)

// AlignEdge names an alignment target for AlignSelection.
type AlignEdge string

const (
	AlignLeft    AlignEdge = "left"
	AlignRight   AlignEdge = "right"
	AlignTop     AlignEdge = "top"
	AlignBottom  AlignEdge = "bottom"
	AlignCenterX AlignEdge = "centerX"
	AlignCenterY AlignEdge = "centerY"
)

// DeleteSelection removes every selected element together with its transitive
// descendants. Locked elements (and their subtrees) are skipped entirely:
// deleting a locked element is a no-op and leaves the selection untouched.
// One code path serves the Delete hotkey and the menu action alike.
func (en *Engine) DeleteSelection() {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		return
	}
	elements := en.store.Elements()
	byId := scene.IndexById(elements)

	doomed := make(map[string]struct{})
	for _, id := range ids {
		e := byId[id]
		if e == nil || scene.IsLocked(e, byId) {
			continue
		}
		doomed[id] = struct{}{}
		for _, d := range scene.Descendants(elements, id) {
			doomed[d.Id] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els))
		for _, e := range els {
			if _, dead := doomed[e.Id]; !dead {
				next = append(next, e)
			}
		}
		return next
	})
}

// GroupSelection wraps the selected top-level elements in a new opaque group
// sized to their rotation-aware union bounds.
func (en *Engine) GroupSelection() {
	ids := en.store.SelectedIds()
	if len(ids) < 2 {
		return
	}
	elements := en.store.Elements()
	bounds, ok := scene.SelectionBounds(elements, ids)
	if !ok {
		return
	}
	group := &scene.Element{
		Id:     scene.NewId(),
		Kind:   scene.KindGroup,
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  bounds.W,
		Height: bounds.H,
	}
	member := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els)+1)
		for _, e := range els {
			if _, ok := member[e.Id]; ok {
				c := e.Clone()
				c.ParentId = group.Id
				next = append(next, c)
			} else {
				next = append(next, e)
			}
		}
		return append(next, group)
	})
	en.store.SetSelection(group.Id)
}

// UngroupSelection removes selected group wrappers; direct children inherit
// the group's own parent.
func (en *Engine) UngroupSelection() {
	ids := en.store.SelectedIds()
	elements := en.store.Elements()
	byId := scene.IndexById(elements)

	groups := make(map[string]string) // group id -> its parent id
	var freed []string
	for _, id := range ids {
		e := byId[id]
		if e != nil && e.Kind == scene.KindGroup {
			groups[e.Id] = e.ParentId
		}
	}
	if len(groups) == 0 {
		return
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els))
		for _, e := range els {
			if _, dead := groups[e.Id]; dead {
				continue
			}
			if grandparent, ok := groups[e.ParentId]; ok {
				c := e.Clone()
				c.ParentId = grandparent
				next = append(next, c)
				freed = append(freed, c.Id)
			} else {
				next = append(next, e)
			}
		}
		return next
	})
	en.store.SetSelection(freed...)
}

// AlignSelection lines the selected elements up on the given edge of their
// shared union bounds.
func (en *Engine) AlignSelection(edge AlignEdge) {
	ids := en.store.SelectedIds()
	if len(ids) < 2 {
		return
	}
	elements := en.store.Elements()
	union, ok := scene.SelectionBounds(elements, ids)
	if !ok {
		return
	}
	member := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if _, ok := member[e.Id]; !ok {
				next[i] = e
				continue
			}
			b := scene.RotatedElementBounds(e)
			var dx, dy float32
			switch edge {
			case AlignLeft:
				dx = union.X - b.X
			case AlignRight:
				dx = (union.X + union.W) - (b.X + b.W)
			case AlignTop:
				dy = union.Y - b.Y
			case AlignBottom:
				dy = (union.Y + union.H) - (b.Y + b.H)
			case AlignCenterX:
				dx = union.Center().X - b.Center().X
			case AlignCenterY:
				dy = union.Center().Y - b.Center().Y
			}
			if dx == 0 && dy == 0 {
				next[i] = e
				continue
			}
			c := e.Clone()
			c.MoveBy(dx, dy)
			next[i] = c
		}
		return next
	})
}

// BringForward moves each selected element one slot up in z-order.
func (en *Engine) BringForward() { en.reorderSelection(+1) }

// SendBackward moves each selected element one slot down in z-order.
func (en *Engine) SendBackward() { en.reorderSelection(-1) }

func (en *Engine) reorderSelection(dir int) {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		return
	}
	member := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		copy(next, els)
		if dir > 0 {
			for i := len(next) - 2; i >= 0; i-- {
				_, sel := member[next[i].Id]
				_, above := member[next[i+1].Id]
				if sel && !above {
					next[i], next[i+1] = next[i+1], next[i]
				}
			}
		} else {
			for i := 1; i < len(next); i++ {
				_, sel := member[next[i].Id]
				_, below := member[next[i-1].Id]
				if sel && !below {
					next[i], next[i-1] = next[i-1], next[i]
				}
			}
		}
		return next
	})
}

// DuplicateSelection clones the selection closure with fresh ids, offset
// slightly, remapping parent references among the clones.
func (en *Engine) DuplicateSelection() {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		return
	}
	elements := en.store.Elements()
	closure := make(map[string]struct{})
	for _, id := range ids {
		closure[id] = struct{}{}
		for _, d := range scene.Descendants(elements, id) {
			closure[d.Id] = struct{}{}
		}
	}
	idMap := make(map[string]string, len(closure))
	for id := range closure {
		idMap[id] = scene.NewId()
	}
	var clones []*scene.Element
	var topIds []string
	for _, e := range elements {
		if _, ok := closure[e.Id]; !ok {
			continue
		}
		c := e.Clone()
		c.Id = idMap[e.Id]
		if mapped, ok := idMap[e.ParentId]; ok {
			c.ParentId = mapped
		}
		c.MoveBy(duplicateOffset, duplicateOffset)
		clones = append(clones, c)
		if _, childOfClone := idMap[e.ParentId]; !childOfClone {
			topIds = append(topIds, c.Id)
		}
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els)+len(clones))
		next = append(next, els...)
		return append(next, clones...)
	})
	en.store.SetSelection(topIds...)
}

// MergeSelectionToImage rasterizes the selection (with descendants) onto one
// bitmap and replaces the originals with a single image element covering the
// same footprint. A rasterization failure aborts without touching history.
func (en *Engine) MergeSelectionToImage() {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		return
	}
	elements := en.store.Elements()
	closure := make(map[string]struct{})
	for _, id := range ids {
		closure[id] = struct{}{}
		for _, d := range scene.Descendants(elements, id) {
			closure[d.Id] = struct{}{}
		}
	}
	var sources []*scene.Element
	for _, e := range elements {
		if _, ok := closure[e.Id]; ok {
			sources = append(sources, e)
		}
	}
	if len(sources) == 0 {
		return
	}
	enc, err := raster.Elements(sources)
	if err != nil {
		log.Printf("[interaction] merge rasterize failed: %v", err)
		en.status("Merge failed")
		return
	}
	srcIds := make([]string, len(sources))
	for i, e := range sources {
		srcIds[i] = e.Id
	}
	bounds, _ := scene.SelectionBounds(elements, srcIds)
	merged := &scene.Element{
		Id:         scene.NewId(),
		Kind:       scene.KindImage,
		X:          bounds.X,
		Y:          bounds.Y,
		Width:      float32(enc.Width),
		Height:     float32(enc.Height),
		Href:       enc.DataURI(),
		MimeType:   enc.MimeType,
		IntrinsicW: enc.Width,
		IntrinsicH: enc.Height,
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els))
		for _, e := range els {
			if _, dead := closure[e.Id]; !dead {
				next = append(next, e)
			}
		}
		return append(next, merged)
	})
	en.store.SetSelection(merged.Id)
}

// SetSelectionFill applies a fill color to the selection. transient=true is
// for continuous tweaks (a slider or swatch preview); the caller commits once
// the tweak ends.
func (en *Engine) SetSelectionFill(color string, transient bool) {
	en.applyToSelection(transient, func(c *scene.Element) {
		c.Fill = color
	})
}

// SetSelectionStroke applies a stroke color to the selection.
func (en *Engine) SetSelectionStroke(color string, transient bool) {
	en.applyToSelection(transient, func(c *scene.Element) {
		c.Stroke = color
	})
}

// SetSelectionOpacity applies an opacity to the selection.
func (en *Engine) SetSelectionOpacity(opacity float32, transient bool) {
	en.applyToSelection(transient, func(c *scene.Element) {
		c.Opacity = opacity
	})
}

// SetTextContent replaces a text element's content or a frame's name after
// inline editing confirms.
func (en *Engine) SetTextContent(id, content string) {
	e := scene.Find(en.store.Elements(), id)
	if e == nil {
		return
	}
	c := e.Clone()
	switch e.Kind {
	case scene.KindText:
		c.Content = content
	case scene.KindFrame:
		c.Name = content
	default:
		return
	}
	en.store.Commit(replaceElement(c))
}

func (en *Engine) applyToSelection(transient bool, mutate func(*scene.Element)) {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		return
	}
	member := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	up := func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if _, ok := member[e.Id]; ok {
				c := e.Clone()
				mutate(c)
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}
	if transient {
		en.store.TransientUpdate(up, false)
	} else {
		en.store.Commit(up)
	}
}

// ZoomToFrameTarget computes the pan/zoom that centers the frame in a
// viewport of the given size with a small margin. The UI animates toward it.
func ZoomToFrameTarget(frame *scene.Element, viewportW, viewportH float32) (panX, panY, zoom float32) {
	b := scene.ElementBounds(frame)
	if b.W <= 0 || b.H <= 0 {
		return 0, 0, 1
	}
	margin := float32(40)
	zx := (viewportW - 2*margin) / b.W
	zy := (viewportH - 2*margin) / b.H
	zoom = zx
	if zy < zx {
		zoom = zy
	}
	if zoom <= 0 {
		zoom = 1
	}
	c := b.Center()
	panX = viewportW/2 - c.X*zoom
	panY = viewportH/2 - c.Y*zoom
	return panX, panY, zoom
}
