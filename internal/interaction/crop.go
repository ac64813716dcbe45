package interaction

import (
	"log"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/raster"
	"GenCanvas/internal/scene"
)

// BeginCrop opens the crop overlay on the single selected image element.
func (en *Engine) BeginCrop() bool {
	ids := en.store.SelectedIds()
	if len(ids) != 1 {
		return false
	}
	e := scene.Find(en.store.Elements(), ids[0])
	if e == nil || e.Kind != scene.KindImage {
		return false
	}
	en.cropId = e.Id
	en.cropRect = scene.ElementBounds(e)
	return true
}

// CancelCrop drops the overlay without touching the element.
func (en *Engine) CancelCrop() {
	en.cropId = ""
	en.cropRect = geom.Rect{}
}

// CropRect exposes the overlay rectangle for rendering.
func (en *Engine) CropRect() (string, geom.Rect) { return en.cropId, en.cropRect }

// downCrop claims the pointer if it lands on a crop handle or inside the crop
// rectangle; crop handles take priority over everything underneath.
func (en *Engine) downCrop(p geom.Point) bool {
	h := en.rectHandleAt(en.cropRect, p)
	if h == HandleNone {
		return false
	}
	en.g.mode = ModeCrop
	en.g.handle = h
	en.g.origBounds = en.cropRect
	return true
}

// rectHandleAt hit-tests the 8 handles of an unrotated overlay rect, then its
// interior (HandleBody for moving the whole rect).
func (en *Engine) rectHandleAt(r geom.Rect, p geom.Point) Handle {
	hit := float32(handleHitSize) / en.zoom()
	for _, h := range resizeHandles {
		if p.Dist(handlePoint(r, 0, h, 1)) <= hit {
			return h
		}
	}
	if r.Contains(p) {
		return HandleBody
	}
	return HandleNone
}

// moveCrop resizes or moves the crop rectangle, clamped to stay fully within
// the image's bounds.
func (en *Engine) moveCrop(p geom.Point) {
	e := scene.Find(en.store.Elements(), en.cropId)
	if e == nil {
		return
	}
	bounds := scene.ElementBounds(e)
	en.cropRect = dragRect(en.g.origBounds, en.g.handle, p.Sub(en.g.start), bounds)
}

// dragRect applies a handle drag to an overlay rect and clamps it inside
// within.
func dragRect(orig geom.Rect, h Handle, d geom.Point, within geom.Rect) geom.Rect {
	r := orig
	switch h {
	case HandleBody:
		r.X += d.X
		r.Y += d.Y
		if r.X < within.X {
			r.X = within.X
		}
		if r.Y < within.Y {
			r.Y = within.Y
		}
		if r.X+r.W > within.X+within.W {
			r.X = within.X + within.W - r.W
		}
		if r.Y+r.H > within.Y+within.H {
			r.Y = within.Y + within.H - r.H
		}
		return r
	case HandleE, HandleNE, HandleSE:
		r.W += d.X
	case HandleW, HandleNW, HandleSW:
		r.X += d.X
		r.W -= d.X
	}
	switch h {
	case HandleS, HandleSW, HandleSE:
		r.H += d.Y
	case HandleN, HandleNW, HandleNE:
		r.Y += d.Y
		r.H -= d.Y
	}
	r = r.Normalized()
	if r.W < minElementSize {
		r.W = minElementSize
	}
	if r.H < minElementSize {
		r.H = minElementSize
	}
	return clampInside(r, within)
}

func clampInside(r, within geom.Rect) geom.Rect {
	if r.X < within.X {
		r.W -= within.X - r.X
		r.X = within.X
	}
	if r.Y < within.Y {
		r.H -= within.Y - r.Y
		r.Y = within.Y
	}
	if r.X+r.W > within.X+within.W {
		r.W = within.X + within.W - r.X
	}
	if r.Y+r.H > within.Y+within.H {
		r.H = within.Y + within.H - r.Y
	}
	return r
}

// ConfirmCrop redraws the image's crop sub-region onto an offscreen raster
// and replaces the element's pixels and bounds with it. Destructive: pixels
// outside the crop are discarded. A decode/encode failure aborts without
// touching history.
func (en *Engine) ConfirmCrop() {
	id, crop := en.cropId, en.cropRect
	if id == "" {
		return
	}
	e := scene.Find(en.store.Elements(), id)
	if e == nil {
		en.CancelCrop()
		return
	}
	display := scene.ElementBounds(e)
	enc, err := raster.CropImage(e.Href, display, crop)
	if err != nil {
		log.Printf("[interaction] crop failed: %v", err)
		en.status("Crop failed")
		en.CancelCrop()
		return
	}
	c := e.Clone()
	c.Href = enc.DataURI()
	c.MimeType = enc.MimeType
	c.IntrinsicW, c.IntrinsicH = enc.Width, enc.Height
	c.X, c.Y = crop.X, crop.Y
	c.Width, c.Height = crop.W, crop.H
	en.store.Commit(replaceElement(c))
	en.CancelCrop()
}

// BeginRef opens the reference-selection overlay on an image: an independent
// rectangle used to cut out a sub-region as a new standalone image.
func (en *Engine) BeginRef(id string) bool {
	e := scene.Find(en.store.Elements(), id)
	if e == nil || e.Kind != scene.KindImage {
		return false
	}
	b := scene.ElementBounds(e)
	en.refId = id
	en.refRect = geom.R(b.X+b.W/4, b.Y+b.H/4, b.W/2, b.H/2)
	return true
}

// CancelRef drops the reference overlay.
func (en *Engine) CancelRef() {
	en.refId = ""
	en.refRect = geom.Rect{}
}

// RefRect exposes the overlay rectangle for rendering.
func (en *Engine) RefRect() (string, geom.Rect) { return en.refId, en.refRect }

// downRef claims the pointer for the reference overlay: handles resize the
// box, its interior moves it, and a press elsewhere inside the image starts a
// fresh box at that point.
func (en *Engine) downRef(p geom.Point) bool {
	e := scene.Find(en.store.Elements(), en.refId)
	if e == nil {
		en.CancelRef()
		return false
	}
	bounds := scene.ElementBounds(e)
	h := en.rectHandleAt(en.refRect, p)
	if h == HandleNone {
		if !bounds.Contains(p) {
			return false
		}
		// Start a new reference box anchored at the press point.
		en.refRect = geom.R(p.X, p.Y, minElementSize, minElementSize)
		h = HandleSE
	}
	en.g.mode = ModeSelectRef
	en.g.handle = h
	en.g.origBounds = en.refRect
	return true
}

func (en *Engine) moveRef(p geom.Point) {
	e := scene.Find(en.store.Elements(), en.refId)
	if e == nil {
		return
	}
	bounds := scene.ElementBounds(e)
	en.refRect = dragRect(en.g.origBounds, en.g.handle, p.Sub(en.g.start), bounds)
}

// ConfirmRef crops the reference box out of the source image and places the
// result as a new image element beside it.
func (en *Engine) ConfirmRef() {
	id, ref := en.refId, en.refRect
	if id == "" {
		return
	}
	e := scene.Find(en.store.Elements(), id)
	if e == nil {
		en.CancelRef()
		return
	}
	display := scene.ElementBounds(e)
	enc, err := raster.CropImage(e.Href, display, ref)
	if err != nil {
		log.Printf("[interaction] reference crop failed: %v", err)
		en.status("Reference selection failed")
		en.CancelRef()
		return
	}
	cut := &scene.Element{
		Id:         scene.NewId(),
		Kind:       scene.KindImage,
		X:          display.X + display.W + placeGap,
		Y:          ref.Y,
		Width:      ref.W,
		Height:     ref.H,
		Href:       enc.DataURI(),
		MimeType:   enc.MimeType,
		IntrinsicW: enc.Width,
		IntrinsicH: enc.Height,
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els)+1)
		copy(next, els)
		next[len(els)] = cut
		return next
	})
	en.store.SetSelection(cut.Id)
	en.CancelRef()
}
