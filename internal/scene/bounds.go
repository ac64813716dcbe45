package scene

import (
	"GenCanvas/internal/geom"
)

// ElementBounds computes the unrotated axis-aligned bounds of one element.
// O(1) in the number of siblings; point-list kinds are O(points).
func ElementBounds(e *Element) geom.Rect {
	switch e.Kind {
	case KindPath, KindArrow, KindLine:
		r := geom.BoundsOf(e.Points)
		if e.StrokeWidth > 0 {
			// A stroke paints half its width outside the centerline.
			half := e.StrokeWidth / 2
			r = geom.R(r.X-half, r.Y-half, r.W+e.StrokeWidth, r.H+e.StrokeWidth)
		}
		return r
	case KindImage, KindVideo, KindShape, KindText, KindGroup, KindFrame:
		return geom.R(e.X, e.Y, e.Width, e.Height)
	}
	return geom.Rect{}
}

// RotatedElementBounds is the axis-aligned footprint of the element after its
// own rotation about its own bounds center.
func RotatedElementBounds(e *Element) geom.Rect {
	return geom.RotatedBounds(ElementBounds(e), e.Rotation)
}

// SelectionBounds returns the rotation-aware union bounding box of the given
// elements: each element contributes the footprint of its rotated corners,
// not its raw x/y/width/height.
func SelectionBounds(elements []*Element, ids []string) (geom.Rect, bool) {
	var out geom.Rect
	found := false
	byId := IndexById(elements)
	for _, id := range ids {
		e := byId[id]
		if e == nil {
			continue
		}
		r := RotatedElementBounds(e)
		if !found {
			out = r
			found = true
		} else {
			out = out.Union(r)
		}
	}
	return out, found
}

// HitTest reports whether the canvas point lies on the element, taking the
// element's rotation into account by un-rotating the point first.
func HitTest(e *Element, p geom.Point) bool {
	b := ElementBounds(e)
	if e.Rotation != 0 {
		p = geom.RotatePoint(p, b.Center(), -e.Rotation)
	}
	return b.Contains(p)
}

// TopmostAt returns the last (highest z-order) visible element whose bounds
// contain the point, or nil. Hidden propagation is evaluated per query.
func TopmostAt(elements []*Element, p geom.Point) *Element {
	byId := IndexById(elements)
	for i := len(elements) - 1; i >= 0; i-- {
		e := elements[i]
		if IsHidden(e, byId) {
			continue
		}
		if HitTest(e, p) {
			return e
		}
	}
	return nil
}
