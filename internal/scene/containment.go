package scene

// ChildrenIndex maps a container id to its direct children, in z-order.
// Rebuild it whenever the element slice changes; it is never cached across
// mutations.
func ChildrenIndex(elements []*Element) map[string][]*Element {
	idx := make(map[string][]*Element)
	for _, e := range elements {
		if e.ParentId != "" {
			idx[e.ParentId] = append(idx[e.ParentId], e)
		}
	}
	return idx
}

// Descendants returns the transitive children of id. Only group and frame
// elements can own children; a dangling parent id on anything else is
// ignored.
func Descendants(elements []*Element, id string) []*Element {
	idx := ChildrenIndex(elements)
	byId := IndexById(elements)
	root := byId[id]
	if root == nil || !root.IsContainer() {
		return nil
	}
	var out []*Element
	var walk func(string)
	walk = func(pid string) {
		for _, c := range idx[pid] {
			out = append(out, c)
			if c.IsContainer() {
				walk(c.Id)
			}
		}
	}
	walk(id)
	return out
}

// IsLocked reports whether the element or any ancestor is locked.
// A dangling parent reference is tolerated and treated as top-level.
func IsLocked(e *Element, byId map[string]*Element) bool {
	for e != nil {
		if e.Locked {
			return true
		}
		e = byId[e.ParentId]
	}
	return false
}

// IsHidden reports whether the element or any ancestor is hidden.
func IsHidden(e *Element, byId map[string]*Element) bool {
	for e != nil {
		if e.Hidden {
			return true
		}
		e = byId[e.ParentId]
	}
	return false
}

// SelectableRoot resolves which element a click on id actually selects.
// Locked elements (or elements under a locked ancestor) are unselectable.
// Groups are opaque: clicking any descendant selects the outermost group.
// Frames are transparent: the climb stops at a frame boundary so frame
// children stay individually selectable.
func SelectableRoot(elements []*Element, id string) *Element {
	byId := IndexById(elements)
	e := byId[id]
	if e == nil || IsLocked(e, byId) {
		return nil
	}
	for {
		parent := byId[e.ParentId]
		if parent == nil || parent.Kind != KindGroup {
			return e
		}
		e = parent
	}
}
