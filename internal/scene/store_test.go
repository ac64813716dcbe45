package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendElement(e *Element) Updater {
	return func(els []*Element) []*Element {
		next := make([]*Element, len(els)+1)
		copy(next, els)
		next[len(els)] = e
		return next
	}
}

func TestCommitAdvancesHistory(t *testing.T) {
	s := NewStore()
	b := s.Active()
	require.Len(t, b.History, 1)
	require.Equal(t, 0, b.HistoryIndex)

	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	assert.Len(t, b.History, 2)
	assert.Equal(t, 1, b.HistoryIndex)
	assert.Len(t, s.Elements(), 1)

	// The committed snapshot aliases the live slice.
	assert.Same(t, b.Elements[0], b.History[b.HistoryIndex][0])
}

func TestCommitTruncatesRedoBranch(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.Commit(appendElement(&Element{Id: "b", Kind: KindShape}))
	s.Undo()
	require.Len(t, s.Elements(), 1)
	require.True(t, s.Active().CanRedo())

	// A new commit after undo drops the redo branch.
	s.Commit(appendElement(&Element{Id: "c", Kind: KindShape}))
	b := s.Active()
	assert.False(t, b.CanRedo())
	assert.Len(t, b.History, 3)
	assert.Equal(t, "c", s.Elements()[1].Id)
}

func TestUndoRedoBoundaries(t *testing.T) {
	s := NewStore()

	// Undo at the initial snapshot is a no-op.
	s.Undo()
	assert.Equal(t, 0, s.Active().HistoryIndex)

	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.Redo() // nothing to redo
	assert.Equal(t, 1, s.Active().HistoryIndex)

	s.Undo()
	assert.Empty(t, s.Elements())
	s.Redo()
	assert.Len(t, s.Elements(), 1)
	s.Redo()
	assert.Equal(t, 1, s.Active().HistoryIndex)
}

func TestTransientUpdateNoHistory(t *testing.T) {
	s := NewStore()
	s.TransientUpdate(appendElement(&Element{Id: "a", Kind: KindShape}), false)
	b := s.Active()
	assert.Len(t, b.History, 1)
	assert.Len(t, s.Elements(), 1)
	// Without replaceTop the committed snapshot is untouched.
	assert.Empty(t, b.History[0])
}

func TestTransientReplaceTop(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape, Name: "one"}))

	s.TransientUpdate(func(els []*Element) []*Element {
		next := make([]*Element, len(els))
		for i, e := range els {
			c := e.Clone()
			c.Name = "two"
			next[i] = c
		}
		return next
	}, true)

	b := s.Active()
	assert.Len(t, b.History, 2)
	assert.Equal(t, "two", b.History[b.HistoryIndex][0].Name)

	// The replaced top survives an undo/redo round trip.
	s.Undo()
	s.Redo()
	assert.Equal(t, "two", s.Elements()[0].Name)
}

func renameElement(id, name string) Updater {
	return func(els []*Element) []*Element {
		next := make([]*Element, len(els))
		for i, e := range els {
			if e.Id == id {
				c := e.Clone()
				c.Name = name
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	}
}

func TestResolveAsyncOverwritesOwnCommit(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "gen", Kind: KindImage, Name: "pending"}))
	boardId, anchor := s.AsyncAnchor()

	require.True(t, s.ResolveAsync(boardId, "gen", anchor, renameElement("gen", "done")))
	b := s.Active()
	assert.Len(t, b.History, 2)
	assert.Equal(t, "done", s.Elements()[0].Name)
	assert.Equal(t, "done", b.History[b.HistoryIndex][0].Name)
}

func TestResolveAsyncAfterLaterCommit(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "gen", Kind: KindImage, Name: "pending"}))
	boardId, anchor := s.AsyncAnchor()
	s.Commit(appendElement(&Element{Id: "b", Kind: KindShape}))

	// The anchored slot is no longer the top, so the swap is its own entry
	// rather than being folded into the later commit.
	require.True(t, s.ResolveAsync(boardId, "gen", anchor, renameElement("gen", "done")))
	b := s.Active()
	assert.Len(t, b.History, 4)
	assert.Equal(t, "done", Find(s.Elements(), "gen").Name)

	s.Undo()
	assert.Equal(t, "pending", Find(s.Elements(), "gen").Name)
	assert.NotNil(t, Find(s.Elements(), "b"))
}

func TestResolveAsyncFindsInactiveBoard(t *testing.T) {
	s := NewStore()
	origin := s.Active()
	s.Commit(appendElement(&Element{Id: "gen", Kind: KindImage, Name: "pending"}))
	boardId, anchor := s.AsyncAnchor()

	s.AddBoard("Board 2")
	s.Commit(appendElement(&Element{Id: "other", Kind: KindShape}))
	s.SetSelection("other")

	require.True(t, s.ResolveAsync(boardId, "gen", anchor, renameElement("gen", "done")))
	assert.Equal(t, "done", Find(origin.Elements, "gen").Name)

	// The active board and its selection are untouched.
	assert.Equal(t, []string{"other"}, s.SelectedIds())
	assert.Len(t, s.Elements(), 1)
}

func TestResolveAsyncDropsUndonePlaceholder(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "gen", Kind: KindImage, Name: "pending"}))
	boardId, anchor := s.AsyncAnchor()
	s.Undo()

	assert.False(t, s.ResolveAsync(boardId, "gen", anchor, renameElement("gen", "done")))
	assert.Len(t, s.Active().History, 2)
	assert.Empty(t, s.Elements())
}

func TestUndoPrunesSelection(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.SetSelection("a")
	require.True(t, s.IsSelected("a"))

	s.Undo()
	assert.False(t, s.IsSelected("a"))

	// Redo brings the element back but not the selection.
	s.Redo()
	assert.False(t, s.IsSelected("a"))
}

func TestSelectionZOrder(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.Commit(appendElement(&Element{Id: "b", Kind: KindShape}))
	s.SetSelection("b", "a")
	assert.Equal(t, []string{"a", "b"}, s.SelectedIds())

	s.Deselect("a")
	assert.Equal(t, []string{"b"}, s.SelectedIds())
	s.ClearSelection()
	assert.Empty(t, s.SelectedIds())
}

func TestBoardSwitchResetsSelection(t *testing.T) {
	s := NewStore()
	first := s.Active()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.SetSelection("a")

	second := s.AddBoard("Board 2")
	assert.Equal(t, second.Id, s.Active().Id)
	assert.Empty(t, s.SelectedIds())

	// Each board keeps an independent history.
	assert.Empty(t, s.Elements())
	require.True(t, s.SetActiveBoard(first.Id))
	assert.Len(t, s.Elements(), 1)

	// Re-activating the current board is a no-op and keeps the selection.
	s.SetSelection("a")
	assert.False(t, s.SetActiveBoard(first.Id))
	assert.Equal(t, []string{"a"}, s.SelectedIds())
}

func TestDeleteBoardRefusesLast(t *testing.T) {
	s := NewStore()
	only := s.Active()
	assert.False(t, s.DeleteBoard(only.Id))

	b2 := s.AddBoard("Board 2")
	assert.True(t, s.DeleteBoard(b2.Id))
	assert.Equal(t, only.Id, s.Active().Id)
	assert.False(t, s.DeleteBoard("missing"))
}

func TestPanZoomOutsideHistory(t *testing.T) {
	s := NewStore()
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.SetPan(100, 50)
	s.SetZoom(2)
	s.SetBackground("#fafafa")

	b := s.Active()
	require.Len(t, b.History, 2)

	s.Undo()
	assert.Equal(t, float32(100), b.PanX)
	assert.Equal(t, float32(2), b.Zoom)
	assert.Equal(t, "#fafafa", b.Background)
}

func TestOnChangeFires(t *testing.T) {
	s := NewStore()
	calls := 0
	s.OnChange = func() { calls++ }
	s.Commit(appendElement(&Element{Id: "a", Kind: KindShape}))
	s.TransientUpdate(func(els []*Element) []*Element { return els }, false)
	s.SetPan(1, 1)
	assert.Equal(t, 3, calls)
}
