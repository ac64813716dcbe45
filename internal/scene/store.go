package scene

import (
	"log"
	"sync"
)

// Updater produces the next element slice from the current one. Updaters must
// be pure and total: they always return a valid slice and never mutate the
// input elements (replace, don't edit). An invalid mutation is a caller bug,
// not a recoverable error.
type Updater func(elements []*Element) []*Element

// Store owns every board and is the only path through which a board's
// elements change. The interaction engine never touches element slices
// directly; it calls Commit or TransientUpdate.
type Store struct {
	mu       sync.RWMutex
	boards   []*Board
	activeId string

	selection map[string]struct{}

	// OnChange is invoked after every mutation so the UI can refresh.
	OnChange func()
}

// NewStore creates a store with one initial board; at least one board always
// exists.
func NewStore() *Store {
	b := NewBoard("Board 1")
	return &Store{
		boards:    []*Board{b},
		activeId:  b.Id,
		selection: make(map[string]struct{}),
	}
}

func (s *Store) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Active returns the active board. The store always has one.
func (s *Store) Active() *Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *Store) activeLocked() *Board {
	for _, b := range s.boards {
		if b.Id == s.activeId {
			return b
		}
	}
	return s.boards[0]
}

// Boards returns the boards in order.
func (s *Store) Boards() []*Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Board, len(s.boards))
	copy(out, s.boards)
	return out
}

// Elements returns the active board's live element slice.
func (s *Store) Elements() []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked().Elements
}

// Commit applies the updater to the active board's elements, truncates any
// redo entries beyond the pointer, appends the result as a new snapshot and
// advances the pointer. This is the only way a gesture's final state enters
// history.
func (s *Store) Commit(up Updater) {
	s.mu.Lock()
	b := s.activeLocked()
	next := up(b.Elements)
	b.History = append(b.History[:b.HistoryIndex+1], next)
	b.HistoryIndex = len(b.History) - 1
	b.Elements = next
	s.pruneSelectionLocked(b)
	s.mu.Unlock()
	s.notify()
}

// TransientUpdate applies the updater without creating a history entry; used
// for every intermediate frame of a gesture so history grows once per
// gesture. With replaceTop the current history slot is overwritten (history
// length stays stable); without it only the live elements move, for mid-draw
// state that has no commit yet.
func (s *Store) TransientUpdate(up Updater, replaceTop bool) {
	s.mu.Lock()
	b := s.activeLocked()
	next := up(b.Elements)
	b.Elements = next
	if replaceTop {
		b.History[b.HistoryIndex] = next
	}
	s.mu.Unlock()
	s.notify()
}

// AsyncAnchor returns the active board id and its current history index. A
// background job captures it right after committing its placeholder so the
// eventual result can be resolved onto the right board and slot.
func (s *Store) AsyncAnchor() (string, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.activeLocked()
	return b.Id, b.HistoryIndex
}

// ResolveAsync rewrites a background job's committed placeholder on whichever
// board holds it. While the anchored slot is still that board's top the swap
// overwrites it in place, keeping the whole job a single undo step; once the
// user has committed past it the swap lands as its own history entry. A
// placeholder gone from the board's live elements (undone, deleted, board
// removed) drops the result.
func (s *Store) ResolveAsync(boardId, elementId string, index int, up Updater) bool {
	s.mu.Lock()
	var b *Board
	for _, cand := range s.boards {
		if cand.Id == boardId {
			b = cand
			break
		}
	}
	if b == nil || Find(b.Elements, elementId) == nil {
		s.mu.Unlock()
		return false
	}
	next := up(b.Elements)
	if index == b.HistoryIndex && index == len(b.History)-1 {
		b.History[index] = next
	} else {
		b.History = append(b.History[:b.HistoryIndex+1], next)
		b.HistoryIndex = len(b.History) - 1
	}
	b.Elements = next
	if b.Id == s.activeId {
		s.pruneSelectionLocked(b)
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// Undo steps the active board's history pointer back; no-op at index 0.
func (s *Store) Undo() {
	s.mu.Lock()
	b := s.activeLocked()
	if !b.CanUndo() {
		s.mu.Unlock()
		return
	}
	b.HistoryIndex--
	b.Elements = b.History[b.HistoryIndex]
	s.pruneSelectionLocked(b)
	s.mu.Unlock()
	s.notify()
}

// Redo steps the pointer forward; no-op at the last index.
func (s *Store) Redo() {
	s.mu.Lock()
	b := s.activeLocked()
	if !b.CanRedo() {
		s.mu.Unlock()
		return
	}
	b.HistoryIndex++
	b.Elements = b.History[b.HistoryIndex]
	s.pruneSelectionLocked(b)
	s.mu.Unlock()
	s.notify()
}

// Selection is not restored by undo/redo, but ids that vanished from the
// scene must not linger in it.
func (s *Store) pruneSelectionLocked(b *Board) {
	if len(s.selection) == 0 {
		return
	}
	byId := IndexById(b.Elements)
	for id := range s.selection {
		if byId[id] == nil {
			delete(s.selection, id)
		}
	}
}

// AddBoard appends a new board and makes it active.
func (s *Store) AddBoard(name string) *Board {
	s.mu.Lock()
	b := NewBoard(name)
	s.boards = append(s.boards, b)
	s.activeId = b.Id
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	log.Printf("[scene] added board %q (%s)", name, b.Id)
	s.notify()
	return b
}

// AdoptBoard inserts an externally constructed board (e.g. loaded from disk)
// and makes it active.
func (s *Store) AdoptBoard(b *Board) {
	s.mu.Lock()
	s.boards = append(s.boards, b)
	s.activeId = b.Id
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	log.Printf("[scene] adopted board %q (%s)", b.Name, b.Id)
	s.notify()
}

// DeleteBoard removes a board; refused for the last remaining one. If the
// active board is deleted, the first remaining board becomes active.
func (s *Store) DeleteBoard(id string) bool {
	s.mu.Lock()
	if len(s.boards) <= 1 {
		s.mu.Unlock()
		return false
	}
	kept := s.boards[:0]
	removed := false
	for _, b := range s.boards {
		if b.Id == id {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	s.boards = kept
	if removed && s.activeId == id {
		s.activeId = s.boards[0].Id
		s.selection = make(map[string]struct{})
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
	return removed
}

// SetActiveBoard switches boards. Selection and any board-scoped transient
// state reset only on an actual id change, never on a repeated call with the
// same id, so UI mirrors don't feed back into themselves.
func (s *Store) SetActiveBoard(id string) bool {
	s.mu.Lock()
	if s.activeId == id {
		s.mu.Unlock()
		return false
	}
	found := false
	for _, b := range s.boards {
		if b.Id == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	s.activeId = id
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
	return true
}

// SetPan updates the active board's camera offset; never a history entry.
func (s *Store) SetPan(x, y float32) {
	s.mu.Lock()
	b := s.activeLocked()
	b.PanX, b.PanY = x, y
	s.mu.Unlock()
	s.notify()
}

// SetZoom updates the active board's zoom factor; never a history entry.
func (s *Store) SetZoom(z float32) {
	s.mu.Lock()
	b := s.activeLocked()
	b.Zoom = z
	s.mu.Unlock()
	s.notify()
}

// SetBackground updates the active board's background; never a history entry.
func (s *Store) SetBackground(bg string) {
	s.mu.Lock()
	b := s.activeLocked()
	b.Background = bg
	s.mu.Unlock()
	s.notify()
}

// SetSelection replaces the selection with the given ids.
func (s *Store) SetSelection(ids ...string) {
	s.mu.Lock()
	s.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selection[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// Select adds ids to the selection.
func (s *Store) Select(ids ...string) {
	s.mu.Lock()
	for _, id := range ids {
		s.selection[id] = struct{}{}
	}
	s.mu.Unlock()
	s.notify()
}

// Deselect removes ids from the selection.
func (s *Store) Deselect(ids ...string) {
	s.mu.Lock()
	for _, id := range ids {
		delete(s.selection, id)
	}
	s.mu.Unlock()
	s.notify()
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = make(map[string]struct{})
	s.mu.Unlock()
	s.notify()
}

// IsSelected reports membership.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selection[id]
	return ok
}

// SelectedIds returns the selected ids in the active board's z-order.
func (s *Store) SelectedIds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.activeLocked()
	out := make([]string, 0, len(s.selection))
	for _, e := range b.Elements {
		if _, ok := s.selection[e.Id]; ok {
			out = append(out, e.Id)
		}
	}
	return out
}
