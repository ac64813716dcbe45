package scene

// Board is one independent canvas workspace: its elements, a linear history
// of full element-slice snapshots, and the camera (pan/zoom) plus background.
// Pan/zoom and background belong to the board record but stay outside the
// undo/redo domain; only element edits are undoable.
type Board struct {
	Id   string `json:"id"`
	Name string `json:"name"`

	Elements []*Element `json:"elements"`

	// History[HistoryIndex] always aliases Elements after a committed
	// operation. Snapshots share unchanged element pointers, so they are
	// cheap; mutations replace elements rather than editing them in place.
	History      [][]*Element `json:"-"`
	HistoryIndex int          `json:"-"`

	PanX       float32 `json:"pan_x"`
	PanY       float32 `json:"pan_y"`
	Zoom       float32 `json:"zoom"`
	Background string  `json:"background,omitempty"`
}

// NewBoard creates an empty board with a single empty history entry.
func NewBoard(name string) *Board {
	elements := make([]*Element, 0)
	return &Board{
		Id:           NewId(),
		Name:         name,
		Elements:     elements,
		History:      [][]*Element{elements},
		HistoryIndex: 0,
		Zoom:         1,
	}
}

// CanUndo reports whether the history pointer can move back.
func (b *Board) CanUndo() bool { return b.HistoryIndex > 0 }

// CanRedo reports whether the history pointer can move forward.
func (b *Board) CanRedo() bool { return b.HistoryIndex < len(b.History)-1 }
