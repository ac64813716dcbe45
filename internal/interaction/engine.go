package interaction

import (
	"sync/atomic"
	"time"

	"GenCanvas/internal/genai"
	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// Tool is the active toolbar tool.
type Tool string

const (
	ToolSelect      Tool = "select"
	ToolPan         Tool = "pan"
	ToolDraw        Tool = "draw"
	ToolHighlighter Tool = "highlighter"
	ToolShape       Tool = "shape"
	ToolFrame       Tool = "frame"
	ToolArrow       Tool = "arrow"
	ToolLine        Tool = "line"
	ToolErase       Tool = "erase"
	ToolLasso       Tool = "lasso"
	ToolText        Tool = "text"
)

// Mode is the current interaction mode. Modes are mutually exclusive; every
// mode returns to ModeIdle on pointer-up, there are no mode-to-mode
// transitions.
type Mode int

const (
	ModeIdle Mode = iota
	ModePan
	ModeDraw
	ModeDrawShape
	ModeDrawFrame
	ModeDrawArrow
	ModeDrawLine
	ModeErase
	ModeLasso
	ModeDrag
	ModeSelectBox
	ModeResize
	ModeRotate
	ModeCrop
	ModeAIRotate
	ModeSelectRef
)

// Handle identifies a resize/crop handle or the rotate handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleRotate
	HandleBody // select-ref: dragging the whole reference box
)

// Modifiers are the keyboard modifiers accompanying a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// PointerEvent is one raw pointer sample in screen space. The engine converts
// to canvas space using the active board's pan/zoom.
type PointerEvent struct {
	Screen geom.Point
	Mods   Modifiers
}

// Fixed screen-space sizes, divided by zoom before use in canvas space.
const (
	snapThreshold      = 5
	handleHitSize      = 10
	rotateHandleOffset = 24
	eraseRadius        = 12
	minElementSize     = 1
	spacePanTap        = 200 * time.Millisecond
	aiMaxRadius        = 80
	aiMinFraction      = 0.05
	duplicateOffset    = 16
	placeGap           = 24
)

// gesture is the context of the gesture in flight. It is owned by the engine
// and rebuilt on every pointer-down; nothing here is ambient global state.
type gesture struct {
	mode   Mode
	handle Handle

	start       geom.Point // canvas-space pointer-down position
	startScreen geom.Point
	last        geom.Point

	// origins snapshots every element touched by the gesture at its state at
	// pointer-down; deltas always apply to these, never to the live, already
	// moving values, so repeated moves cannot compound error.
	origins map[string]*scene.Element

	origBounds   geom.Rect
	origRotation float32
	targetId     string // element being resized/rotated/cropped
	newId        string // element created by a draw mode

	panStartX, panStartY float32

	lasso   []geom.Point
	pending []string // provisional select-box selection

	changed bool // an erase/drag actually altered the scene

	aiDX, aiDY float32
}

// Engine interprets pointer/keyboard sequences against the active board and
// turns them into transient updates or commits on the store. It owns no
// element data itself.
type Engine struct {
	store *scene.Store
	svc   genai.Service

	tool      Tool
	shapeKind scene.ShapeKind

	// defaults stamped onto newly created elements
	StrokeColor string
	FillColor   string
	StrokeWidth float32
	FontSize    float32

	g gesture

	// momentary overrides
	prevTool    Tool
	spaceHeld   bool
	spaceDownAt time.Time
	shiftErase  bool

	// overlay state (crop / reference-selection / ai-rotate); these survive
	// across gestures until confirmed or cancelled.
	cropId   string
	cropRect geom.Rect
	refId    string
	refRect  geom.Rect
	aiId     string
	aiMode   AIMode

	// loading gates generation calls to one in flight; the background job
	// goroutine clears it, so it is atomic rather than UI-goroutine state.
	loading atomic.Bool

	// Now is replaceable in tests.
	Now func() time.Time

	// OnStatus surfaces inline user-visible messages.
	OnStatus func(msg string)
	// OnUploadAt is called for a double-click on empty canvas.
	OnUploadAt func(p geom.Point)
	// OnEditText is called for a double-click on a text or frame element.
	OnEditText func(id string)
}

// AIMode selects what the ai-rotate drag steers.
type AIMode string

const (
	AICamera  AIMode = "camera"
	AISubject AIMode = "subject"
)

// NewEngine wires an engine to its store; svc may be nil when no gateway is
// reachable (AI gestures then report a status message instead).
func NewEngine(store *scene.Store, svc genai.Service) *Engine {
	return &Engine{
		store:       store,
		svc:         svc,
		tool:        ToolSelect,
		shapeKind:   scene.ShapeRectangle,
		StrokeColor: "#1a1a1a",
		FillColor:   "#d9e8fb",
		StrokeWidth: 3,
		FontSize:    16,
		Now:         time.Now,
	}
}

// Tool returns the active tool.
func (en *Engine) Tool() Tool { return en.tool }

// Mode returns the in-flight mode (ModeIdle between gestures).
func (en *Engine) Mode() Mode { return en.g.mode }

// SetTool switches the active tool and drops overlay state that only makes
// sense under select.
func (en *Engine) SetTool(t Tool) {
	en.tool = t
	if t != ToolSelect {
		en.CancelCrop()
		en.CancelRef()
		en.aiId = ""
	}
}

// SetShapeKind selects which shape the shape tool draws.
func (en *Engine) SetShapeKind(k scene.ShapeKind) { en.shapeKind = k }

func (en *Engine) status(msg string) {
	if en.OnStatus != nil {
		en.OnStatus(msg)
	}
}

// canvasPoint converts a screen point using the active board's camera.
func (en *Engine) canvasPoint(p geom.Point) geom.Point {
	b := en.store.Active()
	return geom.ScreenToCanvas(p, b.PanX, b.PanY, b.Zoom)
}

func (en *Engine) zoom() float32 {
	z := en.store.Active().Zoom
	if z <= 0 {
		return 1
	}
	return z
}

// PointerDown decides the mode for the gesture that begins with this event.
// Overlay handles (ai-rotate, crop, reference box) take priority over resize
// handles, which take priority over element bodies.
func (en *Engine) PointerDown(ev PointerEvent) {
	p := en.canvasPoint(ev.Screen)
	en.g = gesture{mode: ModeIdle, start: p, startScreen: ev.Screen, last: p}

	if en.spaceHeld || en.tool == ToolPan {
		b := en.store.Active()
		en.g.mode = ModePan
		en.g.panStartX, en.g.panStartY = b.PanX, b.PanY
		return
	}

	if en.aiId != "" && en.downAIRotate(p) {
		return
	}
	if en.cropId != "" && en.downCrop(p) {
		return
	}
	if en.refId != "" && en.downRef(p) {
		return
	}

	switch en.tool {
	case ToolSelect:
		en.downSelect(p, ev.Mods)
	case ToolDraw, ToolHighlighter:
		en.beginFreehand(p)
	case ToolShape:
		en.beginShape(p)
	case ToolFrame:
		en.beginFrame(p)
	case ToolArrow:
		en.beginTwoPoint(p, scene.KindArrow, ModeDrawArrow)
	case ToolLine:
		en.beginTwoPoint(p, scene.KindLine, ModeDrawLine)
	case ToolErase:
		en.g.mode = ModeErase
		en.eraseAt(p)
	case ToolLasso:
		en.g.mode = ModeLasso
		en.g.lasso = []geom.Point{p}
	case ToolText:
		en.beginText(p)
	}
}

// PointerMove advances the in-flight gesture. All work here is synchronous
// and at worst O(elements); nothing blocks.
func (en *Engine) PointerMove(ev PointerEvent) {
	p := en.canvasPoint(ev.Screen)
	switch en.g.mode {
	case ModePan:
		en.store.SetPan(
			en.g.panStartX+(ev.Screen.X-en.g.startScreen.X),
			en.g.panStartY+(ev.Screen.Y-en.g.startScreen.Y),
		)
	case ModeDrag:
		en.moveDrag(p)
	case ModeResize:
		en.moveResize(p, ev.Mods)
	case ModeRotate:
		en.moveRotate(p, ev.Mods)
	case ModeDraw:
		en.moveFreehand(p)
	case ModeDrawShape, ModeDrawFrame:
		en.moveShape(p, ev.Mods)
	case ModeDrawArrow, ModeDrawLine:
		en.moveTwoPoint(p)
	case ModeErase:
		en.eraseAt(p)
	case ModeLasso:
		en.g.lasso = append(en.g.lasso, p)
	case ModeSelectBox:
		en.moveSelectBox(p)
	case ModeCrop:
		en.moveCrop(p)
	case ModeSelectRef:
		en.moveRef(p)
	case ModeAIRotate:
		en.moveAIRotate(p)
	}
	en.g.last = p
}

// PointerUp finalizes the gesture: commits where something changed, applies
// frame containment, reverts one-shot tools, and returns to idle.
func (en *Engine) PointerUp(ev PointerEvent) {
	switch en.g.mode {
	case ModeDrag:
		en.endDrag()
	case ModeResize, ModeRotate:
		en.endTransform()
	case ModeDraw:
		en.endFreehand()
	case ModeDrawShape, ModeDrawFrame, ModeDrawArrow, ModeDrawLine:
		en.endDrawn()
	case ModeErase:
		en.endErase()
	case ModeLasso:
		en.endLasso()
	case ModeSelectBox:
		en.endSelectBox()
	case ModeCrop:
		// Crop rect edits are overlay-only; the commit happens on ConfirmCrop.
	case ModeSelectRef:
		// Same: ConfirmRef commits.
	case ModeAIRotate:
		en.endAIRotate()
	}
	en.g = gesture{mode: ModeIdle}
}

// DoubleTap handles double-click: text/frame elements enter inline editing,
// empty canvas under the select tool triggers upload-at-point.
func (en *Engine) DoubleTap(ev PointerEvent) {
	if en.tool != ToolSelect {
		return
	}
	p := en.canvasPoint(ev.Screen)
	top := scene.TopmostAt(en.store.Elements(), p)
	if top != nil && (top.Kind == scene.KindText || top.Kind == scene.KindFrame) {
		if en.OnEditText != nil {
			en.OnEditText(top.Id)
		}
		return
	}
	if top == nil && en.OnUploadAt != nil {
		en.OnUploadAt(p)
	}
}
