package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// The default board has pan 0 and zoom 1, so screen and canvas coordinates
// coincide in these tests.

func newTestEngine() (*scene.Store, *Engine) {
	store := scene.NewStore()
	return store, NewEngine(store, nil)
}

func ev(x, y float32) PointerEvent {
	return PointerEvent{Screen: geom.Pt(x, y)}
}

func evShift(x, y float32) PointerEvent {
	return PointerEvent{Screen: geom.Pt(x, y), Mods: Modifiers{Shift: true}}
}

// drag runs a full down-move-up gesture through the given points.
func drag(en *Engine, pts ...PointerEvent) {
	en.PointerDown(pts[0])
	for _, p := range pts[1:] {
		en.PointerMove(p)
	}
	en.PointerUp(pts[len(pts)-1])
}

func drawShape(en *Engine, x0, y0, x1, y1 float32) *scene.Element {
	en.SetTool(ToolShape)
	drag(en, ev(x0, y0), ev(x1, y1))
	ids := en.store.SelectedIds()
	if len(ids) != 1 {
		return nil
	}
	return scene.Find(en.store.Elements(), ids[0])
}

func TestDrawRectangle(t *testing.T) {
	store, en := newTestEngine()

	e := drawShape(en, 100, 100, 300, 250)
	require.NotNil(t, e)
	assert.Equal(t, scene.KindShape, e.Kind)
	assert.Equal(t, float32(100), e.X)
	assert.Equal(t, float32(100), e.Y)
	assert.Equal(t, float32(200), e.Width)
	assert.Equal(t, float32(150), e.Height)

	// One gesture, one history entry; the tool reverts to select.
	assert.Len(t, store.Active().History, 2)
	assert.Equal(t, ToolSelect, en.Tool())
}

func TestDrawShapeReverseDirection(t *testing.T) {
	_, en := newTestEngine()
	e := drawShape(en, 300, 250, 100, 100)
	require.NotNil(t, e)
	assert.Equal(t, float32(100), e.X)
	assert.Equal(t, float32(100), e.Y)
	assert.Equal(t, float32(200), e.Width)
	assert.Equal(t, float32(150), e.Height)
}

func TestDrawShapeShiftSquare(t *testing.T) {
	_, en := newTestEngine()
	en.SetTool(ToolShape)
	drag(en, ev(100, 100), evShift(300, 150))
	e := scene.Find(en.store.Elements(), en.store.SelectedIds()[0])
	require.NotNil(t, e)
	assert.Equal(t, e.Width, e.Height)
	assert.Equal(t, float32(200), e.Width)
}

func TestFreehandKeepsToolActive(t *testing.T) {
	store, en := newTestEngine()
	en.SetTool(ToolDraw)
	drag(en, ev(10, 10), ev(20, 20), ev(30, 25))
	require.Len(t, store.Elements(), 1)
	e := store.Elements()[0]
	assert.Equal(t, scene.KindPath, e.Kind)
	assert.Len(t, e.Points, 3)
	assert.Equal(t, ToolDraw, en.Tool())

	drag(en, ev(50, 50), ev(60, 60))
	assert.Len(t, store.Elements(), 2)
}

func TestHighlighterStyle(t *testing.T) {
	store, en := newTestEngine()
	en.StrokeWidth = 3
	en.SetTool(ToolHighlighter)
	drag(en, ev(10, 10), ev(20, 20))
	e := store.Elements()[0]
	assert.InDelta(t, 0.4, e.Opacity, 1e-4)
	assert.Equal(t, float32(12), e.StrokeWidth)
}

func TestDragRoundTripBitForBit(t *testing.T) {
	_, en := newTestEngine()
	e := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, e)
	origX, origY := e.X, e.Y

	// Drag away and back in two separate gestures; with nothing to snap
	// against the element returns to exactly its original position.
	drag(en, ev(150, 150), ev(400, 330))
	drag(en, ev(400, 330), ev(150, 150))

	moved := scene.Find(en.store.Elements(), e.Id)
	require.NotNil(t, moved)
	assert.Equal(t, origX, moved.X)
	assert.Equal(t, origY, moved.Y)
}

func TestDragSnapsToNearbyEdge(t *testing.T) {
	store, en := newTestEngine()
	static := drawShape(en, 0, 0, 100, 100)
	require.NotNil(t, static)
	moving := drawShape(en, 200, 0, 250, 50)
	require.NotNil(t, moving)

	// Drag left so the left edge lands at 103, within the 5px snap threshold
	// of the static right edge at 100.
	drag(en, ev(225, 25), ev(128, 25))

	got := scene.Find(store.Elements(), moving.Id)
	require.NotNil(t, got)
	assert.Equal(t, float32(100), got.X)
}

func TestDragCommitsOncePerGesture(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, e)
	before := len(store.Active().History)

	drag(en, ev(150, 150), ev(500, 150), ev(700, 300), ev(800, 400))
	assert.Equal(t, before+1, len(store.Active().History))
}

func TestFrameReparentOnDraw(t *testing.T) {
	store, en := newTestEngine()
	en.SetTool(ToolFrame)
	drag(en, ev(0, 0), ev(500, 500))
	frame := scene.Find(store.Elements(), store.SelectedIds()[0])
	require.NotNil(t, frame)
	require.Equal(t, scene.KindFrame, frame.Kind)

	shape := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, shape)
	assert.Equal(t, frame.Id, shape.ParentId)
}

func TestFrameReparentClearedOnDragOut(t *testing.T) {
	store, en := newTestEngine()
	en.SetTool(ToolFrame)
	drag(en, ev(0, 0), ev(500, 500))
	shape := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, shape)
	require.NotEmpty(t, shape.ParentId)

	drag(en, ev(150, 150), ev(1150, 1150))
	got := scene.Find(store.Elements(), shape.Id)
	require.NotNil(t, got)
	assert.Empty(t, got.ParentId)
}

func TestSmallestEnclosingFrameWins(t *testing.T) {
	store, en := newTestEngine()
	en.SetTool(ToolFrame)
	drag(en, ev(0, 0), ev(1000, 1000))
	outer := store.SelectedIds()[0]
	en.SetTool(ToolFrame)
	drag(en, ev(50, 50), ev(500, 500))
	inner := store.SelectedIds()[0]
	require.NotEqual(t, outer, inner)

	shape := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, shape)
	assert.Equal(t, inner, shape.ParentId)
}

func TestGroupDeleteClosure(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 100, 100, 150, 150)
	require.NotNil(t, a)
	require.NotNil(t, b)

	store.SetSelection(a.Id, b.Id)
	en.GroupSelection()
	require.Len(t, store.Elements(), 3)
	require.Len(t, store.SelectedIds(), 1)

	en.DeleteSelection()
	assert.Empty(t, store.Elements())
}

func TestDeleteLockedIsNoop(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 0, 0, 50, 50)
	require.NotNil(t, e)
	locked := e.Clone()
	locked.Locked = true
	store.Commit(replaceElement(locked))

	store.SetSelection(e.Id)
	before := len(store.Active().History)
	en.DeleteSelection()
	assert.Len(t, store.Elements(), 1)
	assert.Equal(t, before, len(store.Active().History))
	assert.Equal(t, []string{e.Id}, store.SelectedIds())
}

func TestDeleteHotkey(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 0, 0, 50, 50)
	require.NotNil(t, e)
	store.SetSelection(e.Id)
	en.KeyDown(KeyDelete, Modifiers{})
	assert.Empty(t, store.Elements())
}

func TestGroupIsOpaqueToClicks(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 100, 100, 150, 150)
	store.SetSelection(a.Id, b.Id)
	en.GroupSelection()
	groupId := store.SelectedIds()[0]
	store.ClearSelection()

	// Clicking a member selects the group.
	drag(en, ev(25, 25), ev(25, 25))
	assert.Equal(t, []string{groupId}, store.SelectedIds())
}

func TestUngroupFreesChildren(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 100, 100, 150, 150)
	store.SetSelection(a.Id, b.Id)
	en.GroupSelection()

	en.UngroupSelection()
	assert.Len(t, store.Elements(), 2)
	for _, e := range store.Elements() {
		assert.Empty(t, e.ParentId)
	}
	assert.ElementsMatch(t, []string{a.Id, b.Id}, store.SelectedIds())
}

func TestAlignLeft(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 200, 100, 260, 150)
	store.SetSelection(a.Id, b.Id)

	en.AlignSelection(AlignLeft)
	for _, id := range []string{a.Id, b.Id} {
		e := scene.Find(store.Elements(), id)
		require.NotNil(t, e)
		assert.Equal(t, float32(0), e.X, id)
	}
}

func TestAlignBottom(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 200, 100, 260, 200)
	store.SetSelection(a.Id, b.Id)

	en.AlignSelection(AlignBottom)
	ea := scene.Find(store.Elements(), a.Id)
	eb := scene.Find(store.Elements(), b.Id)
	assert.Equal(t, float32(150), ea.Y)
	assert.Equal(t, float32(100), eb.Y)
}

func TestProportionalImageResizeKeepsTopLeft(t *testing.T) {
	store, en := newTestEngine()
	img := &scene.Element{
		Id: scene.NewId(), Kind: scene.KindImage,
		X: 100, Y: 100, Width: 200, Height: 100,
	}
	store.Commit(func(els []*scene.Element) []*scene.Element {
		return append(append([]*scene.Element{}, els...), img)
	})
	store.SetSelection(img.Id)

	// Grab the SE handle and drag; images resize proportionally with no
	// modifier, anchored at the opposite (NW) corner.
	drag(en, ev(300, 200), ev(400, 220))

	got := scene.Find(store.Elements(), img.Id)
	require.NotNil(t, got)
	assert.Equal(t, float32(100), got.X)
	assert.Equal(t, float32(100), got.Y)
	assert.Equal(t, float32(300), got.Width)
	assert.Equal(t, float32(150), got.Height)
}

func TestResizeRotatedKeepsWorldAnchor(t *testing.T) {
	orig := geom.R(0, 0, 100, 50)
	o := &scene.Element{
		Id: scene.NewId(), Kind: scene.KindShape,
		X: 0, Y: 0, Width: 100, Height: 50, Rotation: 90,
	}
	anchorBefore := geom.RotatePoint(anchorPoint(orig, HandleSE), orig.Center(), o.Rotation)

	resized := resizeElement(o, orig, HandleSE, geom.Pt(40, 20), false)
	newR := geom.R(resized.X, resized.Y, resized.Width, resized.Height)
	anchorAfter := geom.RotatePoint(anchorPoint(newR, HandleSE), newR.Center(), o.Rotation)

	assert.InDelta(t, anchorBefore.X, anchorAfter.X, 1e-2)
	assert.InDelta(t, anchorBefore.Y, anchorAfter.Y, 1e-2)
	assert.Equal(t, float32(140), resized.Width)
	assert.Equal(t, float32(70), resized.Height)
}

func TestResizeClampsToMinimum(t *testing.T) {
	orig := geom.R(0, 0, 100, 50)
	o := &scene.Element{Id: scene.NewId(), Kind: scene.KindShape, Width: 100, Height: 50}
	resized := resizeElement(o, orig, HandleSE, geom.Pt(-500, -500), false)
	assert.Equal(t, float32(minElementSize), resized.Width)
	assert.Equal(t, float32(minElementSize), resized.Height)
}

func TestResizeRescalesPathPoints(t *testing.T) {
	o := &scene.Element{
		Id: scene.NewId(), Kind: scene.KindLine,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 50}},
	}
	orig := geom.R(0, 0, 100, 50)
	resized := resizeElement(o, orig, HandleSE, geom.Pt(100, 50), false)
	assert.Equal(t, geom.Pt(0, 0), resized.Points[0])
	assert.Equal(t, geom.Pt(200, 100), resized.Points[1])
}

func TestRotateSnapsWithShift(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 100, 100, 200, 200)
	require.NotNil(t, e)

	// The rotate handle sits above the top edge midpoint.
	en.PointerDown(ev(150, 76))
	require.Equal(t, ModeRotate, en.Mode())
	en.PointerMove(evShift(200, 60))
	en.PointerUp(evShift(200, 60))

	// The raw sweep is about 29 degrees; shift snaps it to 30.
	got := scene.Find(store.Elements(), e.Id)
	require.NotNil(t, got)
	assert.Equal(t, float32(30), got.Rotation)
}

func TestSelectBoxPicksIntersecting(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 100, 100, 150, 150)
	b := drawShape(en, 300, 300, 350, 350)
	far := drawShape(en, 900, 900, 950, 950)
	store.ClearSelection()

	drag(en, ev(50, 50), ev(400, 400))
	assert.ElementsMatch(t, []string{a.Id, b.Id}, store.SelectedIds())
	assert.False(t, store.IsSelected(far.Id))
}

func TestSelectBoxEmptyClearsSelection(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 100, 100, 150, 150)
	store.SetSelection(e.Id)

	drag(en, ev(500, 500), ev(520, 520))
	assert.Empty(t, store.SelectedIds())
}

func TestLassoSelectsByCenter(t *testing.T) {
	store, en := newTestEngine()
	inside := drawShape(en, 100, 100, 150, 150)
	outside := drawShape(en, 400, 400, 450, 450)
	store.ClearSelection()

	en.SetTool(ToolLasso)
	drag(en, ev(50, 50), ev(250, 50), ev(250, 250), ev(50, 250))
	assert.Equal(t, []string{inside.Id}, store.SelectedIds())
	assert.False(t, store.IsSelected(outside.Id))
}

func TestEraseRemovesPathsCommitsOnce(t *testing.T) {
	store, en := newTestEngine()
	en.SetTool(ToolDraw)
	drag(en, ev(10, 10), ev(30, 30), ev(50, 50))
	drag(en, ev(200, 200), ev(250, 250))
	require.Len(t, store.Elements(), 2)
	before := len(store.Active().History)

	en.SetTool(ToolErase)
	drag(en, ev(30, 30), ev(40, 40))
	assert.Len(t, store.Elements(), 1)
	assert.Equal(t, before+1, len(store.Active().History))

	// Erasing over empty space commits nothing.
	drag(en, ev(600, 600), ev(620, 620))
	assert.Equal(t, before+1, len(store.Active().History))
}

func TestEraseOnlyTouchesPaths(t *testing.T) {
	store, en := newTestEngine()
	shape := drawShape(en, 0, 0, 100, 100)
	require.NotNil(t, shape)

	en.SetTool(ToolErase)
	drag(en, ev(50, 50), ev(60, 60))
	assert.NotNil(t, scene.Find(store.Elements(), shape.Id))
}

func TestSpaceTapTogglesPanTool(t *testing.T) {
	_, en := newTestEngine()
	now := time.Unix(0, 0)
	en.Now = func() time.Time { return now }

	en.KeyDown(KeySpace, Modifiers{})
	now = now.Add(100 * time.Millisecond)
	en.KeyUp(KeySpace)
	assert.Equal(t, ToolPan, en.Tool())

	// A second tap toggles back.
	en.KeyDown(KeySpace, Modifiers{})
	now = now.Add(100 * time.Millisecond)
	en.KeyUp(KeySpace)
	assert.Equal(t, ToolSelect, en.Tool())
}

func TestSpaceHoldIsMomentaryPan(t *testing.T) {
	store, en := newTestEngine()
	now := time.Unix(0, 0)
	en.Now = func() time.Time { return now }
	en.SetTool(ToolDraw)

	en.KeyDown(KeySpace, Modifiers{})
	drag(en, ev(100, 100), ev(150, 130))
	assert.Equal(t, float32(50), store.Active().PanX)
	assert.Equal(t, float32(30), store.Active().PanY)
	// Panning never enters history and draws nothing.
	assert.Len(t, store.Active().History, 1)
	assert.Empty(t, store.Elements())

	now = now.Add(400 * time.Millisecond)
	en.KeyUp(KeySpace)
	assert.Equal(t, ToolDraw, en.Tool())
}

func TestShiftErasesDuringDraw(t *testing.T) {
	_, en := newTestEngine()
	en.SetTool(ToolDraw)
	en.KeyDown(KeyShiftL, Modifiers{Shift: true})
	assert.Equal(t, ToolErase, en.Tool())
	en.KeyUp(KeyShiftL)
	assert.Equal(t, ToolDraw, en.Tool())

	// Shift under the select tool does not switch tools.
	en.SetTool(ToolSelect)
	en.KeyDown(KeyShiftL, Modifiers{Shift: true})
	assert.Equal(t, ToolSelect, en.Tool())
	en.KeyUp(KeyShiftL)
}

func TestUndoRedoHotkeys(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 0, 0, 50, 50)
	require.NotNil(t, e)

	en.KeyDown(KeyZ, Modifiers{Ctrl: true})
	assert.Empty(t, store.Elements())
	en.KeyDown(KeyZ, Modifiers{Ctrl: true, Shift: true})
	assert.Len(t, store.Elements(), 1)
	en.KeyDown(KeyZ, Modifiers{Ctrl: true})
	en.KeyDown(KeyY, Modifiers{Ctrl: true})
	assert.Len(t, store.Elements(), 1)
}

func TestEscapeClearsOverlaysAndSelection(t *testing.T) {
	store, en := newTestEngine()
	img := &scene.Element{Id: scene.NewId(), Kind: scene.KindImage, X: 0, Y: 0, Width: 100, Height: 100}
	store.Commit(func(els []*scene.Element) []*scene.Element { return append(els, img) })
	store.SetSelection(img.Id)
	require.True(t, en.BeginCrop())

	en.KeyDown(KeyEscape, Modifiers{})
	id, _ := en.CropRect()
	assert.Empty(t, id)
	assert.Empty(t, store.SelectedIds())
}

func TestDuplicateOffsetsClones(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 100, 100, 150, 150)
	require.NotNil(t, e)

	en.DuplicateSelection()
	require.Len(t, store.Elements(), 2)
	dup := scene.Find(store.Elements(), store.SelectedIds()[0])
	require.NotNil(t, dup)
	assert.NotEqual(t, e.Id, dup.Id)
	assert.Equal(t, e.X+duplicateOffset, dup.X)
	assert.Equal(t, e.Y+duplicateOffset, dup.Y)
}

func TestDuplicateRemapsGroupParents(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 100, 100, 150, 150)
	store.SetSelection(a.Id, b.Id)
	en.GroupSelection()
	groupId := store.SelectedIds()[0]

	en.DuplicateSelection()
	require.Len(t, store.Elements(), 6)
	dupGroupId := store.SelectedIds()[0]
	assert.NotEqual(t, groupId, dupGroupId)

	children := scene.Descendants(store.Elements(), dupGroupId)
	assert.Len(t, children, 2)
	for _, c := range children {
		assert.Equal(t, dupGroupId, c.ParentId)
	}
}

func TestBringForward(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 50, 50)
	b := drawShape(en, 100, 100, 150, 150)
	store.SetSelection(a.Id)

	en.BringForward()
	els := store.Elements()
	assert.Equal(t, b.Id, els[0].Id)
	assert.Equal(t, a.Id, els[1].Id)

	// Already on top: stable.
	en.BringForward()
	assert.Equal(t, a.Id, store.Elements()[1].Id)
}

func TestPanToolNeverCommits(t *testing.T) {
	store, en := newTestEngine()
	drawShape(en, 0, 0, 50, 50)
	before := len(store.Active().History)

	en.SetTool(ToolPan)
	drag(en, ev(100, 100), ev(220, 160))
	assert.Equal(t, float32(120), store.Active().PanX)
	assert.Equal(t, float32(60), store.Active().PanY)
	assert.Equal(t, before, len(store.Active().History))
}

func TestZoomAdjustsPointerMath(t *testing.T) {
	store, en := newTestEngine()
	store.SetZoom(2)
	store.SetPan(100, 100)

	e := drawShape(en, 100, 100, 300, 300)
	require.NotNil(t, e)
	// Screen (100,100) is canvas (0,0) under pan 100 / zoom 2.
	assert.Equal(t, float32(0), e.X)
	assert.Equal(t, float32(100), e.Width)
}

func TestGenerateWithoutServiceReportsStatus(t *testing.T) {
	store, en := newTestEngine()
	var status string
	en.OnStatus = func(msg string) { status = msg }

	e := drawShape(en, 0, 0, 50, 50)
	require.NotNil(t, e)
	before := len(store.Active().History)

	en.EditSelection("make it blue")
	assert.Equal(t, "No generation gateway configured", status)
	assert.Equal(t, before, len(store.Active().History))
	assert.Len(t, store.Elements(), 1)
}

func setHidden(store *scene.Store, id string) {
	store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els))
		for i, e := range els {
			if e.Id == id {
				c := e.Clone()
				c.Hidden = true
				next[i] = c
			} else {
				next[i] = e
			}
		}
		return next
	})
}

func TestSelectBoxSkipsHidden(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 40, 40)
	b := drawShape(en, 100, 0, 140, 40)
	require.NotNil(t, a)
	require.NotNil(t, b)
	setHidden(store, b.Id)

	drag(en, ev(-10, -10), ev(150, 60))
	ids := store.SelectedIds()
	require.Len(t, ids, 1)
	assert.Equal(t, a.Id, ids[0])
}

func TestLassoSkipsHidden(t *testing.T) {
	store, en := newTestEngine()
	a := drawShape(en, 0, 0, 40, 40)
	b := drawShape(en, 100, 0, 140, 40)
	require.NotNil(t, a)
	require.NotNil(t, b)
	setHidden(store, b.Id)

	en.SetTool(ToolLasso)
	drag(en, ev(-20, -20), ev(200, -20), ev(200, 80), ev(-20, 80))
	ids := store.SelectedIds()
	require.Len(t, ids, 1)
	assert.Equal(t, a.Id, ids[0])
}

func TestSnapTieBreaksInZOrder(t *testing.T) {
	store, en := newTestEngine()
	m1 := drawShape(en, 90, 0, 130, 40)
	m2 := drawShape(en, 190, 0, 230, 40)
	require.NotNil(t, m1)
	require.NotNil(t, m2)

	// Wide statics whose left edges are equidistant candidates for the two
	// moving elements, pulling in opposite directions.
	drawShape(en, 103, 300, 503, 340)
	drawShape(en, 197, 600, 597, 640)

	store.SetSelection(m1.Id, m2.Id)
	drag(en, ev(110, 20), ev(120, 20))

	// m1 is earlier in z-order, so its +3 candidate wins the tie over m2's -3.
	assert.Equal(t, float32(103), scene.Find(store.Elements(), m1.Id).X)
	assert.Equal(t, float32(203), scene.Find(store.Elements(), m2.Id).X)
}

func TestVideoAndDescribeWithoutService(t *testing.T) {
	store, en := newTestEngine()
	var status string
	en.OnStatus = func(msg string) { status = msg }
	before := len(store.Active().History)

	en.GenerateVideoSelection("a cat walking")
	assert.Equal(t, "No generation gateway configured", status)
	assert.Equal(t, before, len(store.Active().History))

	status = ""
	en.DescribeSelection()
	assert.Equal(t, "No generation gateway configured", status)
}

func TestTextToolOpensEditor(t *testing.T) {
	store, en := newTestEngine()
	var edited string
	en.OnEditText = func(id string) { edited = id }

	en.SetTool(ToolText)
	en.PointerDown(ev(100, 100))
	en.PointerUp(ev(100, 100))
	require.Len(t, store.Elements(), 1)
	e := store.Elements()[0]
	assert.Equal(t, scene.KindText, e.Kind)
	assert.Equal(t, float32(160), e.Width)
	assert.Equal(t, e.Id, edited)
	assert.Equal(t, []string{e.Id}, store.SelectedIds())
}

func TestDoubleTapCallbacks(t *testing.T) {
	store, en := newTestEngine()
	var uploadedAt *geom.Point
	var edited string
	en.OnUploadAt = func(p geom.Point) { uploadedAt = &p }
	en.OnEditText = func(id string) { edited = id }

	en.DoubleTap(ev(400, 400))
	require.NotNil(t, uploadedAt)
	assert.Equal(t, geom.Pt(400, 400), *uploadedAt)

	en.SetTool(ToolFrame)
	drag(en, ev(0, 0), ev(200, 200))
	frame := store.Elements()[0]
	edited = ""
	en.DoubleTap(ev(100, 100))
	assert.Equal(t, frame.Id, edited)
}

func TestMovementInstruction(t *testing.T) {
	got := movementInstruction(AICamera, 1, 0)
	assert.Contains(t, got, "orbit the camera 90 degrees to the right")
	assert.NotContains(t, got, "arc the camera")

	got = movementInstruction(AICamera, -0.5, 0.5)
	assert.Contains(t, got, "45 degrees to the left")
	assert.Contains(t, got, "arc the camera 45 degrees down")

	got = movementInstruction(AISubject, 0.5, 1)
	assert.Contains(t, got, "rotate the subject 45 degrees to the right")
	assert.NotContains(t, got, "arc the camera")
}

func TestZoomToFrameTarget(t *testing.T) {
	frame := &scene.Element{Id: scene.NewId(), Kind: scene.KindFrame, X: 0, Y: 0, Width: 400, Height: 200}
	panX, panY, zoom := ZoomToFrameTarget(frame, 880, 480)

	// Viewport minus margins is 800x400; the limiting axis gives zoom 2.
	assert.InDelta(t, 2, zoom, 1e-3)
	assert.InDelta(t, 880/2-200*zoom, panX, 1e-2)
	assert.InDelta(t, 480/2-100*zoom, panY, 1e-2)

	_, _, zoom = ZoomToFrameTarget(&scene.Element{Kind: scene.KindFrame}, 800, 600)
	assert.Equal(t, float32(1), zoom)
}

func TestSetSelectionOpacityTransientThenCommit(t *testing.T) {
	store, en := newTestEngine()
	e := drawShape(en, 0, 0, 50, 50)
	require.NotNil(t, e)
	before := len(store.Active().History)

	en.SetSelectionOpacity(0.5, true)
	assert.Equal(t, before, len(store.Active().History))
	assert.InDelta(t, 0.5, float64(store.Elements()[0].Opacity), 1e-4)

	en.SetSelectionOpacity(0.5, false)
	assert.Equal(t, before+1, len(store.Active().History))
}
