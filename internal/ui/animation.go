package ui

import (
	"time"

	"fyne.io/fyne/v2"

	"GenCanvas/internal/interaction"
	"GenCanvas/internal/scene"
)

const zoomAnimDuration = 300 * time.Millisecond

// ZoomToFrame animates pan/zoom so the frame fills the viewport. A new call
// cancels any animation in flight; the camera never enters history.
func (w *CanvasWidget) ZoomToFrame(frameId string) {
	frame := scene.Find(w.store.Elements(), frameId)
	if frame == nil || frame.Kind != scene.KindFrame {
		return
	}
	size := w.Size()
	targetPanX, targetPanY, targetZoom := interaction.ZoomToFrameTarget(frame, size.Width, size.Height)

	b := w.store.Active()
	startPanX, startPanY, startZoom := b.PanX, b.PanY, b.Zoom

	if w.zoomAnim != nil {
		w.zoomAnim.Stop()
	}
	anim := fyne.NewAnimation(zoomAnimDuration, func(t float32) {
		w.store.SetZoom(startZoom + (targetZoom-startZoom)*t)
		w.store.SetPan(
			startPanX+(targetPanX-startPanX)*t,
			startPanY+(targetPanY-startPanY)*t,
		)
	})
	anim.Curve = fyne.AnimationEaseInOut
	w.zoomAnim = anim
	anim.Start()
}

// ZoomToSelectedFrame zooms to the single selected frame, if any.
func (w *CanvasWidget) ZoomToSelectedFrame() bool {
	ids := w.store.SelectedIds()
	if len(ids) != 1 {
		return false
	}
	e := scene.Find(w.store.Elements(), ids[0])
	if e == nil || e.Kind != scene.KindFrame {
		return false
	}
	w.ZoomToFrame(e.Id)
	return true
}
