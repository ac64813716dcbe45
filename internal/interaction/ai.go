package interaction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chewxy/math32"

	"GenCanvas/internal/genai"
	"GenCanvas/internal/geom"
	"GenCanvas/internal/raster"
	"GenCanvas/internal/scene"
)

// BeginAIRotate arms the ai-rotate overlay on an image element. The next
// pointer drag on that image steers a camera (two-axis) or subject
// (single-axis) movement instruction.
func (en *Engine) BeginAIRotate(id string, mode AIMode) bool {
	e := scene.Find(en.store.Elements(), id)
	if e == nil || e.Kind != scene.KindImage {
		return false
	}
	en.aiId = id
	en.aiMode = mode
	return true
}

// CancelAIRotate disarms the overlay.
func (en *Engine) CancelAIRotate() { en.aiId = "" }

// AIRotateTarget exposes the armed element id (empty when disarmed).
func (en *Engine) AIRotateTarget() string { return en.aiId }

func (en *Engine) downAIRotate(p geom.Point) bool {
	e := scene.Find(en.store.Elements(), en.aiId)
	if e == nil {
		en.aiId = ""
		return false
	}
	if !scene.HitTest(e, p) {
		return false
	}
	en.g.mode = ModeAIRotate
	return true
}

// moveAIRotate accumulates pointer displacement, capped at a fixed maximum
// radius (zoom-adjusted), as the steering value.
func (en *Engine) moveAIRotate(p geom.Point) {
	max := float32(aiMaxRadius) / en.zoom()
	dx := clamp(p.X-en.g.start.X, -max, max)
	dy := clamp(p.Y-en.g.start.Y, -max, max)
	if en.aiMode == AISubject {
		dy = 0 // subject mode steers a single axis
	}
	en.g.aiDX, en.g.aiDY = dx/max, dy/max
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

// endAIRotate turns the accumulated value into a textual movement instruction
// and hands it with the source image to the edit collaborator. Below the
// minimal threshold the gesture is discarded with no effect.
func (en *Engine) endAIRotate() {
	fx, fy := en.g.aiDX, en.g.aiDY
	id := en.aiId
	en.aiId = ""
	if math32.Max(math32.Abs(fx), math32.Abs(fy)) < aiMinFraction {
		return
	}
	e := scene.Find(en.store.Elements(), id)
	if e == nil {
		return
	}
	prompt := movementInstruction(en.aiMode, fx, fy)
	en.runEdit([]*scene.Element{e}, prompt)
}

// movementInstruction maps normalized drag fractions to a structured camera
// or subject movement description. Fractions scale to degrees of rotation
// (horizontal) and arc/tilt (vertical), full deflection being 90 degrees.
func movementInstruction(mode AIMode, fx, fy float32) string {
	var parts []string
	hDeg := int(math32.Round(math32.Abs(fx) * 90))
	vDeg := int(math32.Round(math32.Abs(fy) * 90))
	subject := "orbit the camera"
	if mode == AISubject {
		subject = "rotate the subject"
	}
	if hDeg > 0 {
		dir := "right"
		if fx < 0 {
			dir = "left"
		}
		parts = append(parts, fmt.Sprintf("%s %d degrees to the %s", subject, hDeg, dir))
	}
	if mode == AICamera && vDeg > 0 {
		dir := "down"
		if fy < 0 {
			dir = "up"
		}
		parts = append(parts, fmt.Sprintf("arc the camera %d degrees %s", vDeg, dir))
	}
	return "Redraw this exact scene, but " + strings.Join(parts, " and ") +
		", keeping subject, style and lighting unchanged."
}

// Loading reports whether a generation call is in flight; the UI uses it to
// gate the generate actions so no two requests overlap.
func (en *Engine) Loading() bool { return en.loading.Load() }

// elementPayload converts an element into collaborator currency: images
// decode their href, everything else is rasterized first.
func elementPayload(e *scene.Element) (genai.ImagePayload, error) {
	if e.Kind == scene.KindImage && strings.HasPrefix(e.Href, "data:") {
		idx := strings.Index(e.Href, ",")
		meta := e.Href[5:idx]
		raw, err := base64.StdEncoding.DecodeString(e.Href[idx+1:])
		if err != nil {
			return genai.ImagePayload{}, fmt.Errorf("decode image payload: %w", err)
		}
		mime := strings.TrimSuffix(meta, ";base64")
		return genai.ImagePayload{Data: raw, MimeType: mime}, nil
	}
	enc, err := raster.Element(e)
	if err != nil {
		return genai.ImagePayload{}, err
	}
	return genai.ImagePayload{Data: enc.Data, MimeType: enc.MimeType}, nil
}

// EditSelection sends the current selection (rasterized as needed) plus a
// prompt to the edit collaborator and places the results beside it.
func (en *Engine) EditSelection(prompt string) {
	ids := en.store.SelectedIds()
	if len(ids) == 0 {
		en.status("Nothing selected")
		return
	}
	var sources []*scene.Element
	elements := en.store.Elements()
	for _, id := range ids {
		if e := scene.Find(elements, id); e != nil {
			sources = append(sources, e)
		}
	}
	en.runEdit(sources, prompt)
}

// RemoveBackgroundSelection runs the background-removal specialization on a
// single selected image.
func (en *Engine) RemoveBackgroundSelection() {
	ids := en.store.SelectedIds()
	if len(ids) != 1 {
		en.status("Select one image")
		return
	}
	e := scene.Find(en.store.Elements(), ids[0])
	if e == nil || e.Kind != scene.KindImage {
		en.status("Select one image")
		return
	}
	en.runCall(scene.ElementBounds(e), func(ctx context.Context) (*genai.Result, error) {
		payload, err := elementPayload(e)
		if err != nil {
			return nil, err
		}
		return en.svc.RemoveBackground(ctx, payload)
	})
}

// AutoCombineSelection merges the selected elements into one generated image.
func (en *Engine) AutoCombineSelection() {
	ids := en.store.SelectedIds()
	if len(ids) < 2 {
		en.status("Select at least two elements")
		return
	}
	elements := en.store.Elements()
	var sources []*scene.Element
	for _, id := range ids {
		if e := scene.Find(elements, id); e != nil {
			sources = append(sources, e)
		}
	}
	bounds, _ := scene.SelectionBounds(elements, ids)
	en.runCall(bounds, func(ctx context.Context) (*genai.Result, error) {
		payloads, err := payloadsOf(sources)
		if err != nil {
			return nil, err
		}
		return en.svc.AutoCombine(ctx, payloads)
	})
}

// GenerateImageAt creates images from a text prompt and places them at the
// given canvas point.
func (en *Engine) GenerateImageAt(p geom.Point, prompt, aspectRatio string, count int) {
	en.runCall(geom.R(p.X-placeGap, p.Y, 0, 0), func(ctx context.Context) (*genai.Result, error) {
		return en.svc.GenerateImage(ctx, prompt, aspectRatio, count, "")
	})
}

func payloadsOf(sources []*scene.Element) ([]genai.ImagePayload, error) {
	out := make([]genai.ImagePayload, 0, len(sources))
	for _, e := range sources {
		p, err := elementPayload(e)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (en *Engine) runEdit(sources []*scene.Element, prompt string) {
	ids := make([]string, len(sources))
	for i, e := range sources {
		ids[i] = e.Id
	}
	bounds, _ := scene.SelectionBounds(en.store.Elements(), ids)
	en.runCall(bounds, func(ctx context.Context) (*genai.Result, error) {
		payloads, err := payloadsOf(sources)
		if err != nil {
			return nil, err
		}
		return en.svc.EditImage(ctx, payloads, prompt, genai.EditOptions{})
	})
}

// runCall is the shared generation path: gate on the loading flag, commit an
// optimistic placeholder, run the collaborator off the UI goroutine, then
// resolve the placeholder on whichever board still holds it. A failure swaps
// in a visible failed marker instead of vanishing silently.
func (en *Engine) runCall(near geom.Rect, call func(ctx context.Context) (*genai.Result, error)) {
	if en.svc == nil {
		en.status("No generation gateway configured")
		return
	}
	if !en.loading.CompareAndSwap(false, true) {
		en.status("A generation is already running")
		return
	}

	placeholder := &scene.Element{
		Id:     scene.NewId(),
		Kind:   scene.KindImage,
		Name:   "Generating…",
		X:      near.X + near.W + placeGap,
		Y:      near.Y,
		Width:  256,
		Height: 256,
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els)+1)
		copy(next, els)
		next[len(els)] = placeholder
		return next
	})
	boardId, anchor := en.store.AsyncAnchor()

	go func() {
		res, err := call(context.Background())
		en.loading.Store(false)
		if err != nil {
			log.Printf("[interaction] generation failed: %v", err)
			if errors.Is(err, genai.ErrQuota) {
				en.status("Generation quota reached, try again in a little while")
			} else {
				en.status("Generation failed")
			}
			failed := placeholder.Clone()
			failed.Name = "Generation failed"
			en.store.ResolveAsync(boardId, placeholder.Id, anchor, replaceElement(failed))
			return
		}
		en.placeResults(boardId, anchor, placeholder, res)
		en.status("Done")
	}()
}

// placeResults swaps the placeholder for the first result and appends any
// further results beside it. While the placeholder's commit is still the top
// of its board's history the swap overwrites that slot, keeping the whole
// generation a single undo step.
func (en *Engine) placeResults(boardId string, anchor int, placeholder *scene.Element, res *genai.Result) {
	en.store.ResolveAsync(boardId, placeholder.Id, anchor, func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, 0, len(els)+len(res.Images))
		x := placeholder.X
		for _, e := range els {
			if e.Id != placeholder.Id {
				next = append(next, e)
				continue
			}
			for i, img := range res.Images {
				w, h := decodedSize(img)
				el := &scene.Element{
					Id:         scene.NewId(),
					Kind:       scene.KindImage,
					X:          x,
					Y:          placeholder.Y,
					Width:      float32(w),
					Height:     float32(h),
					Href:       dataURI(img),
					MimeType:   img.MimeType,
					IntrinsicW: w,
					IntrinsicH: h,
				}
				if i == 0 {
					el.Id = placeholder.Id
				}
				next = append(next, el)
				x += el.Width + placeGap
			}
		}
		return next
	})
}

func dataURI(img genai.ImagePayload) string {
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func decodedSize(img genai.ImagePayload) (int, int) {
	decoded, err := raster.DecodeDataURI(base64.StdEncoding.EncodeToString(img.Data))
	if err != nil {
		return 256, 256
	}
	b := decoded.Bounds()
	return b.Dx(), b.Dy()
}
