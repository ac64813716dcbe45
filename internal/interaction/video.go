package interaction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"GenCanvas/internal/genai"
	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// DescribeSelection asks the collaborator for a prompt describing the single
// selected image and surfaces it on the status line, where it can be copied
// into the next generation.
func (en *Engine) DescribeSelection() {
	if en.svc == nil {
		en.status("No generation gateway configured")
		return
	}
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
	go func() {
		payload, err := elementPayload(e)
		if err != nil {
			log.Printf("[interaction] describe payload: %v", err)
			en.status("Describe failed")
			return
		}
		prompt, err := en.svc.DescribeImage(context.Background(), payload)
		if err != nil {
			log.Printf("[interaction] describe failed: %v", err)
			en.status("Describe failed")
			return
		}
		en.status(prompt)
	}()
}

// GenerateVideoSelection runs a video generation job, optionally seeded by the
// single selected image, and places the clip as a video element beside it.
// Progress from the job stream is surfaced on the status line.
func (en *Engine) GenerateVideoSelection(prompt string) {
	if en.svc == nil {
		en.status("No generation gateway configured")
		return
	}
	req := genai.VideoRequest{Prompt: prompt, AspectRatio: "16:9", Count: 1}
	var near geom.Rect
	if ids := en.store.SelectedIds(); len(ids) == 1 {
		if e := scene.Find(en.store.Elements(), ids[0]); e != nil && e.Kind == scene.KindImage {
			payload, err := elementPayload(e)
			if err != nil {
				log.Printf("[interaction] video source payload: %v", err)
				en.status("Video generation failed")
				return
			}
			req.SourceImage = &payload
			near = scene.ElementBounds(e)
		}
	}
	if !en.loading.CompareAndSwap(false, true) {
		en.status("A generation is already running")
		return
	}

	placeholder := &scene.Element{
		Id:     scene.NewId(),
		Kind:   scene.KindVideo,
		Name:   "Rendering…",
		X:      near.X + near.W + placeGap,
		Y:      near.Y,
		Width:  256,
		Height: 144,
	}
	en.store.Commit(func(els []*scene.Element) []*scene.Element {
		next := make([]*scene.Element, len(els)+1)
		copy(next, els)
		next[len(els)] = placeholder
		return next
	})
	boardId, anchor := en.store.AsyncAnchor()

	go func() {
		videos, err := en.svc.GenerateVideo(context.Background(), req, func(p float64) {
			en.status(fmt.Sprintf("Rendering video %d%%", int(p*100)))
		})
		en.loading.Store(false)
		if err != nil {
			log.Printf("[interaction] video generation failed: %v", err)
			if errors.Is(err, genai.ErrQuota) {
				en.status("Generation quota reached, try again in a little while")
			} else {
				en.status("Video generation failed")
			}
			failed := placeholder.Clone()
			failed.Name = "Generation failed"
			en.store.ResolveAsync(boardId, placeholder.Id, anchor, replaceElement(failed))
			return
		}
		clip := placeholder.Clone()
		clip.Name = ""
		clip.Href = "data:" + videos[0].MimeType + ";base64," + base64.StdEncoding.EncodeToString(videos[0].Data)
		clip.MimeType = videos[0].MimeType
		en.store.ResolveAsync(boardId, placeholder.Id, anchor, replaceElement(clip))
		en.status("Done")
	}()
}
