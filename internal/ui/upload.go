package ui

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/h2non/filetype"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// Uploaded images wider than this are scaled down for their initial placement;
// the intrinsic size is kept for later crops.
const maxUploadDisplayWidth = 480

// showUploadDialog picks an image file and places it centered on the given
// canvas point.
func showUploadDialog(w *CanvasWidget, win fyne.Window, p geom.Point) {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			w.SetStatus("Upload failed: " + err.Error())
			return
		}
		e, err := imageElement(raw, p)
		if err != nil {
			log.Printf("[ui] upload rejected: %v", err)
			w.SetStatus("Upload failed: " + err.Error())
			return
		}
		w.store.Commit(func(els []*scene.Element) []*scene.Element {
			next := make([]*scene.Element, len(els)+1)
			copy(next, els)
			next[len(els)] = e
			return next
		})
		w.store.SetSelection(e.Id)
	}, win)
}

// imageElement validates raw bytes as an image and builds the element. The
// MIME type comes from content sniffing, never from the file extension.
func imageElement(raw []byte, p geom.Point) (*scene.Element, error) {
	kind, err := filetype.Match(raw)
	if err != nil {
		return nil, fmt.Errorf("sniff file type: %w", err)
	}
	if kind.MIME.Type != "image" {
		return nil, fmt.Errorf("not an image (detected %s)", kind.MIME.Value)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}

	dispW := float32(cfg.Width)
	dispH := float32(cfg.Height)
	if dispW > maxUploadDisplayWidth {
		scale := maxUploadDisplayWidth / dispW
		dispW *= scale
		dispH *= scale
	}

	return &scene.Element{
		Id:         scene.NewId(),
		Kind:       scene.KindImage,
		X:          p.X - dispW/2,
		Y:          p.Y - dispH/2,
		Width:      dispW,
		Height:     dispH,
		Href:       "data:" + kind.MIME.Value + ";base64," + base64.StdEncoding.EncodeToString(raw),
		MimeType:   kind.MIME.Value,
		IntrinsicW: cfg.Width,
		IntrinsicH: cfg.Height,
	}, nil
}
