package export

import (
	"encoding/json"
	"fmt"
	"io"

	"GenCanvas/internal/scene"
)

// boardFile is the on-disk board shape. History is not persisted; a loaded
// board starts with a fresh single-entry history.
type boardFile struct {
	Id         string           `json:"id"`
	Name       string           `json:"name"`
	Elements   []*scene.Element `json:"elements"`
	PanX       float32          `json:"pan_x"`
	PanY       float32          `json:"pan_y"`
	Zoom       float32          `json:"zoom"`
	Background string           `json:"background,omitempty"`
}

// SaveBoard writes the board as indented JSON.
func SaveBoard(w io.Writer, b *scene.Board) error {
	data, err := json.MarshalIndent(boardFile{
		Id:         b.Id,
		Name:       b.Name,
		Elements:   b.Elements,
		PanX:       b.PanX,
		PanY:       b.PanY,
		Zoom:       b.Zoom,
		Background: b.Background,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	return nil
}

// LoadBoard parses a board file. Dangling parent references are tolerated
// (treated as top-level at read time), so no repair pass runs here.
func LoadBoard(r io.Reader) (*scene.Board, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	var f boardFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	if f.Id == "" {
		f.Id = scene.NewId()
	}
	if f.Zoom <= 0 {
		f.Zoom = 1
	}
	if f.Elements == nil {
		f.Elements = make([]*scene.Element, 0)
	}
	return &scene.Board{
		Id:           f.Id,
		Name:         f.Name,
		Elements:     f.Elements,
		History:      [][]*scene.Element{f.Elements},
		HistoryIndex: 0,
		PanX:         f.PanX,
		PanY:         f.PanY,
		Zoom:         f.Zoom,
		Background:   f.Background,
	}, nil
}
