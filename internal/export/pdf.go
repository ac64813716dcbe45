package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"GenCanvas/internal/scene"
)

// pdfScale maps canvas units to millimeters on an A4 page.
const pdfScale = 4

// PDF writes the board's elements to an A4 PDF. Rotation is approximated by
// each element's axis-aligned footprint; images and videos are drawn as
// labeled placeholders rather than embedded pixels.
func PDF(path string, b *scene.Board) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.4)
	p.SetFont("Helvetica", "", 8)

	byId := scene.IndexById(b.Elements)
	for _, e := range b.Elements {
		if scene.IsHidden(e, byId) {
			continue
		}
		drawPDFElement(p, e)
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDFElement(p *gofpdf.Fpdf, e *scene.Element) {
	switch e.Kind {
	case scene.KindPath, scene.KindArrow, scene.KindLine:
		for i := 1; i < len(e.Points); i++ {
			p.Line(
				float64(e.Points[i-1].X/pdfScale), float64(e.Points[i-1].Y/pdfScale),
				float64(e.Points[i].X/pdfScale), float64(e.Points[i].Y/pdfScale),
			)
		}
	case scene.KindShape, scene.KindFrame, scene.KindGroup:
		b := scene.RotatedElementBounds(e)
		style := "D"
		if e.Kind == scene.KindShape && e.Shape == scene.ShapeCircle {
			p.Ellipse(
				float64(b.Center().X/pdfScale), float64(b.Center().Y/pdfScale),
				float64(b.W/2/pdfScale), float64(b.H/2/pdfScale), 0, style)
			return
		}
		p.Rect(float64(b.X/pdfScale), float64(b.Y/pdfScale),
			float64(b.W/pdfScale), float64(b.H/pdfScale), style)
		if e.Kind == scene.KindFrame && e.Name != "" {
			p.Text(float64(b.X/pdfScale), float64(b.Y/pdfScale)-1, e.Name)
		}
	case scene.KindText:
		b := scene.ElementBounds(e)
		p.Text(float64(b.X/pdfScale), float64((b.Y+e.FontSize)/pdfScale), e.Content)
	case scene.KindImage, scene.KindVideo:
		b := scene.RotatedElementBounds(e)
		p.Rect(float64(b.X/pdfScale), float64(b.Y/pdfScale),
			float64(b.W/pdfScale), float64(b.H/pdfScale), "D")
		p.Text(float64(b.X/pdfScale)+1, float64(b.Y/pdfScale)+3, string(e.Kind))
	}
}
