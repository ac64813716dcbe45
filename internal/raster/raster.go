package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"GenCanvas/internal/geom"
	"GenCanvas/internal/scene"
)

// Padding in pixels added around rasterized content.
const padding = 8

const defaultFontSize = 16

// Encoded is raster output: PNG bytes plus intrinsic pixel size.
type Encoded struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// DataURI renders the encoded image as a data URI suitable for Element.Href.
func (e Encoded) DataURI() string {
	return "data:" + e.MimeType + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// DecodeDataURI decodes a data URI (or raw base64 payload) into pixels.
func DecodeDataURI(uri string) (image.Image, error) {
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		idx := strings.Index(uri, ",")
		if idx < 0 {
			return nil, fmt.Errorf("decode data uri: no payload separator")
		}
		payload = uri[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNG encodes pixels as PNG.
func EncodePNG(img image.Image) (Encoded, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Encoded{}, fmt.Errorf("encode png: %w", err)
	}
	b := img.Bounds()
	return Encoded{
		Data:     buf.Bytes(),
		MimeType: "image/png",
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

func fontFace(size float64) font.Face {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Element rasterizes a single element onto an offscreen bitmap.
func Element(e *scene.Element) (Encoded, error) {
	return Elements([]*scene.Element{e})
}

// Elements renders the given elements onto one offscreen bitmap with a fixed
// padding margin, preserving stroke, fill, opacity and the elements' relative
// layout. The bitmap origin is the rotated union bounds' min corner minus
// padding.
func Elements(elements []*scene.Element) (Encoded, error) {
	if len(elements) == 0 {
		return Encoded{}, fmt.Errorf("rasterize: no elements")
	}
	ids := make([]string, len(elements))
	for i, e := range elements {
		ids[i] = e.Id
	}
	bounds, ok := scene.SelectionBounds(elements, ids)
	if !ok || bounds.W <= 0 || bounds.H <= 0 {
		return Encoded{}, fmt.Errorf("rasterize: degenerate bounds")
	}

	w := int(bounds.W) + 2*padding
	h := int(bounds.H) + 2*padding
	dc := gg.NewContext(w, h)
	dc.Translate(float64(-bounds.X+padding), float64(-bounds.Y+padding))

	for _, e := range elements {
		if err := drawElement(dc, e); err != nil {
			return Encoded{}, err
		}
	}
	return EncodePNG(dc.Image())
}

func drawElement(dc *gg.Context, e *scene.Element) error {
	dc.Push()
	defer dc.Pop()

	b := scene.ElementBounds(e)
	c := b.Center()
	if e.Rotation != 0 {
		dc.RotateAbout(gg.Radians(float64(e.Rotation)), float64(c.X), float64(c.Y))
	}
	if e.FlipX || e.FlipY {
		sx, sy := 1.0, 1.0
		if e.FlipX {
			sx = -1
		}
		if e.FlipY {
			sy = -1
		}
		dc.ScaleAbout(sx, sy, float64(c.X), float64(c.Y))
	}

	opacity := float64(e.Opacity)
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	switch e.Kind {
	case scene.KindPath, scene.KindArrow, scene.KindLine:
		if len(e.Points) < 2 {
			return nil
		}
		dc.NewSubPath()
		dc.MoveTo(float64(e.Points[0].X), float64(e.Points[0].Y))
		for _, p := range e.Points[1:] {
			dc.LineTo(float64(p.X), float64(p.Y))
		}
		setHexColor(dc, e.Stroke, opacity)
		dc.SetLineWidth(float64(strokeWidth(e)))
		dc.Stroke()
		if e.Kind == scene.KindArrow {
			drawArrowHead(dc, e, opacity)
		}
	case scene.KindShape:
		switch e.Shape {
		case scene.ShapeCircle:
			dc.DrawEllipse(float64(c.X), float64(c.Y), float64(b.W/2), float64(b.H/2))
		case scene.ShapeTriangle:
			dc.MoveTo(float64(b.X+b.W/2), float64(b.Y))
			dc.LineTo(float64(b.X+b.W), float64(b.Y+b.H))
			dc.LineTo(float64(b.X), float64(b.Y+b.H))
			dc.ClosePath()
		default:
			dc.DrawRectangle(float64(b.X), float64(b.Y), float64(b.W), float64(b.H))
		}
		if e.Fill != "" {
			setHexColor(dc, e.Fill, opacity)
			dc.FillPreserve()
		}
		if e.Stroke != "" {
			setHexColor(dc, e.Stroke, opacity)
			dc.SetLineWidth(float64(strokeWidth(e)))
			dc.Stroke()
		} else {
			dc.ClearPath()
		}
	case scene.KindText:
		size := float64(e.FontSize)
		if size <= 0 {
			size = defaultFontSize
		}
		face := fontFace(size)
		if face == nil {
			return fmt.Errorf("rasterize text: no font face")
		}
		dc.SetFontFace(face)
		setHexColor(dc, e.Stroke, opacity)
		dc.DrawStringWrapped(e.Content, float64(b.X), float64(b.Y), 0, 0,
			float64(b.W), 1.3, gg.AlignLeft)
	case scene.KindImage, scene.KindVideo:
		img, err := DecodeDataURI(e.Href)
		if err != nil {
			return fmt.Errorf("rasterize %s %s: %w", e.Kind, e.Id, err)
		}
		ib := img.Bounds()
		if ib.Dx() > 0 && ib.Dy() > 0 && b.W > 0 && b.H > 0 {
			dc.Push()
			dc.Translate(float64(b.X), float64(b.Y))
			dc.Scale(float64(b.W)/float64(ib.Dx()), float64(b.H)/float64(ib.Dy()))
			dc.DrawImage(img, 0, 0)
			dc.Pop()
		}
	case scene.KindGroup, scene.KindFrame:
		// Containers have no visual content of their own.
	}
	return nil
}

func strokeWidth(e *scene.Element) float32 {
	if e.StrokeWidth > 0 {
		return e.StrokeWidth
	}
	return 2
}

func drawArrowHead(dc *gg.Context, e *scene.Element, opacity float64) {
	n := len(e.Points)
	tip := e.Points[n-1]
	tail := e.Points[n-2]
	ang := geom.AngleDeg(tip, tail)
	size := float32(6) + strokeWidth(e)*2
	left := geom.RotatePoint(geom.Pt(tip.X-size, tip.Y-size/2), tip, ang)
	right := geom.RotatePoint(geom.Pt(tip.X-size, tip.Y+size/2), tip, ang)
	dc.MoveTo(float64(tip.X), float64(tip.Y))
	dc.LineTo(float64(left.X), float64(left.Y))
	dc.LineTo(float64(right.X), float64(right.Y))
	dc.ClosePath()
	setHexColor(dc, e.Stroke, opacity)
	dc.Fill()
}

func setHexColor(dc *gg.Context, hex string, opacity float64) {
	if hex == "" {
		hex = "#000000"
	}
	r, g, b := parseHex(hex)
	dc.SetRGBA(r, g, b, opacity)
}

func parseHex(hex string) (r, g, b float64) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var ri, gi, bi int
	fmt.Sscanf(hex, "%02x%02x%02x", &ri, &gi, &bi)
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
}
