package scene

import (
	"github.com/google/uuid"

	"GenCanvas/internal/geom"
)

// Kind discriminates the element union. Every operation on elements switches
// exhaustively over it; adding a kind means visiting every switch.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindPath  Kind = "path"
	KindShape Kind = "shape"
	KindText  Kind = "text"
	KindArrow Kind = "arrow"
	KindLine  Kind = "line"
	KindGroup Kind = "group"
	KindFrame Kind = "frame"
)

// ShapeKind is the sub-kind of a shape element.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
)

// Element is one drawable scene object. It is a closed tagged union: Kind
// decides which fields are meaningful. Ownership is referential; children
// carry their parent's id, there are no backlinks.
type Element struct {
	Id       string `json:"id"`
	Kind     Kind   `json:"kind"`
	ParentId string `json:"parent_id,omitempty"`

	X      float32      `json:"x"`
	Y      float32      `json:"y"`
	Width  float32      `json:"width,omitempty"`
	Height float32      `json:"height,omitempty"`
	Points []geom.Point `json:"points,omitempty"`

	// Rotation is in degrees about the element's own unrotated bounds center.
	// Flip applies before rotation when compositing a transform.
	Rotation float32 `json:"rotation,omitempty"`
	FlipX    bool    `json:"flip_x,omitempty"`
	FlipY    bool    `json:"flip_y,omitempty"`
	Hidden   bool    `json:"hidden,omitempty"`
	Locked   bool    `json:"locked,omitempty"`

	// image / video
	Href       string `json:"href,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	IntrinsicW int    `json:"intrinsic_w,omitempty"`
	IntrinsicH int    `json:"intrinsic_h,omitempty"`

	// shape / path / arrow / line
	Shape       ShapeKind `json:"shape,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float32   `json:"stroke_width,omitempty"`
	Opacity     float32   `json:"opacity,omitempty"`

	// text
	Content    string  `json:"content,omitempty"`
	FontSize   float32 `json:"font_size,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`

	// frame
	Name       string `json:"name,omitempty"`
	Background string `json:"background,omitempty"`
}

// NewId returns a fresh globally unique element or board id.
func NewId() string { return uuid.NewString() }

// Clone returns a deep copy. Mutations during gestures always replace an
// element with a clone; elements already in history are never edited through
// a shared pointer.
func (e *Element) Clone() *Element {
	c := *e
	if e.Points != nil {
		c.Points = make([]geom.Point, len(e.Points))
		copy(c.Points, e.Points)
	}
	return &c
}

// IsContainer reports whether the element may own children.
func (e *Element) IsContainer() bool {
	return e.Kind == KindGroup || e.Kind == KindFrame
}

// MoveBy shifts the element by (dx, dy), whichever representation it uses.
func (e *Element) MoveBy(dx, dy float32) {
	switch e.Kind {
	case KindPath, KindArrow, KindLine:
		for i := range e.Points {
			e.Points[i].X += dx
			e.Points[i].Y += dy
		}
	case KindImage, KindVideo, KindShape, KindText, KindGroup, KindFrame:
		e.X += dx
		e.Y += dy
	}
}

// Find returns the element with the given id, or nil.
func Find(elements []*Element, id string) *Element {
	for _, e := range elements {
		if e.Id == id {
			return e
		}
	}
	return nil
}

// IndexById builds an id lookup map over the slice.
func IndexById(elements []*Element) map[string]*Element {
	byId := make(map[string]*Element, len(elements))
	for _, e := range elements {
		byId[e.Id] = e
	}
	return byId
}
