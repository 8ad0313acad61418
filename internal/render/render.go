// Package render keeps the drawable stand-ins for entities and map props in step with the
// simulation. It holds no GPU state; graphics draws what it describes.
package render

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/gamemap"
)

// RGBA is an 8-bit color.
type RGBA [4]uint8

// fallbackColor tints shapes with a missing or unreadable color.
var fallbackColor = RGBA{128, 128, 128, 255}

// ParseColor reads "#RRGGBB" or "RRGGBB".
func ParseColor(s string) (RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallbackColor, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallbackColor, false
	}
	return RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 255}, true
}

// Visual is the drawable stand-in of one entity: a primitive of a base size, placed by the
// entity's transform and tinted by its color.
type Visual struct {
	Primitive string
	Size      mgl32.Vec3
	Color     RGBA
	Selected  bool

	name     string
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
}

// NewVisual returns a visual for a definition's primitive, size and color.
func NewVisual(def entity.Definition) *Visual {
	v := &Visual{Primitive: def.Primitive, Size: mgl32.Vec3(def.Size), Color: fallbackColor, scale: mgl32.Vec3{1, 1, 1}}
	if v.Size == (mgl32.Vec3{}) {
		v.Size = mgl32.Vec3{1, 1, 1}
	}
	if c, ok := ParseColor(def.Color); ok {
		v.Color = c
	}
	return v
}

// SetTransform records the entity transform.
func (v *Visual) SetTransform(position, rotation, scale mgl32.Vec3) {
	v.position, v.rotation, v.scale = position, rotation, scale
}

// SetName records the entity name.
func (v *Visual) SetName(name string) { v.name = name }

// SetColor tints the visual. Unreadable colors are ignored.
func (v *Visual) SetColor(hex string) {
	if c, ok := ParseColor(hex); ok {
		v.Color = c
	}
}

// Name returns the last name pushed by the entity.
func (v *Visual) Name() string { return v.name }

// Position returns the last position pushed by the entity.
func (v *Visual) Position() mgl32.Vec3 { return v.position }

// Model returns translate * rotate(XYZ Euler) * scale * size, the transform of a unit primitive.
func (v *Visual) Model() mgl32.Mat4 {
	r := mgl32.AnglesToQuat(v.rotation.X(), v.rotation.Y(), v.rotation.Z(), mgl32.XYZ).Mat4()
	s := mgl32.Scale3D(v.scale.X()*v.Size.X(), v.scale.Y()*v.Size.Y(), v.scale.Z()*v.Size.Z())
	return mgl32.Translate3D(v.position.X(), v.position.Y(), v.position.Z()).Mul4(r).Mul4(s)
}

// Box is a static prop ready to draw.
type Box struct {
	Kind  gamemap.PropKind
	Model mgl32.Mat4
	Color RGBA
}

// Boxes converts map props into drawable boxes.
func Boxes(props []gamemap.Prop) []Box {
	out := make([]Box, 0, len(props))
	for _, p := range props {
		c, _ := ParseColor(p.Color)
		m := mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).
			Mul4(mgl32.Scale3D(p.Size.X(), p.Size.Y(), p.Size.Z()))
		out = append(out, Box{Kind: p.Kind, Model: m, Color: c})
	}
	return out
}

// Binder attaches visuals to entities that have none.
type Binder struct {
	registry *entity.Registry
}

// NewBinder returns a binder using reg's definitions for shape and color.
func NewBinder(reg *entity.Registry) *Binder {
	return &Binder{registry: reg}
}

// Bind attaches a visual to every entity in ents without one and returns the visuals of
// all of them, in order. Entities of unknown type are left without a visual.
func (b *Binder) Bind(ents []entity.Entity, selected entity.Entity) []*Visual {
	out := make([]*Visual, 0, len(ents))
	for _, e := range ents {
		v, ok := e.Base().Mesh().(*Visual)
		if !ok {
			def, known := b.registry.Definition(e.Tag())
			if !known {
				continue
			}
			v = NewVisual(def)
			entity.Attach(e, v)
		}
		v.Selected = e == selected
		out = append(out, v)
	}
	return out
}
