package entity

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Visual is the opaque handle a renderer mounts for an entity. The core only pushes
// transform and name into it; it never reads it back.
type Visual interface {
	SetTransform(position, rotation, scale mgl32.Vec3)
	SetName(name string)
}

// Tinter is implemented by visuals whose color follows an entity property.
type Tinter interface {
	SetColor(hex string)
}

// Transform is position, Euler XYZ rotation (radians) and non-uniform scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// IdentityTransform is the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Object is the base movable thing in a scene: a transform, a display name and an
// optional visual. Every setter mirrors into the visual right away when one is attached,
// and Attach pushes the current transform, so the two never drift.
type Object struct {
	name      string
	transform Transform
	visual    Visual
}

// NewObject returns an object at the origin with unit scale.
func NewObject(name string) Object {
	return Object{name: name, transform: IdentityTransform()}
}

// Name returns the display name.
func (o *Object) Name() string { return o.name }

// SetName sets the display name.
func (o *Object) SetName(name string) {
	o.name = name
	if o.visual != nil {
		o.visual.SetName(name)
	}
}

// Position returns the world position.
func (o *Object) Position() mgl32.Vec3 { return o.transform.Position }

// Rotation returns the Euler XYZ rotation in radians.
func (o *Object) Rotation() mgl32.Vec3 { return o.transform.Rotation }

// Scale returns the per-axis scale.
func (o *Object) Scale() mgl32.Vec3 { return o.transform.Scale }

// Transform returns a copy of position, rotation and scale.
func (o *Object) Transform() Transform { return o.transform }

// SetPosition moves the object. Non-finite components are rejected and leave it unchanged.
func (o *Object) SetPosition(p mgl32.Vec3) {
	if !finite(p) {
		return
	}
	o.transform.Position = p
	o.sync()
}

// SetRotation sets the Euler XYZ rotation in radians. Non-finite input is rejected.
func (o *Object) SetRotation(r mgl32.Vec3) {
	if !finite(r) {
		return
	}
	o.transform.Rotation = r
	o.sync()
}

// SetScale sets the per-axis scale. Non-finite input is rejected.
func (o *Object) SetScale(s mgl32.Vec3) {
	if !finite(s) {
		return
	}
	o.transform.Scale = s
	o.sync()
}

// SetTransform applies all three components at once.
func (o *Object) SetTransform(t Transform) {
	if !finite(t.Position) || !finite(t.Rotation) || !finite(t.Scale) {
		return
	}
	o.transform = t
	o.sync()
}

// Attach sets the visual handle and immediately applies the current name and transform.
func (o *Object) Attach(v Visual) {
	o.visual = v
	if v != nil {
		v.SetName(o.name)
	}
	o.sync()
}

// Detach drops the visual handle and returns it.
func (o *Object) Detach() Visual {
	v := o.visual
	o.visual = nil
	return v
}

// Mesh returns the attached visual handle, or nil.
func (o *Object) Mesh() Visual { return o.visual }

func (o *Object) sync() {
	if o.visual == nil {
		return
	}
	t := o.transform
	o.visual.SetTransform(t.Position, t.Rotation, t.Scale)
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
