package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Shape is the kind of collision volume attached to an actor.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
	ShapeCapsule  Shape = "capsule"
)

// Collider is an invisible collision volume centered on the owning actor's origin.
// Box uses Size (full extents). Sphere uses Radius. Cylinder uses Radius and Height.
// Capsule uses Radius and Height, where Height is the straight section between the caps.
type Collider struct {
	Shape  Shape      `yaml:"shape"`
	Size   mgl32.Vec3 `yaml:"size,omitempty"`
	Radius float32    `yaml:"radius,omitempty"`
	Height float32    `yaml:"height,omitempty"`
}

// LocalBounds returns the collider's box in the actor's local space.
func (c Collider) LocalBounds() AABB {
	var half mgl32.Vec3
	switch c.Shape {
	case ShapeBox:
		half = c.Size.Mul(0.5)
	case ShapeSphere:
		half = mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	case ShapeCylinder:
		half = mgl32.Vec3{c.Radius, c.Height / 2, c.Radius}
	case ShapeCapsule:
		half = mgl32.Vec3{c.Radius, c.Height/2 + c.Radius, c.Radius}
	default:
		return AABB{}
	}
	return NewAABB(half.Mul(-1), half)
}

// WorldBounds transforms the local box by scale, then Euler XYZ rotation, then translation,
// and returns the axis-aligned box enclosing the eight transformed corners.
func (c Collider) WorldBounds(position, rotation, scale mgl32.Vec3) AABB {
	local := c.LocalBounds()
	if local.Empty() {
		return AABB{}
	}
	model := TransformMatrix(position, rotation, scale)
	var out AABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{local.Min.X(), local.Min.Y(), local.Min.Z()}
		if i&1 != 0 {
			corner[0] = local.Max.X()
		}
		if i&2 != 0 {
			corner[1] = local.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = local.Max.Z()
		}
		out = out.Expand(model.Mul4x1(corner.Vec4(1)).Vec3())
	}
	return out
}

// TransformMatrix builds translate * rotate(XYZ) * scale.
func TransformMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	r := mgl32.AnglesToQuat(rotation.X(), rotation.Y(), rotation.Z(), mgl32.XYZ).Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}
