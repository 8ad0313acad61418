package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in world space. The zero value is empty.
type AABB struct {
	Min, Max mgl32.Vec3
	valid    bool
}

// NewAABB returns a box spanning min..max (corners are reordered if needed).
func NewAABB(min, max mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return AABB{Min: min, Max: max, valid: true}
}

// Empty reports whether the box holds no volume at all (never computed).
func (a AABB) Empty() bool {
	return !a.valid
}

// Expand grows the box to include p.
func (a AABB) Expand(p mgl32.Vec3) AABB {
	if !a.valid {
		return AABB{Min: p, Max: p, valid: true}
	}
	for i := 0; i < 3; i++ {
		a.Min[i] = min(a.Min[i], p[i])
		a.Max[i] = max(a.Max[i], p[i])
	}
	return a
}

// Center returns the midpoint of the box.
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the box extents along each axis.
func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Intersects reports whether a and b overlap on all three axes. Intervals are closed,
// so boxes that only touch on a face still intersect. Empty boxes never intersect.
func (a AABB) Intersects(b AABB) bool {
	if !a.valid || !b.valid {
		return false
	}
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// penetrationAxis returns the overlap amount and axis index (0=X, 1=Y, 2=Z) for the minimum penetration.
// If no overlap, returns (0, -1).
func penetrationAxis(a, b AABB) (depth float32, axis int) {
	if !a.Intersects(b) {
		return 0, -1
	}
	overlapX := min(a.Max.X(), b.Max.X()) - max(a.Min.X(), b.Min.X())
	overlapY := min(a.Max.Y(), b.Max.Y()) - max(a.Min.Y(), b.Min.Y())
	overlapZ := min(a.Max.Z(), b.Max.Z()) - max(a.Min.Z(), b.Min.Z())
	depth = overlapX
	axis = 0
	if overlapY < depth {
		depth = overlapY
		axis = 1
	}
	if overlapZ < depth {
		depth = overlapZ
		axis = 2
	}
	return depth, axis
}
