package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate_SingleTickScenario(t *testing.T) {
	b := NewBody()
	b.Mass = 1
	b.Friction = 0.9
	b.MaxSpeed = 100
	b.Acceleration = mgl32.Vec3{10, 0, 0}

	pos := b.Integrate(mgl32.Vec3{}, 1)

	assert.InDelta(t, 9, b.Velocity.X(), 1e-5)
	assert.InDelta(t, 9, pos.X(), 1e-5)
	assert.Equal(t, mgl32.Vec3{}, b.Acceleration, "acceleration must not persist across ticks")
}

func TestIntegrate_ClampsBeforeFriction(t *testing.T) {
	b := NewBody()
	b.MaxSpeed = 5
	b.Friction = 0.5
	b.Velocity = mgl32.Vec3{0, 30, 40}

	b.Integrate(mgl32.Vec3{}, 0.1)

	assert.InDelta(t, 2.5, b.Speed(), 1e-5)
}

func TestIntegrate_Deterministic(t *testing.T) {
	dts := []float32{1.0 / 60, 1.0 / 30, 1.0 / 60, 0.02, 0.5}
	run := func() []mgl32.Vec3 {
		b := NewBody()
		b.Velocity = mgl32.Vec3{1, 2, 3}
		pos := mgl32.Vec3{}
		var out []mgl32.Vec3
		for i, dt := range dts {
			b.AddForce(mgl32.Vec3{float32(i), -9.8, 0.5})
			pos = b.Integrate(pos, dt)
			out = append(out, pos)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestAddForce_DividesByMass(t *testing.T) {
	b := NewBody()
	b.Mass = 4
	b.AddForce(mgl32.Vec3{8, 0, 0})
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, b.Acceleration)

	b.Mass = 0
	b.AddForce(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, b.Acceleration)
}

func TestAABB_ClosedIntervals(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	touching := NewAABB(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 1, 1})
	apart := NewAABB(mgl32.Vec3{1.001, 0, 0}, mgl32.Vec3{2, 1, 1})
	onlyTwoAxes := NewAABB(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 1, 6})

	assert.True(t, a.Intersects(touching))
	assert.False(t, a.Intersects(apart))
	assert.False(t, a.Intersects(onlyTwoAxes))
	assert.False(t, a.Intersects(AABB{}))
}

func TestCollider_WorldBounds(t *testing.T) {
	c := Collider{Shape: ShapeCylinder, Radius: 0.4, Height: 1.6}

	box := c.WorldBounds(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{1, 2, 1})

	require.False(t, box.Empty())
	assert.InDelta(t, 9.6, box.Min.X(), 1e-5)
	assert.InDelta(t, 10.4, box.Max.X(), 1e-5)
	assert.InDelta(t, -1.6, box.Min.Y(), 1e-5)
	assert.InDelta(t, 1.6, box.Max.Y(), 1e-5)
}

func TestCollider_RotatedBoxGrows(t *testing.T) {
	c := Collider{Shape: ShapeBox, Size: mgl32.Vec3{2, 2, 2}}

	box := c.WorldBounds(mgl32.Vec3{}, mgl32.Vec3{0, mgl32.DegToRad(45), 0}, mgl32.Vec3{1, 1, 1})

	assert.InDelta(t, 1.41421, box.Max.X(), 1e-4)
	assert.InDelta(t, 1, box.Max.Y(), 1e-5)
}

func TestCollider_UnknownShapeIsEmpty(t *testing.T) {
	assert.True(t, Collider{}.LocalBounds().Empty())
}

type probe struct {
	name  string
	box   AABB
	ticks int
	hits  []string
}

func (p *probe) Update(float32)       { p.ticks++ }
func (p *probe) Bounds() (AABB, bool) { return p.box, !p.box.Empty() }
func (p *probe) OnCollision(o *probe) { p.hits = append(p.hits, o.name) }

func TestStep_NotifiesBothSides(t *testing.T) {
	a := &probe{name: "a", box: NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})}
	b := &probe{name: "b", box: NewAABB(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{2, 2, 2})}
	c := &probe{name: "c", box: NewAABB(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{6, 6, 6})}
	d := &probe{name: "d"}

	contacts := Step(1.0/60, []*probe{a, b, c, d})

	require.Len(t, contacts, 1)
	assert.Equal(t, []string{"b"}, a.hits)
	assert.Equal(t, []string{"a"}, b.hits)
	assert.Empty(t, c.hits)
	assert.InDelta(t, 0.5, contacts[0].Depth, 1e-6)
	for _, p := range []*probe{a, b, c, d} {
		assert.Equal(t, 1, p.ticks)
	}
}
