package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a freshly created body.
const (
	DefaultMass     = 1
	DefaultMaxSpeed = 10
	DefaultFriction = 0.9
)

// Body is the kinematic state of an actor: velocity, accumulated acceleration and tuning.
// Friction is a per-tick multiplier, not time-normalized; pick the tick rate to match.
type Body struct {
	Velocity     mgl32.Vec3
	Acceleration mgl32.Vec3
	Mass         float32
	MaxSpeed     float32
	Friction     float32
	Grounded     bool
}

// NewBody returns a body at rest with default mass, speed limit and friction.
func NewBody() Body {
	return Body{
		Mass:     DefaultMass,
		MaxSpeed: DefaultMaxSpeed,
		Friction: DefaultFriction,
	}
}

// AddForce accumulates force/mass into the acceleration for the current tick.
// A non-positive mass is treated as 1.
func (b *Body) AddForce(force mgl32.Vec3) {
	m := b.Mass
	if m <= 0 {
		m = DefaultMass
	}
	b.Acceleration = b.Acceleration.Add(force.Mul(1 / m))
}

// Integrate advances the body by dt and returns the new position:
// velocity += acceleration*dt, clamp to MaxSpeed, velocity *= Friction,
// position += velocity*dt, then acceleration is cleared.
func (b *Body) Integrate(position mgl32.Vec3, dt float32) mgl32.Vec3 {
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))

	if speed := math32.Sqrt(b.Velocity.Dot(b.Velocity)); speed > b.MaxSpeed && speed > 0 {
		b.Velocity = b.Velocity.Mul(1 / speed).Mul(b.MaxSpeed)
	}

	b.Velocity = b.Velocity.Mul(b.Friction)
	position = position.Add(b.Velocity.Mul(dt))
	b.Acceleration = mgl32.Vec3{}
	return position
}

// Speed returns the magnitude of the velocity.
func (b *Body) Speed() float32 {
	return math32.Sqrt(b.Velocity.Dot(b.Velocity))
}
