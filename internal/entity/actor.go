package entity

import (
	"sandbox-engine/internal/physics"
)

// Entity is the capability set every placeable actor variant provides:
// transform access through Base, per-tick integration, collision, and the symmetric
// property pair used for persistence.
type Entity interface {
	Base() *Actor
	Tag() Tag
	Update(dt float32)
	Bounds() (physics.AABB, bool)
	OnCollision(other Entity)
	Properties() Properties
	LoadProperties(p Properties)
}

// Actor is an Object with kinematics, an optional collider and a bounding box that is
// recomputed after every update. Variants embed *Actor and override what they need.
type Actor struct {
	Object
	physics.Body

	tag         Tag
	collider    *physics.Collider
	bounds      physics.AABB
	editorOwned bool
}

// NewActor returns an actor at rest with default body tuning.
func NewActor(tag Tag, name string) *Actor {
	return &Actor{
		Object: NewObject(name),
		Body:   physics.NewBody(),
		tag:    tag,
	}
}

// Base returns the actor itself; variants inherit it through embedding.
func (a *Actor) Base() *Actor { return a }

// Tag returns the stable type tag written on save.
func (a *Actor) Tag() Tag { return a.tag }

// EditorOwned reports whether the editor placed this actor. Editor-owned actors survive
// map switches and are the ones written to scene records.
func (a *Actor) EditorOwned() bool { return a.editorOwned }

// SetEditorOwned marks or clears editor ownership.
func (a *Actor) SetEditorOwned(v bool) { a.editorOwned = v }

// SetCollider attaches a collision volume and refreshes the bounding box.
func (a *Actor) SetCollider(c physics.Collider) {
	a.collider = &c
	a.UpdateBounds()
}

// Collider returns the attached collision volume, if any.
func (a *Actor) Collider() (physics.Collider, bool) {
	if a.collider == nil {
		return physics.Collider{}, false
	}
	return *a.collider, true
}

// UpdateBounds recomputes the bounding box from the collider in the current transform.
func (a *Actor) UpdateBounds() {
	if a.collider == nil {
		a.bounds = physics.AABB{}
		return
	}
	t := a.Transform()
	a.bounds = a.collider.WorldBounds(t.Position, t.Rotation, t.Scale)
}

// Bounds returns the box as of the end of the last update. ok is false without a collider.
func (a *Actor) Bounds() (physics.AABB, bool) {
	return a.bounds, !a.bounds.Empty()
}

// Update integrates the body for one tick, mirrors the new position and refreshes bounds.
func (a *Actor) Update(dt float32) {
	a.SetPosition(a.Body.Integrate(a.Position(), dt))
	a.UpdateBounds()
}

// OnCollision is called by the collision sweep. The base actor ignores it.
func (a *Actor) OnCollision(Entity) {}

// Properties returns the extra state beyond the transform: just the name.
func (a *Actor) Properties() Properties {
	return Properties{"name": a.Name()}
}

type actorProps struct {
	Name *string `prop:"name"`
}

// LoadProperties restores what Properties produced. Missing or mistyped keys are ignored.
func (a *Actor) LoadProperties(p Properties) {
	var in actorProps
	decodeProperties(p, &in)
	if in.Name != nil && *in.Name != "" {
		a.SetName(*in.Name)
	}
}

// CheckCollision reports whether the bounding boxes of a and b overlap on all three axes.
// Actors without a collider never collide.
func CheckCollision(a, b Entity) bool {
	ba, ok := a.Bounds()
	if !ok {
		return false
	}
	bb, ok := b.Bounds()
	if !ok {
		return false
	}
	return ba.Intersects(bb)
}
