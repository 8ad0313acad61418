package gamemap

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/entity"
)

// PropKind is the kind of static shape a map places in its root group.
type PropKind string

const (
	PropGround    PropKind = "ground"
	PropWall      PropKind = "wall"
	PropBarrier   PropKind = "barrier"
	PropMilestone PropKind = "milestone"
	PropTerrain   PropKind = "terrain"
)

// Prop is a static, non-interactive shape. Renderers draw it as a box of Size at Position.
type Prop struct {
	Kind     PropKind
	Position mgl32.Vec3
	Size     mgl32.Vec3
	Color    string
}

// Group is the root container a map owns: static props plus mounted entities.
type Group struct {
	props    []Prop
	entities []entity.Entity
}

// Props returns the static shapes in insertion order.
func (g *Group) Props() []Prop { return g.props }

// AddProp appends a static shape.
func (g *Group) AddProp(p Prop) { g.props = append(g.props, p) }

// Entities returns the mounted entities in mount order.
func (g *Group) Entities() []entity.Entity { return g.entities }

// Add mounts e. Mounting an entity that is already in the group is a no-op.
func (g *Group) Add(e entity.Entity) {
	if g.Contains(e) {
		return
	}
	g.entities = append(g.entities, e)
}

// Remove unmounts e and reports whether it was mounted.
func (g *Group) Remove(e entity.Entity) bool {
	i := slices.Index(g.entities, e)
	if i < 0 {
		return false
	}
	g.entities = slices.Delete(g.entities, i, i+1)
	return true
}

// Contains reports whether e is mounted.
func (g *Group) Contains(e entity.Entity) bool {
	return slices.Contains(g.entities, e)
}
