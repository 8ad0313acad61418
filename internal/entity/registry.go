package entity

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"sandbox-engine/internal/physics"
)

// Tag is the stable type tag written into scene records.
type Tag string

// Built-in actor types.
const (
	TagPlayerStart Tag = "PlayerStart"
	TagPawn        Tag = "Pawn"
)

//go:embed actors.yaml
var defaultDefinitions []byte

// Definition is the YAML description of a placeable actor type. Primitive, Color and Size
// describe the stand-in visual a renderer draws for it.
type Definition struct {
	Tag       Tag               `yaml:"tag"`
	Name      string            `yaml:"name"`
	Primitive string            `yaml:"primitive"`
	Color     string            `yaml:"color,omitempty"`
	Size      [3]float32        `yaml:"size,omitempty"`
	Collider  *physics.Collider `yaml:"collider,omitempty"`
}

// constructors is the closed set of Go types an actor tag can resolve to.
var constructors = map[Tag]func() Entity{
	TagPlayerStart: func() Entity { return NewPlayerStart() },
	TagPawn:        func() Entity { return NewPawn() },
}

// SpawnOptions is what a spawn may carry over from a saved record or an editor action.
// A nil Transform keeps the constructor default.
type SpawnOptions struct {
	Transform   *Transform
	Name        string
	Properties  Properties
	EditorOwned bool
}

// Registry resolves type tags to constructed, configured actors.
type Registry struct {
	defs map[Tag]Definition
}

// LoadRegistry parses actor definitions. Every tag must have a constructor.
func LoadRegistry(data []byte) (*Registry, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("entity: parse definitions: %w", err)
	}
	r := &Registry{defs: make(map[Tag]Definition, len(defs))}
	for _, d := range defs {
		if _, ok := constructors[d.Tag]; !ok {
			return nil, fmt.Errorf("entity: no actor type for tag %q", d.Tag)
		}
		if _, dup := r.defs[d.Tag]; dup {
			return nil, fmt.Errorf("entity: duplicate tag %q", d.Tag)
		}
		r.defs[d.Tag] = d
	}
	return r, nil
}

// DefaultRegistry returns the registry of built-in actor types.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultDefinitions)
}

// Definition returns the definition for tag.
func (r *Registry) Definition(tag Tag) (Definition, bool) {
	d, ok := r.defs[tag]
	return d, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.defs))
	for t := range r.defs {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Spawn constructs an actor for tag and applies opts in order: transform, name,
// properties, ownership. Unknown tags return ok=false.
func (r *Registry) Spawn(tag Tag, opts *SpawnOptions) (Entity, bool) {
	def, ok := r.defs[tag]
	if !ok {
		return nil, false
	}
	e := constructors[tag]()
	a := e.Base()
	if def.Name != "" {
		a.SetName(def.Name)
	}
	if def.Collider != nil {
		a.SetCollider(*def.Collider)
	}
	if ps, ok := e.(*PlayerStart); ok && def.Color != "" {
		ps.SetColor(def.Color)
	}
	if opts != nil {
		if opts.Transform != nil {
			a.SetTransform(*opts.Transform)
		}
		if opts.Name != "" {
			a.SetName(opts.Name)
		}
		if opts.Properties != nil {
			e.LoadProperties(opts.Properties)
		}
		a.SetEditorOwned(opts.EditorOwned)
	}
	a.UpdateBounds()
	return e, true
}

// Attach mounts visual v on e and applies any visual-facing properties.
func Attach(e Entity, v Visual) {
	e.Base().Attach(v)
	if ps, ok := e.(*PlayerStart); ok {
		if t, ok := v.(Tinter); ok {
			t.SetColor(ps.Color())
		}
	}
}
