package entity

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/event"
	"sandbox-engine/internal/physics"
)

type fakeVisual struct {
	name                      string
	position, rotation, scale mgl32.Vec3
	color                     string
	syncs                     int
}

func (v *fakeVisual) SetTransform(p, r, s mgl32.Vec3) {
	v.position, v.rotation, v.scale = p, r, s
	v.syncs++
}
func (v *fakeVisual) SetName(name string) { v.name = name }
func (v *fakeVisual) SetColor(hex string) { v.color = hex }

func registry(t *testing.T) *Registry {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	return r
}

// viaJSON mimics a save/load cycle so numbers come back as float64.
func viaJSON(t *testing.T, p Properties) Properties {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var out Properties
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestObject_SettersMirrorIntoVisual(t *testing.T) {
	o := NewObject("box")
	o.SetPosition(mgl32.Vec3{1, 2, 3})

	v := &fakeVisual{}
	o.Attach(v)
	assert.Equal(t, "box", v.name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v.position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.scale)

	o.SetRotation(mgl32.Vec3{0, 1.5, 0})
	assert.Equal(t, mgl32.Vec3{0, 1.5, 0}, v.rotation)
}

func TestObject_RejectsNonFinite(t *testing.T) {
	o := NewObject("x")
	o.SetPosition(mgl32.Vec3{1, 1, 1})
	nan := float32(0)
	nan = nan / nan
	o.SetPosition(mgl32.Vec3{nan, 0, 0})
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, o.Position())
}

func TestActor_UpdateRecomputesBounds(t *testing.T) {
	a := NewActor(TagPawn, "a")
	a.SetCollider(physics.Collider{Shape: physics.ShapeBox, Size: mgl32.Vec3{2, 2, 2}})
	a.Friction = 1
	a.Velocity = mgl32.Vec3{1, 0, 0}

	a.Update(1)

	b, ok := a.Bounds()
	require.True(t, ok)
	assert.InDelta(t, 0, b.Min[0], 1e-6)
	assert.InDelta(t, 2, b.Max[0], 1e-6)
	assert.Equal(t, mgl32.Vec3{}, a.Acceleration)
}

func TestCheckCollision(t *testing.T) {
	r := registry(t)
	a, _ := r.Spawn(TagPlayerStart, nil)
	b, _ := r.Spawn(TagPlayerStart, &SpawnOptions{Transform: &Transform{
		Position: mgl32.Vec3{0.8, 0, 0}, Scale: mgl32.Vec3{1, 1, 1},
	}})
	assert.True(t, CheckCollision(a, b), "touching faces count as overlap")

	b.Base().SetPosition(mgl32.Vec3{0.81, 0, 0})
	b.Update(0)
	assert.False(t, CheckCollision(a, b))

	bare := NewActor(TagPawn, "bare")
	assert.False(t, CheckCollision(a, bare))
}

func TestPlayerStart_PropertiesRoundTrip(t *testing.T) {
	r := registry(t)
	e, ok := r.Spawn(TagPlayerStart, nil)
	require.True(t, ok)
	ps := e.(*PlayerStart)
	assert.Equal(t, "#00FF00", ps.Color())

	ps.SetName("North")
	ps.SetColor("#ff8800")
	props := viaJSON(t, ps.Properties())

	fresh, _ := r.Spawn(TagPlayerStart, nil)
	fresh.LoadProperties(props)
	assert.Equal(t, ps.Properties(), fresh.Properties())
}

func TestPlayerStart_LegacyNumericColor(t *testing.T) {
	ps := NewPlayerStart()
	ps.LoadProperties(Properties{"color": float64(65280)})
	assert.Equal(t, "#00FF00", ps.Color())

	ps.LoadProperties(Properties{"color": "not a color"})
	assert.Equal(t, "#00FF00", ps.Color())
}

func TestPlayerStart_TintOnAttach(t *testing.T) {
	ps := NewPlayerStart()
	ps.SetColor("0x112233")
	v := &fakeVisual{}
	Attach(ps, v)
	assert.Equal(t, "#112233", v.color)

	ps.SetColor(0xABCDEF)
	assert.Equal(t, "#ABCDEF", v.color)
}

func TestPawn_PropertiesRoundTrip(t *testing.T) {
	r := registry(t)
	e, _ := r.Spawn(TagPawn, &SpawnOptions{Name: "hero"})
	p := e.(*Pawn)
	p.SetTeam(2)
	p.Damage(35)

	fresh, _ := r.Spawn(TagPawn, nil)
	fresh.LoadProperties(viaJSON(t, p.Properties()))

	assert.Equal(t, p.Properties(), fresh.Properties())
	assert.Equal(t, "hero", fresh.Base().Name())
}

func TestActor_LoadPropertiesPartial(t *testing.T) {
	for _, tag := range []Tag{TagPlayerStart, TagPawn} {
		e, _ := registry(t).Spawn(tag, nil)
		before := e.Properties()
		assert.NotPanics(t, func() {
			e.LoadProperties(nil)
			e.LoadProperties(Properties{})
			e.LoadProperties(Properties{"health": "lots", "team": "blue"})
		})
		assert.Equal(t, before, e.Properties(), string(tag))
	}
}

func TestPawn_DeathIsSticky(t *testing.T) {
	p := NewPawn()
	var deaths, respawns int
	p.Events.On(Death, func(event.Event) { deaths++ })
	p.Events.On(Respawn, func(event.Event) { respawns++ })

	p.Damage(150)
	assert.True(t, p.Dead())
	assert.Zero(t, p.Health())

	p.Heal(50)
	p.Damage(10)
	p.Die()
	assert.True(t, p.Dead())
	assert.Zero(t, p.Health())
	assert.Equal(t, 1, deaths)

	at := mgl32.Vec3{3, 0, 4}
	p.Respawn(&at)
	assert.False(t, p.Dead())
	assert.Equal(t, float32(DefaultMaxHealth), p.Health())
	assert.Equal(t, at, p.Position())
	assert.Equal(t, 1, respawns)
}

func TestRegistry_UnknownTag(t *testing.T) {
	_, ok := registry(t).Spawn("Dragon", nil)
	assert.False(t, ok)

	_, err := LoadRegistry([]byte("- tag: Dragon\n  name: Dragon\n"))
	assert.Error(t, err)
}

func TestRegistry_SpawnAppliesOptions(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0.1, 0.2, 0.3},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	e, ok := registry(t).Spawn(TagPlayerStart, &SpawnOptions{
		Transform:   &tr,
		Name:        "Spawn A",
		Properties:  Properties{"color": "#0000FF"},
		EditorOwned: true,
	})
	require.True(t, ok)
	assert.Equal(t, tr, e.Base().Transform())
	assert.Equal(t, "Spawn A", e.Base().Name())
	assert.Equal(t, "#0000FF", e.(*PlayerStart).Color())
	assert.True(t, e.Base().EditorOwned())
	assert.Equal(t, []Tag{TagPawn, TagPlayerStart}, registry(t).Tags())
}
