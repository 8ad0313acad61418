package entity

import (
	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/event"
	"sandbox-engine/internal/physics"
)

// Pawn notifications. Payload is the *Pawn.
const (
	Death   event.Name = "death"
	Respawn event.Name = "respawn"
)

// DefaultMaxHealth is the health a pawn spawns and respawns with.
const DefaultMaxHealth = 100

// Controller drives a pawn each tick (player input, AI).
type Controller interface {
	Update(dt float32)
}

// Pawn is a playable actor with health and a team. Once dead it stays dead until Respawn.
type Pawn struct {
	*Actor
	Events event.Emitter

	health     float32
	maxHealth  float32
	team       int
	dead       bool
	controller Controller
}

// NewPawn returns a live pawn at full health on team 0 with a capsule collider.
func NewPawn() *Pawn {
	p := &Pawn{
		Actor:     NewActor(TagPawn, string(TagPawn)),
		health:    DefaultMaxHealth,
		maxHealth: DefaultMaxHealth,
	}
	p.SetCollider(physics.Collider{Shape: physics.ShapeCapsule, Radius: 0.25, Height: 1.5})
	return p
}

// Health returns current health, 0 when dead.
func (p *Pawn) Health() float32 { return p.health }

// MaxHealth returns the health cap restored by Respawn.
func (p *Pawn) MaxHealth() float32 { return p.maxHealth }

// Team returns the team id.
func (p *Pawn) Team() int { return p.team }

// Dead reports whether health reached 0. Only Respawn clears it.
func (p *Pawn) Dead() bool { return p.dead }

// SetTeam assigns the team id.
func (p *Pawn) SetTeam(team int) { p.team = team }

// SetController attaches or clears (nil) the driving controller.
func (p *Pawn) SetController(c Controller) { p.controller = c }

// Controller returns the driving controller, or nil.
func (p *Pawn) Controller() Controller { return p.controller }

// Damage reduces health, clamped at zero. Reaching zero kills the pawn.
func (p *Pawn) Damage(amount float32) {
	if p.dead || amount <= 0 {
		return
	}
	p.health = max(0, p.health-amount)
	if p.health == 0 {
		p.Die()
	}
}

// Heal restores health up to maxHealth. Dead pawns cannot be healed.
func (p *Pawn) Heal(amount float32) {
	if p.dead || amount <= 0 {
		return
	}
	p.health = min(p.maxHealth, p.health+amount)
}

// Die marks the pawn dead and emits Death once.
func (p *Pawn) Die() {
	if p.dead {
		return
	}
	p.dead = true
	p.health = 0
	p.Events.Emit(Death, p)
}

// Respawn revives the pawn at full health, moving it to at when non-nil.
func (p *Pawn) Respawn(at *mgl32.Vec3) {
	p.dead = false
	p.health = p.maxHealth
	p.Velocity = mgl32.Vec3{}
	p.Acceleration = mgl32.Vec3{}
	if at != nil {
		p.SetPosition(*at)
	}
	p.Events.Emit(Respawn, p)
}

// Update integrates the body, then ticks the controller.
func (p *Pawn) Update(dt float32) {
	p.Actor.Update(dt)
	if p.controller != nil {
		p.controller.Update(dt)
	}
}

// Properties returns {name, health, maxHealth, team, dead}.
func (p *Pawn) Properties() Properties {
	props := p.Actor.Properties()
	props["health"] = p.health
	props["maxHealth"] = p.maxHealth
	props["team"] = p.team
	props["dead"] = p.dead
	return props
}

type pawnProps struct {
	Health    *float32 `prop:"health"`
	MaxHealth *float32 `prop:"maxHealth"`
	Team      *int     `prop:"team"`
	Dead      *bool    `prop:"dead"`
}

// LoadProperties restores what Properties produced, clamping health into [0, maxHealth].
func (p *Pawn) LoadProperties(props Properties) {
	p.Actor.LoadProperties(props)
	var in pawnProps
	decodeProperties(props, &in)
	if in.MaxHealth != nil && *in.MaxHealth > 0 {
		p.maxHealth = *in.MaxHealth
	}
	if in.Health != nil {
		p.health = min(max(*in.Health, 0), p.maxHealth)
	}
	if in.Team != nil {
		p.team = *in.Team
	}
	if in.Dead != nil {
		p.dead = *in.Dead
	}
	if p.dead {
		p.health = 0
	} else if p.health == 0 {
		p.dead = true
	}
}
