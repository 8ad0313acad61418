package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
)

// Player notifications.
const (
	PawnSpawned       event.Name = "pawnSpawned"
	PawnDespawned     event.Name = "pawnDespawned"
	NameChanged       event.Name = "nameChanged"
	ScoreChanged      event.Name = "scoreUpdated"
	ReadyStateChanged event.Name = "readyStateChanged"
)

// Player is a participant in a game mode, optionally possessing a pawn.
type Player struct {
	Events event.Emitter

	id    string
	name  string
	pawn  *entity.Pawn
	score int
	ready bool
}

// NewPlayer returns a player with a random id and a name derived from it.
func NewPlayer() *Player {
	id := uuid.NewString()
	return &Player{id: id, name: "Player_" + id[:8]}
}

// ID returns the player uuid.
func (p *Player) ID() string { return p.id }

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// Score returns the player score.
func (p *Player) Score() int { return p.score }

// Ready reports the ready flag.
func (p *Player) Ready() bool { return p.ready }

// Pawn returns the spawned pawn, or nil.
func (p *Player) Pawn() *entity.Pawn { return p.pawn }

// SetName renames the player.
func (p *Player) SetName(name string) {
	p.name = name
	p.Events.Emit(NameChanged, name)
}

// AddScore adds points to the player's own score.
func (p *Player) AddScore(points int) {
	p.score += points
	p.Events.Emit(ScoreChanged, p.score)
}

// SetReady sets the ready flag.
func (p *Player) SetReady(ready bool) {
	p.ready = ready
	p.Events.Emit(ReadyStateChanged, ready)
}

// SpawnPawn gives the player a fresh pawn, killing any previous one.
func (p *Player) SpawnPawn(at *mgl32.Vec3) *entity.Pawn {
	if p.pawn != nil {
		p.pawn.Die()
	}
	p.pawn = entity.NewPawn()
	if at != nil {
		p.pawn.SetPosition(*at)
	}
	p.Events.Emit(PawnSpawned, p.pawn)
	return p.pawn
}

// DespawnPawn kills and releases the current pawn.
func (p *Player) DespawnPawn() {
	if p.pawn == nil {
		return
	}
	p.pawn.Die()
	p.pawn = nil
	p.Events.Emit(PawnDespawned, nil)
}

// Update ticks the possessed pawn.
func (p *Player) Update(dt float32) {
	if p.pawn != nil {
		p.pawn.Update(dt)
	}
}
