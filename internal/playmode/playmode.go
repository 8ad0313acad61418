// Package playmode switches the sandbox between editing and playing.
package playmode

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/event"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/immersive"
)

// State is Edit or Play.
type State string

const (
	Edit State = "edit"
	Play State = "play"
)

// Scheme is the control scheme used while playing.
type Scheme string

const (
	Desktop   Scheme = "desktop"
	Immersive Scheme = "immersive"
)

// ParseScheme parses a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case Desktop, Immersive:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("playmode: unknown scheme %q", s)
}

// Notifications. PlayStateChanged carries a bool (true when entering Play);
// ImmersiveFailed carries the error.
const (
	PlayStateChanged event.Name = "playStateChanged"
	ImmersiveFailed  event.Name = "immersiveFailed"
)

// Camera is the camera rig as the machine drives it.
type Camera interface {
	Pose() (mgl32.Vec3, mgl32.Quat)
	SetPose(mgl32.Vec3, mgl32.Quat)
	EnableEditorControls()
	DisableEditorControls()
	EnableControls()
	DisableControls()
}

// World is the scene the machine mounts maps into.
type World interface {
	StartupMap() gamemap.ID
	LoadMap(id gamemap.ID)
	GameMode() game.GameMode
}

// Machine is the Edit/Play state machine. Stop is the single exit path from Play,
// whether requested or caused by the immersive session ending; it is idempotent.
type Machine struct {
	Events event.Emitter

	state   State
	scheme  Scheme
	active  Scheme
	world   World
	cam     Camera
	session immersive.Session
	log     *slog.Logger

	savedPos mgl32.Vec3
	savedRot mgl32.Quat
}

// New returns a machine in Edit with the Desktop scheme. A nil session behaves as
// immersive.Unsupported.
func New(world World, cam Camera, session immersive.Session, log *slog.Logger) *Machine {
	if session == nil {
		session = immersive.Unsupported{}
	}
	if log == nil {
		log = slog.Default()
	}
	m := &Machine{state: Edit, scheme: Desktop, world: world, cam: cam, session: session, log: log}
	session.OnEnd(m.Stop)
	return m
}

// State returns Edit or Play.
func (m *Machine) State() State { return m.state }

// Playing reports whether the machine is in Play.
func (m *Machine) Playing() bool { return m.state == Play }

// Scheme returns the scheme selected for the next Start.
func (m *Machine) Scheme() Scheme { return m.scheme }

// ActiveScheme returns the scheme actually in use while playing.
func (m *Machine) ActiveScheme() Scheme { return m.active }

// SetScheme selects the control scheme. It can only change while editing.
func (m *Machine) SetScheme(s Scheme) error {
	if m.state == Play {
		return fmt.Errorf("playmode: cannot change scheme while playing")
	}
	m.scheme = s
	return nil
}

// Start enters Play: the camera pose is captured, the startup map mounted and its game
// mode started, editor controls are disabled and either desktop controls enabled or an
// immersive session requested. A failed session degrades to desktop controls and is
// reported as a warning. Start while playing is a no-op.
func (m *Machine) Start(ctx context.Context) {
	if m.state == Play {
		return
	}
	m.savedPos, m.savedRot = m.cam.Pose()
	m.world.LoadMap(m.world.StartupMap())
	if mode := m.world.GameMode(); mode != nil {
		mode.Base().Start()
	}
	m.state = Play
	m.cam.DisableEditorControls()
	m.active = Desktop
	if m.scheme == Immersive {
		if err := m.session.Start(ctx); err != nil {
			m.log.Warn("playmode: immersive session unavailable, using desktop controls", "err", err)
			m.Events.Emit(ImmersiveFailed, err)
		} else {
			m.active = Immersive
		}
	}
	if m.active == Desktop {
		m.cam.EnableControls()
	}
	m.Events.Emit(PlayStateChanged, true)
}

// Stop returns to Edit: the game mode ends, the startup map is re-mounted, play controls
// give way to editor controls, an active immersive session is ended and the captured
// camera pose restored. Stop while editing is a no-op.
func (m *Machine) Stop() {
	if m.state != Play {
		return
	}
	m.state = Edit
	if mode := m.world.GameMode(); mode != nil {
		mode.Base().End()
	}
	m.world.LoadMap(m.world.StartupMap())
	m.cam.DisableControls()
	m.cam.EnableEditorControls()
	if m.session.Active() {
		m.session.End()
	}
	m.cam.SetPose(m.savedPos, m.savedRot)
	m.active = ""
	m.Events.Emit(PlayStateChanged, false)
}

// Toggle starts when editing and stops when playing.
func (m *Machine) Toggle(ctx context.Context) {
	if m.state == Play {
		m.Stop()
		return
	}
	m.Start(ctx)
}
