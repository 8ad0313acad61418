package game

import (
	"log/slog"
	"time"

	"sandbox-engine/internal/event"
)

// Kind identifies a game mode type. It prefixes the mode's persisted state key.
type Kind string

const (
	KindGame      Kind = "GameMode"
	KindMainMenu  Kind = "MainMenuMode"
	KindSurvival  Kind = "SurvivalMode"
	KindTimeTrial Kind = "TimeTrialMode"
)

// Phase is the lifecycle position of a mode.
type Phase string

const (
	Waiting Phase = "waiting"
	Playing Phase = "playing"
	Paused  Phase = "paused"
	Ended   Phase = "ended"
)

// StateStore persists mode state by mode kind.
type StateStore interface {
	LoadState(kind Kind) (State, bool)
	SaveState(kind Kind, s State) error
	ClearState(kind Kind) error
}

// GameMode is implemented by every mode variant through its embedded *Mode.
type GameMode interface {
	Base() *Mode
}

// Options configure a mode. Zero values are usable: no persistence, default logger,
// wall clock.
type Options struct {
	Store  StateStore
	Logger *slog.Logger
	Now    func() time.Time
}

// EndSummary is the payload of GameEnd. TimePlayed is in milliseconds, like Status.
type EndSummary struct {
	Score      int   `json:"score"`
	TimePlayed int64 `json:"timePlayed"`
}

// Mode is the rules and lifecycle of a game session:
// waiting -> playing <-> paused -> ended, and reset back to waiting.
// Every transition emits on Events synchronously.
type Mode struct {
	Events event.Emitter

	kind      Kind
	phase     Phase
	score     int
	timeLimit time.Duration
	startTime time.Time
	endTime   time.Time
	players   []*Player
	state     State

	store  StateStore
	log    *slog.Logger
	now    func() time.Time
	onInit []func()
}

// NewMode returns a mode of the given kind in the waiting phase with a default state.
func NewMode(kind Kind, opts Options) *Mode {
	m := &Mode{kind: kind, phase: Waiting, store: opts.Store, log: opts.Logger, now: opts.Now}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.state = NewBaseState()
	return m
}

// Base returns m, so concrete modes embedding *Mode satisfy GameMode.
func (m *Mode) Base() *Mode { return m }

// Kind returns the mode type tag.
func (m *Mode) Kind() Kind { return m.kind }

// Phase returns the lifecycle phase.
func (m *Mode) Phase() Phase { return m.phase }

// Score returns the session score.
func (m *Mode) Score() int { return m.score }

// TimeLimit returns the limit that ends the game, 0 for none.
func (m *Mode) TimeLimit() time.Duration { return m.timeLimit }

// Players returns the joined players in join order.
func (m *Mode) Players() []*Player { return m.players }

// State returns the owned game state, or nil.
func (m *Mode) State() State { return m.state }

// SetState replaces the owned game state. nil is allowed.
func (m *Mode) SetState(s State) { m.state = s }

// SetTimeLimit sets the play time after which the mode ends itself. Zero disables it.
func (m *Mode) SetTimeLimit(d time.Duration) { m.timeLimit = d }

// Init returns the mode to waiting, reloads its persisted state and emits GameInit.
func (m *Mode) Init() {
	m.phase = Waiting
	m.score = 0
	m.startTime = time.Time{}
	m.endTime = time.Time{}
	if st, ok := m.loadState(); ok {
		m.state = st
	}
	for _, fn := range m.onInit {
		fn()
	}
	m.Events.Emit(event.GameInit, nil)
}

// Start begins play from waiting: a persisted state replaces the current one if present,
// a new player joins and the state session starts. Returns false in any other phase.
func (m *Mode) Start() bool {
	if m.phase != Waiting {
		return false
	}
	m.phase = Playing
	m.startTime = m.now()
	m.endTime = time.Time{}
	if st, ok := m.loadState(); ok {
		m.state = st
	}
	if m.state == nil {
		m.state = NewBaseState()
	}
	m.AddPlayer(NewPlayer())
	m.state.StartSession(m.startTime)
	m.Events.Emit(event.GameStart, nil)
	return true
}

// End finishes a playing or paused game: the session is closed, state saved, players
// dropped, and GameEnd carries the final score and time played.
func (m *Mode) End() bool {
	if m.phase != Playing && m.phase != Paused {
		return false
	}
	m.phase = Ended
	m.endTime = m.now()
	if m.state != nil {
		m.state.Base().EndSession(m.endTime)
	}
	m.saveState()
	m.players = nil
	m.Events.Emit(event.GameEnd, EndSummary{Score: m.score, TimePlayed: m.TimePlayed().Milliseconds()})
	return true
}

// Pause suspends a playing game and saves its state.
func (m *Mode) Pause() bool {
	if m.phase != Playing {
		return false
	}
	m.phase = Paused
	if m.state != nil {
		m.state.Base().Pause()
	}
	m.saveState()
	m.Events.Emit(event.GamePause, nil)
	return true
}

// Resume continues a paused game.
func (m *Mode) Resume() bool {
	if m.phase != Paused {
		return false
	}
	m.phase = Playing
	if m.state != nil {
		m.state.Base().Resume()
	}
	m.Events.Emit(event.GameResume, nil)
	return true
}

// Reset purges the persisted state, drops players and re-initializes the mode.
func (m *Mode) Reset() {
	if m.store != nil {
		if err := m.store.ClearState(m.kind); err != nil {
			m.log.Warn("game: clear state", "mode", m.kind, "err", err)
		}
	}
	m.players = nil
	m.state = NewBaseState()
	m.Init()
}

// AddPlayer adds p to the session and emits PlayerJoined.
func (m *Mode) AddPlayer(p *Player) {
	m.players = append(m.players, p)
	if m.state != nil {
		m.state.Base().AddPlayer(p)
	}
	m.Events.Emit(event.PlayerJoined, p)
}

// RemovePlayer removes p and emits PlayerLeft. Unknown players are ignored.
func (m *Mode) RemovePlayer(p *Player) {
	for i, q := range m.players {
		if q != p {
			continue
		}
		m.players = append(m.players[:i], m.players[i+1:]...)
		if m.state != nil {
			m.state.Base().RemovePlayer(p)
		}
		m.Events.Emit(event.PlayerLeft, p)
		return
	}
}

// UpdateScore adds points, saves state and emits ScoreUpdate with the new total.
func (m *Mode) UpdateScore(points int) {
	m.score += points
	if m.state != nil {
		m.state.Base().SetScore(m.score)
	}
	m.saveState()
	m.Events.Emit(event.ScoreUpdate, m.score)
}

// TimePlayed is the time since Start, frozen once the game ends.
func (m *Mode) TimePlayed() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	if !m.endTime.IsZero() {
		return m.endTime.Sub(m.startTime)
	}
	return m.now().Sub(m.startTime)
}

// Update advances a playing game by one tick. The game ends once the time limit is reached.
func (m *Mode) Update(dt float32) {
	if m.phase != Playing {
		return
	}
	if m.timeLimit > 0 && m.TimePlayed() >= m.timeLimit {
		m.End()
		return
	}
	if m.state != nil {
		m.state.Update(m.now())
	}
	for _, p := range m.players {
		p.Update(dt)
	}
	m.Events.Emit(event.GameTick, dt)
}

// Status is a read-only summary for consoles and the editor bridge.
type Status struct {
	Kind       Kind      `json:"kind"`
	Phase      Phase     `json:"phase"`
	Score      int       `json:"score"`
	Players    int       `json:"players"`
	TimePlayed int64     `json:"timePlayed"`
	State      StateType `json:"stateType,omitempty"`
}

// Status returns the current summary.
func (m *Mode) Status() Status {
	st := Status{
		Kind:       m.kind,
		Phase:      m.phase,
		Score:      m.score,
		Players:    len(m.players),
		TimePlayed: m.TimePlayed().Milliseconds(),
	}
	if m.state != nil {
		st.State = m.state.Type()
	}
	return st
}

func (m *Mode) loadState() (State, bool) {
	if m.store == nil {
		return nil, false
	}
	return m.store.LoadState(m.kind)
}

func (m *Mode) saveState() {
	if m.store == nil || m.state == nil {
		return
	}
	if err := m.store.SaveState(m.kind, m.state); err != nil {
		m.log.Warn("game: save state", "mode", m.kind, "err", err)
	}
}
