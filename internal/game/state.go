package game

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"sandbox-engine/internal/event"
)

// StateType is the stable tag written next to a persisted game state.
type StateType string

const (
	StateGame     StateType = "GameState"
	StateMainMenu StateType = "MainMenuGameState"
)

// Game state notifications. Payloads: *Player for player events, Statistics otherwise.
const (
	StatePaused    event.Name = "gamePaused"
	StateResumed   event.Name = "gameResumed"
	SessionStarted event.Name = "sessionStarted"
	SessionEnded   event.Name = "sessionEnded"
	StateLoaded    event.Name = "stateLoaded"
	PlayerAdded    event.Name = "playerAdded"
	PlayerRemoved  event.Name = "playerRemoved"
)

// State is the persisted side of a game mode: pause flag, settings and statistics.
// Different map types carry different statistic shapes, told apart by Type.
type State interface {
	Type() StateType
	Base() *BaseState
	StartSession(now time.Time)
	Update(now time.Time)
	Snapshot() any
	Restore(data []byte) error
}

// Statistics are the counters every state tracks. Times are in milliseconds.
type Statistics struct {
	Score            int    `json:"score"`
	PlayTime         int64  `json:"playTime"`
	SessionStartTime *int64 `json:"sessionStartTime"`
}

// BaseState is the plain "GameState" type and the base of every other state.
type BaseState struct {
	Events event.Emitter

	paused   bool
	settings map[string]any
	stats    Statistics
	players  []*Player
}

// NewBaseState returns an unpaused state with sound enabled and zeroed statistics.
func NewBaseState() *BaseState {
	return &BaseState{settings: map[string]any{"soundEnabled": true}}
}

// Type returns the persisted type tag.
func (s *BaseState) Type() StateType { return StateGame }

// Base returns s, so states embedding *BaseState satisfy State.
func (s *BaseState) Base() *BaseState { return s }

// Paused reports the paused flag.
func (s *BaseState) Paused() bool { return s.paused }

// Statistics returns the session statistics.
func (s *BaseState) Statistics() Statistics { return s.stats }

// Settings returns a copy of the settings map.
func (s *BaseState) Settings() map[string]any { return maps.Clone(s.settings) }

// SetSetting stores one setting value.
func (s *BaseState) SetSetting(key string, value any) {
	if s.settings == nil {
		s.settings = map[string]any{}
	}
	s.settings[key] = value
}

// Pause sets the pause flag. A no-op when already paused.
func (s *BaseState) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.Events.Emit(StatePaused, s.stats)
}

// Resume clears the pause flag. A no-op when not paused.
func (s *BaseState) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.Events.Emit(StateResumed, s.stats)
}

// StartSession stamps the session start and zeroes score and play time.
func (s *BaseState) StartSession(now time.Time) {
	ms := now.UnixMilli()
	s.stats.SessionStartTime = &ms
	s.stats.Score = 0
	s.stats.PlayTime = 0
	s.Events.Emit(SessionStarted, s.stats)
}

// EndSession records the final play time of the running session.
func (s *BaseState) EndSession(now time.Time) {
	if s.stats.SessionStartTime == nil {
		return
	}
	s.stats.PlayTime = now.UnixMilli() - *s.stats.SessionStartTime
	s.Events.Emit(SessionEnded, s.stats)
}

// SetScore mirrors the mode score into the statistics.
func (s *BaseState) SetScore(score int) { s.stats.Score = score }

// Update refreshes play time while unpaused.
func (s *BaseState) Update(now time.Time) {
	if s.paused || s.stats.SessionStartTime == nil {
		return
	}
	s.stats.PlayTime = now.UnixMilli() - *s.stats.SessionStartTime
}

// AddPlayer tracks p. Adding the same player twice is a no-op.
func (s *BaseState) AddPlayer(p *Player) {
	for _, q := range s.players {
		if q == p {
			return
		}
	}
	s.players = append(s.players, p)
	s.Events.Emit(PlayerAdded, p)
}

// RemovePlayer stops tracking p.
func (s *BaseState) RemovePlayer(p *Player) {
	for i, q := range s.players {
		if q == p {
			s.players = append(s.players[:i], s.players[i+1:]...)
			s.Events.Emit(PlayerRemoved, p)
			return
		}
	}
}

// Players returns the tracked players.
func (s *BaseState) Players() []*Player { return s.players }

type baseSnapshot struct {
	IsPaused   bool           `json:"isPaused"`
	Settings   map[string]any `json:"settings,omitempty"`
	Statistics Statistics     `json:"statistics"`
}

// Snapshot returns the persisted form of the state.
func (s *BaseState) Snapshot() any {
	return baseSnapshot{IsPaused: s.paused, Settings: s.Settings(), Statistics: s.stats}
}

type baseInput struct {
	IsPaused   bool           `json:"isPaused"`
	Settings   map[string]any `json:"settings"`
	Statistics *Statistics    `json:"statistics"`
}

// Restore merges a snapshot into the state: settings key by key, statistics field by
// field, and the pause flag (absent means unpaused). On error the state is unchanged.
func (s *BaseState) Restore(data []byte) error {
	stats := s.stats
	in := baseInput{Statistics: &stats}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("game: restore state: %w", err)
	}
	for k, v := range in.Settings {
		s.SetSetting(k, v)
	}
	s.paused = in.IsPaused
	s.stats = stats
	s.Events.Emit(StateLoaded, s.stats)
	return nil
}

// MainMenuState adds menu preferences and menu statistics to the base state.
type MainMenuState struct {
	*BaseState

	lastSelection *string
	timeInMenu    int64
}

// NewMainMenuState returns a state with menu music and animations enabled.
func NewMainMenuState() *MainMenuState {
	b := NewBaseState()
	b.settings["menuMusicEnabled"] = true
	b.settings["menuAnimationsEnabled"] = true
	return &MainMenuState{BaseState: b}
}

// Type returns the persisted type tag.
func (s *MainMenuState) Type() StateType { return StateMainMenu }

// TimeInMenu returns milliseconds spent in the menu this session.
func (s *MainMenuState) TimeInMenu() int64 { return s.timeInMenu }

// LastSelection returns the last highlighted menu option, if any.
func (s *MainMenuState) LastSelection() (string, bool) {
	if s.lastSelection == nil {
		return "", false
	}
	return *s.lastSelection, true
}

// RecordSelection remembers the highlighted menu option.
func (s *MainMenuState) RecordSelection(text string) { s.lastSelection = &text }

// StartSession starts a base session and clears menu statistics.
func (s *MainMenuState) StartSession(now time.Time) {
	s.BaseState.StartSession(now)
	s.lastSelection = nil
	s.timeInMenu = 0
}

// Update tracks time in menu alongside play time.
func (s *MainMenuState) Update(now time.Time) {
	s.BaseState.Update(now)
	if !s.paused {
		s.timeInMenu = s.stats.PlayTime
	}
}

type menuSpecific struct {
	LastMenuSelection *string `json:"lastMenuSelection"`
	TimeInMenu        int64   `json:"timeInMenu"`
}

type menuSnapshot struct {
	baseSnapshot
	MenuSpecific menuSpecific `json:"menuSpecific"`
}

// Snapshot returns the base snapshot plus a menuSpecific block.
func (s *MainMenuState) Snapshot() any {
	return menuSnapshot{
		baseSnapshot: s.BaseState.Snapshot().(baseSnapshot),
		MenuSpecific: menuSpecific{LastMenuSelection: s.lastSelection, TimeInMenu: s.timeInMenu},
	}
}

// Restore merges the base fields and the menuSpecific block.
func (s *MainMenuState) Restore(data []byte) error {
	menu := menuSpecific{LastMenuSelection: s.lastSelection, TimeInMenu: s.timeInMenu}
	in := struct {
		MenuSpecific *menuSpecific `json:"menuSpecific"`
	}{MenuSpecific: &menu}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("game: restore menu state: %w", err)
	}
	if err := s.BaseState.Restore(data); err != nil {
		return err
	}
	s.lastSelection = menu.LastMenuSelection
	s.timeInMenu = menu.TimeInMenu
	return nil
}

// stateTypes is the closed lookup used when restoring a persisted state.
var stateTypes = map[StateType]func() State{
	StateGame:     func() State { return NewBaseState() },
	StateMainMenu: func() State { return NewMainMenuState() },
}

// NewState constructs a state for t. Unknown tags fall back to the base GameState
// and report ok=false.
func NewState(t StateType) (s State, ok bool) {
	ctor, ok := stateTypes[t]
	if !ok {
		return NewBaseState(), false
	}
	return ctor(), true
}

// Preset names the default game state a map gets when it is loaded.
type Preset string

const (
	PresetMainMenu Preset = "MainMenu"
	PresetNone     Preset = "None"
)

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool { return p == PresetMainMenu || p == PresetNone }

// NewState returns a fresh state for the preset, or nil for None and unknown presets.
func (p Preset) NewState() State {
	if p == PresetMainMenu {
		return NewMainMenuState()
	}
	return nil
}
