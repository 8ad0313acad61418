package game

import (
	"slices"
	"time"

	"sandbox-engine/internal/event"
)

// Mode-specific notifications.
const (
	OptionSelected    event.Name = "optionSelected"
	OptionChosen      event.Name = "optionChosen"
	LifeLost          event.Name = "lifeLost"
	LifeGained        event.Name = "lifeGained"
	LevelUp           event.Name = "levelUp"
	CheckpointAdded   event.Name = "checkpointAdded"
	CheckpointReached event.Name = "checkpointReached"
)

// DefaultMenuOptions are the entries of the main menu.
var DefaultMenuOptions = []string{"Long Road", "Settings", "Credits"}

// MenuOption is the payload of OptionSelected and OptionChosen.
type MenuOption struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// MainMenuMode cycles a selection through a list of menu options.
type MainMenuMode struct {
	*Mode

	options  []string
	selected int
}

// NewMainMenuMode returns a menu mode with DefaultMenuOptions.
func NewMainMenuMode(opts Options) *MainMenuMode {
	m := &MainMenuMode{Mode: NewMode(KindMainMenu, opts), options: slices.Clone(DefaultMenuOptions)}
	m.onInit = append(m.onInit, func() { m.selected = 0 })
	return m
}

// Options returns the menu entries.
func (m *MainMenuMode) Options() []string { return m.options }

// SetOptions replaces the menu entries and selects the first one.
func (m *MainMenuMode) SetOptions(options []string) {
	m.options = slices.Clone(options)
	m.selected = 0
	m.emitSelected()
}

// Selected returns the highlighted option. ok is false for an empty menu.
func (m *MainMenuMode) Selected() (MenuOption, bool) {
	if len(m.options) == 0 {
		return MenuOption{}, false
	}
	return MenuOption{Index: m.selected, Text: m.options[m.selected]}, true
}

// SelectNext moves the highlight forward, wrapping around.
func (m *MainMenuMode) SelectNext() {
	if len(m.options) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.options)
	m.emitSelected()
}

// SelectPrevious moves the highlight back, wrapping around.
func (m *MainMenuMode) SelectPrevious() {
	if len(m.options) == 0 {
		return
	}
	m.selected = (m.selected - 1 + len(m.options)) % len(m.options)
	m.emitSelected()
}

// Choose confirms the highlighted option and emits OptionChosen.
func (m *MainMenuMode) Choose() {
	if opt, ok := m.Selected(); ok {
		m.Events.Emit(OptionChosen, opt)
	}
}

func (m *MainMenuMode) emitSelected() {
	opt, ok := m.Selected()
	if !ok {
		return
	}
	if ms, ok := m.state.(*MainMenuState); ok {
		ms.RecordSelection(opt.Text)
	}
	m.Events.Emit(OptionSelected, opt)
}

// DefaultLives is how many lives a survival game starts with.
const DefaultLives = 3

// SurvivalMode ends the game when the last life is lost.
type SurvivalMode struct {
	*Mode

	lives    int
	maxLives int
	level    int
}

// NewSurvivalMode returns a survival mode at level 1 with DefaultLives.
func NewSurvivalMode(opts Options) *SurvivalMode {
	m := &SurvivalMode{Mode: NewMode(KindSurvival, opts), lives: DefaultLives, maxLives: DefaultLives, level: 1}
	m.onInit = append(m.onInit, func() {
		m.lives = m.maxLives
		m.level = 1
	})
	return m
}

// Lives returns the remaining lives.
func (m *SurvivalMode) Lives() int { return m.lives }

// Level returns the current level, starting at 1.
func (m *SurvivalMode) Level() int { return m.level }

// LoseLife removes a life and ends the game at zero.
func (m *SurvivalMode) LoseLife() {
	if m.lives <= 0 {
		return
	}
	m.lives--
	m.Events.Emit(LifeLost, m.lives)
	if m.lives == 0 {
		m.End()
	}
}

// GainLife adds a life up to the maximum.
func (m *SurvivalMode) GainLife() {
	if m.lives >= m.maxLives {
		return
	}
	m.lives++
	m.Events.Emit(LifeGained, m.lives)
}

// LevelUp advances the level.
func (m *SurvivalMode) LevelUp() {
	m.level++
	m.Events.Emit(LevelUp, m.level)
}

// DefaultTimeLimit is the length of a time trial.
const DefaultTimeLimit = 3 * time.Minute

// CheckpointScore is awarded for each checkpoint reached.
const CheckpointScore = 100

// TimeTrialMode scores checkpoints against a time limit.
type TimeTrialMode struct {
	*Mode

	checkpoints map[string]bool
}

// NewTimeTrialMode returns a time trial with the given limit (DefaultTimeLimit when zero).
func NewTimeTrialMode(limit time.Duration, opts Options) *TimeTrialMode {
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	m := &TimeTrialMode{Mode: NewMode(KindTimeTrial, opts), checkpoints: map[string]bool{}}
	m.SetTimeLimit(limit)
	m.onInit = append(m.onInit, func() { clear(m.checkpoints) })
	return m
}

// AddCheckpoint registers a checkpoint id.
func (m *TimeTrialMode) AddCheckpoint(id string) {
	m.checkpoints[id] = true
	m.Events.Emit(CheckpointAdded, id)
}

// ReachCheckpoint scores a registered checkpoint. Unknown ids are ignored.
func (m *TimeTrialMode) ReachCheckpoint(id string) {
	if !m.checkpoints[id] {
		return
	}
	m.UpdateScore(CheckpointScore)
	m.Events.Emit(CheckpointReached, id)
}

// TimeRemaining is the time left while playing, or the full limit otherwise.
func (m *TimeTrialMode) TimeRemaining() time.Duration {
	if m.startTime.IsZero() || m.phase != Playing {
		return m.timeLimit
	}
	return max(0, m.timeLimit-m.TimePlayed())
}

// NewByKind constructs a mode variant by kind. Unknown kinds return ok=false.
func NewByKind(kind Kind, opts Options) (GameMode, bool) {
	switch kind {
	case KindGame:
		return NewMode(KindGame, opts), true
	case KindMainMenu:
		return NewMainMenuMode(opts), true
	case KindSurvival:
		return NewSurvivalMode(opts), true
	case KindTimeTrial:
		return NewTimeTrialMode(0, opts), true
	}
	return nil, false
}
