package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/event"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock { return &clock{t: time.UnixMilli(1_700_000_000_000)} }

type record struct {
	typ  StateType
	data []byte
}

// memStore keeps snapshots the way a durable store would: serialized.
type memStore struct {
	records map[Kind]record
	saves   int
}

func newMemStore() *memStore { return &memStore{records: map[Kind]record{}} }

func (s *memStore) LoadState(kind Kind) (State, bool) {
	r, ok := s.records[kind]
	if !ok {
		return nil, false
	}
	st, _ := NewState(r.typ)
	if err := st.Restore(r.data); err != nil {
		return nil, false
	}
	return st, true
}

func (s *memStore) SaveState(kind Kind, st State) error {
	data, err := json.Marshal(st.Snapshot())
	if err != nil {
		return err
	}
	s.records[kind] = record{typ: st.Type(), data: data}
	s.saves++
	return nil
}

func (s *memStore) ClearState(kind Kind) error {
	delete(s.records, kind)
	return nil
}

func recordEvents(m *Mode) *[]event.Name {
	var names []event.Name
	m.Events.OnAll(func(ev event.Event) { names = append(names, ev.Name) })
	return &names
}

func TestMode_Lifecycle(t *testing.T) {
	c := newClock()
	store := newMemStore()
	m := NewMode(KindGame, Options{Store: store, Now: c.now})
	names := recordEvents(m)

	require.True(t, m.Start())
	assert.Equal(t, Playing, m.Phase())
	assert.Len(t, m.Players(), 1)
	assert.False(t, m.Start(), "start only from waiting")

	m.UpdateScore(5)
	require.True(t, m.Pause())
	assert.False(t, m.Pause())
	assert.True(t, m.State().Base().Paused())
	require.True(t, m.Resume())
	assert.False(t, m.Resume())

	var summary EndSummary
	m.Events.On(event.GameEnd, func(ev event.Event) { summary = ev.Payload.(EndSummary) })
	c.advance(2 * time.Second)
	require.True(t, m.End())
	assert.False(t, m.End())
	assert.Equal(t, Ended, m.Phase())
	assert.Empty(t, m.Players())
	assert.Equal(t, EndSummary{Score: 5, TimePlayed: 2000}, summary)
	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":5,"timePlayed":2000}`, string(data))

	assert.Equal(t, []event.Name{
		event.PlayerJoined, event.GameStart, event.ScoreUpdate,
		event.GamePause, event.GameResume, event.GameEnd,
	}, *names)

	assert.Contains(t, store.records, KindGame)
	m.Reset()
	assert.NotContains(t, store.records, KindGame)
	assert.Equal(t, Waiting, m.Phase())
	assert.Zero(t, m.Score())
}

func TestMode_TimeLimitEndsGame(t *testing.T) {
	c := newClock()
	m := NewTimeTrialMode(time.Minute, Options{Now: c.now})
	ticks := 0
	m.Events.On(event.GameTick, func(event.Event) { ticks++ })

	m.Start()
	m.Update(0.016)
	c.advance(30 * time.Second)
	assert.Equal(t, 30*time.Second, m.TimeRemaining())
	c.advance(30 * time.Second)
	m.Update(0.016)

	assert.Equal(t, Ended, m.Phase())
	assert.Equal(t, 1, ticks)
	assert.Equal(t, time.Minute, m.TimePlayed())
}

func TestMode_StatePersistsAcrossInstances(t *testing.T) {
	c := newClock()
	store := newMemStore()
	m := NewMainMenuMode(Options{Store: store, Now: c.now})
	m.SetState(NewMainMenuState())
	m.Start()
	m.SelectNext()
	c.advance(1500 * time.Millisecond)
	m.Update(0.016)
	m.End()

	again := NewMainMenuMode(Options{Store: store, Now: c.now})
	again.Init()
	st, ok := again.State().(*MainMenuState)
	require.True(t, ok, "state type survives by tag")
	sel, ok := st.LastSelection()
	require.True(t, ok)
	assert.Equal(t, "Settings", sel)
	assert.Equal(t, int64(1500), st.TimeInMenu())
	assert.Equal(t, int64(1500), st.Statistics().PlayTime)
	assert.Equal(t, true, st.Settings()["menuMusicEnabled"])
}

func TestNewState_FallsBackToBase(t *testing.T) {
	st, ok := NewState("FancyState")
	assert.False(t, ok)
	assert.Equal(t, StateGame, st.Type())
}

func TestBaseState_RestoreMerges(t *testing.T) {
	st := NewBaseState()
	st.SetSetting("volume", 0.5)
	require.NoError(t, st.Restore([]byte(`{"settings":{"soundEnabled":false},"statistics":{"score":12}}`)))

	assert.Equal(t, map[string]any{"soundEnabled": false, "volume": 0.5}, st.Settings())
	assert.Equal(t, 12, st.Statistics().Score)
	assert.Nil(t, st.Statistics().SessionStartTime)
	assert.False(t, st.Paused())

	assert.Error(t, st.Restore([]byte(`{"statistics":"nope"}`)))
	assert.Equal(t, 12, st.Statistics().Score)
}

func TestMainMenuMode_SelectionWraps(t *testing.T) {
	m := NewMainMenuMode(Options{})
	var chosen []string
	m.Events.On(OptionChosen, func(ev event.Event) { chosen = append(chosen, ev.Payload.(MenuOption).Text) })

	m.SelectPrevious()
	m.Choose()
	m.SelectNext()
	m.Choose()
	m.Init()
	m.Choose()

	assert.Equal(t, []string{"Credits", "Long Road", "Long Road"}, chosen)
}

func TestSurvivalMode_LastLifeEndsGame(t *testing.T) {
	m := NewSurvivalMode(Options{})
	m.Start()
	m.GainLife()
	assert.Equal(t, DefaultLives, m.Lives())

	m.LevelUp()
	for range DefaultLives {
		m.LoseLife()
	}
	assert.Equal(t, Ended, m.Phase())
	assert.Equal(t, 2, m.Level())

	m.Reset()
	assert.Equal(t, DefaultLives, m.Lives())
	assert.Equal(t, 1, m.Level())
}

func TestTimeTrialMode_Checkpoints(t *testing.T) {
	m := NewTimeTrialMode(0, Options{})
	assert.Equal(t, DefaultTimeLimit, m.TimeLimit())
	m.Start()
	m.AddCheckpoint("gate-1")
	m.ReachCheckpoint("gate-1")
	m.ReachCheckpoint("gate-9")
	assert.Equal(t, CheckpointScore, m.Score())
}

func TestPlayer_Pawn(t *testing.T) {
	p := NewPlayer()
	assert.Len(t, p.ID(), 36)
	assert.Equal(t, "Player_"+p.ID()[:8], p.Name())

	first := p.SpawnPawn(nil)
	second := p.SpawnPawn(nil)
	assert.True(t, first.Dead())
	assert.False(t, second.Dead())

	p.DespawnPawn()
	assert.Nil(t, p.Pawn())
	assert.True(t, second.Dead())
}

func TestPreset(t *testing.T) {
	assert.IsType(t, &MainMenuState{}, PresetMainMenu.NewState())
	assert.Nil(t, PresetNone.NewState())
	assert.False(t, Preset("Arcade").Valid())
}
