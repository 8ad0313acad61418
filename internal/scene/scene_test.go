package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/kv"
	"sandbox-engine/internal/persist"
)

type recordingRestorer struct{ ids []gamemap.ID }

func (r *recordingRestorer) Restore(id gamemap.ID) { r.ids = append(r.ids, id) }

func newScene(t *testing.T) (*Scene, *persist.Engine) {
	t.Helper()
	store, err := kv.NewMemStore()
	require.NoError(t, err)
	cat, err := gamemap.DefaultCatalog()
	require.NoError(t, err)
	eng := persist.New(store, nil)
	return New(Options{Catalog: cat, Persist: eng}), eng
}

func TestNew_MountsStartupMap(t *testing.T) {
	s, _ := newScene(t)

	assert.Equal(t, gamemap.MainMenuID, s.MapID())
	require.NotNil(t, s.GameMode())
	assert.Equal(t, game.KindMainMenu, s.GameMode().Base().Kind())
	_, isMenuState := s.Map().GameState().(*game.MainMenuState)
	assert.True(t, isMenuState)
}

func TestLoadMap_KeepsEditorEntitiesOnly(t *testing.T) {
	s, _ := newScene(t)

	kept := entity.NewPlayerStart()
	kept.SetEditorOwned(true)
	kept.SetPosition(mgl32.Vec3{1, 2, 3})
	dropped := entity.NewPawn()
	s.AddEntity(kept)
	s.AddEntity(dropped)

	s.LoadMap(gamemap.LongRoadID)

	assert.Equal(t, gamemap.LongRoadID, s.MapID())
	require.Len(t, s.Entities(), 1)
	assert.Same(t, kept, s.Entities()[0])
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, kept.Position())

	s.LoadMap(gamemap.MainMenuID)
	require.Len(t, s.EditorEntities(), 1)
	assert.Same(t, kept, s.EditorEntities()[0])
}

func TestLoadMap_UnknownFallsBack(t *testing.T) {
	s, _ := newScene(t)
	var loaded []any
	s.Events.On(MapLoaded, func(ev event.Event) { loaded = append(loaded, ev.Payload) })

	s.LoadMap("Nowhere")

	assert.Equal(t, gamemap.MainMenuID, s.MapID())
	assert.Equal(t, []any{gamemap.MainMenuID}, loaded)
}

func TestLoadMap_RunsRestorerLast(t *testing.T) {
	s, _ := newScene(t)
	r := &recordingRestorer{}
	s.SetRestorer(r)
	s.LoadMap(gamemap.LongRoadID)

	assert.Equal(t, []gamemap.ID{gamemap.MainMenuID, gamemap.LongRoadID}, r.ids)
}

func TestMenuChoice_SwitchesOnNextTick(t *testing.T) {
	s, _ := newScene(t)
	menu, ok := s.Instance().(*gamemap.MainMenu)
	require.True(t, ok)

	menu.Menu.Choose()

	assert.Equal(t, gamemap.MainMenuID, s.MapID())
	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, gamemap.LongRoadID, pending)

	s.Update(0.016)

	assert.Equal(t, gamemap.LongRoadID, s.MapID())
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestLoadMap_PresetNoneLeavesModeState(t *testing.T) {
	s, eng := newScene(t)
	_, err := eng.SetConfigValue("gameState", "None")
	require.NoError(t, err)

	s.LoadMap(gamemap.LongRoadID)

	_, isBase := s.Map().GameState().(*game.BaseState)
	assert.True(t, isBase)
}

func TestStartupMap_FollowsConfig(t *testing.T) {
	s, eng := newScene(t)
	_, err := eng.SetConfigValue("startupMap", string(gamemap.LongRoadID))
	require.NoError(t, err)

	assert.Equal(t, gamemap.LongRoadID, s.StartupMap())
}

func TestUpdate_IntegratesAndSweeps(t *testing.T) {
	s, _ := newScene(t)
	a := entity.NewPawn()
	b := entity.NewPawn()
	b.SetPosition(mgl32.Vec3{0.1, 0, 0})
	a.Acceleration = mgl32.Vec3{10, 0, 0}
	s.AddEntity(a)
	s.AddEntity(b)

	s.Update(0.01)

	assert.Greater(t, a.Position().X(), float32(0))
	assert.Len(t, s.Contacts(), 1)
}

func TestObjects_SurviveMapSwitch(t *testing.T) {
	s, _ := newScene(t)
	sky := entity.NewObject("sky")
	s.AddObject(&sky)
	s.LoadMap(gamemap.LongRoadID)

	require.Len(t, s.Objects(), 1)
	assert.Equal(t, "sky", s.Objects()[0].Name())
}
