package persist

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/kv"
)

type fakeTarget struct {
	id       gamemap.ID
	entities []entity.Entity
}

func (f *fakeTarget) MapID() gamemap.ID { return f.id }

func (f *fakeTarget) EditorEntities() []entity.Entity {
	var out []entity.Entity
	for _, e := range f.entities {
		if e.Base().EditorOwned() {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeTarget) AddEntity(e entity.Entity) { f.entities = append(f.entities, e) }

func (f *fakeTarget) RemoveEntity(e entity.Entity) {
	for i, x := range f.entities {
		if x == e {
			f.entities = append(f.entities[:i], f.entities[i+1:]...)
			return
		}
	}
}

type fakeCamera struct {
	pos mgl32.Vec3
	rot mgl32.Quat
}

func (c *fakeCamera) Pose() (mgl32.Vec3, mgl32.Quat)     { return c.pos, c.rot }
func (c *fakeCamera) SetPose(p mgl32.Vec3, q mgl32.Quat) { c.pos, c.rot = p, q }

func setup(t *testing.T) (kv.Store, *entity.Registry) {
	t.Helper()
	store, err := kv.NewMemStore()
	require.NoError(t, err)
	reg, err := entity.DefaultRegistry()
	require.NoError(t, err)
	return store, reg
}

func spawn(t *testing.T, reg *entity.Registry, tag entity.Tag, tr entity.Transform) entity.Entity {
	t.Helper()
	e, ok := reg.Spawn(tag, &entity.SpawnOptions{Transform: &tr, EditorOwned: true})
	require.True(t, ok)
	return e
}

func TestEditorState_RoundTripThroughFreshEngine(t *testing.T) {
	store, reg := setup(t)
	src := &fakeTarget{id: gamemap.MainMenuID}

	marker := spawn(t, reg, entity.TagPlayerStart, entity.Transform{
		Position: mgl32.Vec3{1.25, 0, -3.5},
		Rotation: mgl32.Vec3{0.1, 1.2345678, -0.7},
		Scale:    mgl32.Vec3{1, 2, 1},
	})
	pawn := spawn(t, reg, entity.TagPawn, entity.Transform{
		Position: mgl32.Vec3{-4, 0.5, 2},
		Scale:    mgl32.Vec3{1, 1, 1},
	})
	pawn.(*entity.Pawn).Damage(30)
	pawn.Base().SetName("Scout")
	src.AddEntity(marker)
	src.AddEntity(pawn)
	src.AddEntity(entity.NewPawn()) // not editor-owned, never saved

	cam := &fakeCamera{pos: mgl32.Vec3{0, 5, 10}, rot: mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0})}
	require.NoError(t, New(store, nil).SaveEditorState(src, cam))

	dst := &fakeTarget{id: gamemap.MainMenuID}
	restoredCam := &fakeCamera{}
	n, ok := New(store, nil).LoadEditorState(dst, restoredCam, reg)
	require.True(t, ok)
	require.Equal(t, 2, n)

	for i, want := range []entity.Entity{marker, pawn} {
		got := dst.entities[i]
		assert.Equal(t, want.Tag(), got.Tag())
		assert.True(t, got.Base().EditorOwned())
		assert.Equal(t, want.Properties(), got.Properties())
		wt, gt := want.Base().Transform(), got.Base().Transform()
		for axis := range 3 {
			assert.InDelta(t, wt.Position[axis], gt.Position[axis], 1e-6)
			assert.InDelta(t, wt.Rotation[axis], gt.Rotation[axis], 1e-6)
			assert.InDelta(t, wt.Scale[axis], gt.Scale[axis], 1e-6)
		}
	}
	assert.Equal(t, "#00FF00", dst.entities[0].(*entity.PlayerStart).Color())
	assert.Equal(t, cam.pos, restoredCam.pos)
	assert.True(t, cam.rot.ApproxEqual(restoredCam.rot))
}

func TestLoadEditorState_AbsentLeavesMapUntouched(t *testing.T) {
	store, reg := setup(t)
	dst := &fakeTarget{id: gamemap.LongRoadID}
	keep := spawn(t, reg, entity.TagPawn, entity.IdentityTransform())
	dst.AddEntity(keep)
	cam := &fakeCamera{pos: mgl32.Vec3{1, 2, 3}}

	n, ok := New(store, nil).LoadEditorState(dst, cam, reg)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, []entity.Entity{keep}, dst.entities)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.pos)
}

func TestLoadEditorState_ReplacesEditorEntitiesOnly(t *testing.T) {
	store, reg := setup(t)
	eng := New(store, nil)
	require.NoError(t, eng.SaveScene(gamemap.MainMenuID, SceneRecord{Actors: []ActorRecord{
		{Type: entity.TagPlayerStart, Name: "A", Scale: mgl32.Vec3{1, 1, 1}},
		{Type: "Dragon", Name: "skip me"},
	}}))

	dst := &fakeTarget{id: gamemap.MainMenuID}
	stale := spawn(t, reg, entity.TagPawn, entity.IdentityTransform())
	ambient := entity.NewPawn()
	dst.AddEntity(stale)
	dst.AddEntity(ambient)

	n, ok := eng.LoadEditorState(dst, nil, reg)
	require.True(t, ok)
	assert.Equal(t, 1, n)
	require.Len(t, dst.entities, 2)
	assert.Same(t, ambient, dst.entities[0])
	assert.Equal(t, "A", dst.entities[1].Base().Name())
}

func TestLoadScene_CorruptIsAbsent(t *testing.T) {
	store, reg := setup(t)
	require.NoError(t, store.Set(SceneKey(gamemap.MainMenuID), "{not json"))
	_, ok := New(store, nil).LoadEditorState(&fakeTarget{id: gamemap.MainMenuID}, nil, reg)
	assert.False(t, ok)
}

func TestLoadScene_LegacyRecord(t *testing.T) {
	store, reg := setup(t)
	legacy := `{"actors":[{"type":"PlayerStart","name":"Old","position":[1,2,3],
		"rotation":[0,0,0.5,"ZYX"],"scale":[1,1,1],"properties":{"name":"Old","color":65280}}],
		"cameraState":{"position":[0,1,0],"rotation":[0,0,0,1]}}`
	require.NoError(t, store.Set("sceneData_LongRoad", legacy))

	dst := &fakeTarget{id: gamemap.LongRoadID}
	n, ok := New(store, nil).LoadEditorState(dst, &fakeCamera{}, reg)
	require.True(t, ok)
	require.Equal(t, 1, n)
	ps := dst.entities[0].(*entity.PlayerStart)
	assert.Equal(t, "#00FF00", ps.Color())
	assert.InDelta(t, 0.5, ps.Rotation()[2], 1e-6)
	assert.InDelta(t, 0, ps.Rotation()[0], 1e-6)
}

func TestEuler_OrderConversion(t *testing.T) {
	var e Euler
	require.NoError(t, json.Unmarshal([]byte(`[0.2,-0.4,0.9,"XYZ"]`), &e))
	assert.Equal(t, Euler{0.2, -0.4, 0.9}, e)

	require.NoError(t, json.Unmarshal([]byte(`[0.3,0.2,0.1,"ZYX"]`), &e))
	want := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1}).
		Mul(mgl32.QuatRotate(0.2, mgl32.Vec3{0, 1, 0})).
		Mul(mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0}))
	got := mgl32.AnglesToQuat(e[0], e[1], e[2], mgl32.XYZ)
	assert.InDelta(t, 1, math.Abs(float64(want.Dot(got))), 1e-5)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &e))
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3,"XXY"]`), &e))

	data, err := json.Marshal(Euler{1, 2, 3})
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))
}

func TestModeState_PersistsByModeKind(t *testing.T) {
	store, _ := setup(t)
	eng := New(store, nil)
	now := time.UnixMilli(1_000)
	mode := game.NewMainMenuMode(game.Options{Store: eng, Now: func() time.Time { return now }})
	mode.SetState(game.NewMainMenuState())
	mode.Start()
	mode.UpdateScore(3)
	mode.End()

	raw, ok, err := store.Get("MainMenuMode_gameState")
	require.NoError(t, err)
	require.True(t, ok)
	var rec ModeStateRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, game.StateMainMenu, rec.Type)

	st, ok := New(store, nil).LoadState(game.KindMainMenu)
	require.True(t, ok)
	assert.IsType(t, &game.MainMenuState{}, st)
	assert.Equal(t, 3, st.Base().Statistics().Score)

	require.NoError(t, store.Set("SurvivalMode_gameState", `{"type":"Mystery","state":{"isPaused":true}}`))
	st, ok = eng.LoadState(game.KindSurvival)
	require.True(t, ok)
	assert.Equal(t, game.StateGame, st.Type())
	assert.True(t, st.Base().Paused())

	mode.Reset()
	_, ok, _ = store.Get("MainMenuMode_gameState")
	assert.False(t, ok)
}

func TestConfig_DefaultsAndUpdate(t *testing.T) {
	store, _ := setup(t)
	eng := New(store, nil)
	assert.Equal(t, DefaultConfig(), eng.LoadConfig())

	cfg, err := eng.SetConfigValue("startupMap", "LongRoad")
	require.NoError(t, err)
	assert.Equal(t, gamemap.LongRoadID, cfg.StartupMap)
	assert.Equal(t, game.PresetMainMenu, cfg.GameState)

	cfg, err = eng.SetConfigValue("gameState", "None")
	require.NoError(t, err)
	assert.Equal(t, AppConfig{Version: 1, StartupMap: gamemap.LongRoadID, GameState: game.PresetNone}, cfg)

	_, err = eng.SetConfigValue("gameState", "Arcade")
	assert.Error(t, err)
	_, err = eng.SetConfigValue("volume", "11")
	assert.Error(t, err)

	raw, _, _ := store.Get(ConfigKey)
	assert.JSONEq(t, `{"version":1,"startupMap":"LongRoad","gameState":"None"}`, raw)
	assert.Equal(t, cfg, New(store, nil).LoadConfig())
}

func TestConfig_LegacyAndCorrupt(t *testing.T) {
	store, _ := setup(t)
	require.NoError(t, store.Set(ConfigKey, `{"startupMap":"LongRoad"}`))
	cfg := New(store, nil).LoadConfig()
	assert.Equal(t, AppConfig{Version: 1, StartupMap: gamemap.LongRoadID, GameState: game.PresetMainMenu}, cfg)

	require.NoError(t, store.Set(ConfigKey, `[]`))
	assert.Equal(t, DefaultConfig(), New(store, nil).LoadConfig())
}
