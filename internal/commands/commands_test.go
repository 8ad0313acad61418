package commands

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/camera"
	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/immersive"
	"sandbox-engine/internal/kv"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/playmode"
	"sandbox-engine/internal/scene"
)

type console struct {
	reg  *Registry
	deps Deps
	out  []string
	grid *bool
}

func newConsole(t *testing.T) *console {
	t.Helper()
	store, err := kv.NewMemStore()
	require.NoError(t, err)
	cat, err := gamemap.DefaultCatalog()
	require.NoError(t, err)
	reg, err := entity.DefaultRegistry()
	require.NoError(t, err)

	eng := persist.New(store, nil)
	sc := scene.New(scene.Options{Catalog: cat, Persist: eng})
	cam := camera.New()
	ed := editor.New(editor.Options{Scene: sc, Persist: eng, Registry: reg, Camera: cam})
	m := playmode.New(sc, cam, immersive.Unsupported{}, nil)

	c := &console{reg: NewRegistry(), grid: new(bool)}
	c.deps = Deps{
		Machine: m,
		Scene:   sc,
		Editor:  ed,
		Persist: eng,
		SetGrid: func(v bool) { *c.grid = v },
		Out:     func(line string) { c.out = append(c.out, line) },
	}
	Install(c.reg, c.deps)
	return c
}

func (c *console) run(line string) error { return c.reg.ExecuteLine(line) }

func TestParse(t *testing.T) {
	args, ok := Parse("cmd grid --show")
	assert.True(t, ok)
	assert.Equal(t, []string{"grid", "--show"}, args)

	args, ok = Parse("  spawn Pawn 1 2 3 ")
	assert.True(t, ok)
	assert.Equal(t, []string{"spawn", "Pawn", "1", "2", "3"}, args)

	_, ok = Parse("cmd ")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestExecute_Unknown(t *testing.T) {
	c := newConsole(t)
	assert.Error(t, c.reg.Execute(nil))
	assert.ErrorContains(t, c.run("fly"), "unknown command")
}

func TestSpawnAndDelete(t *testing.T) {
	c := newConsole(t)

	require.NoError(t, c.run("spawn PlayerStart 1 2 3 2 2 2"))
	ents := c.deps.Editor.Entities()
	require.Len(t, ents, 1)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, ents[0].Base().Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, ents[0].Base().Scale())

	assert.Error(t, c.run("spawn Dragon"))
	assert.Error(t, c.run("spawn Pawn 1 two 3"))
	assert.Error(t, c.run("spawn"))

	require.NoError(t, c.run("delete selected"))
	assert.Empty(t, c.deps.Editor.Entities())
	assert.Error(t, c.run("delete selected"))
}

func TestDeleteByName(t *testing.T) {
	c := newConsole(t)
	require.NoError(t, c.run("spawn Pawn"))
	name := c.deps.Editor.Entities()[0].Base().Name()

	assert.Error(t, c.run("delete nobody"))
	require.NoError(t, c.run("delete "+name))
	assert.Empty(t, c.deps.Editor.Entities())
}

func TestGrid_FlagsResetBetweenRuns(t *testing.T) {
	c := newConsole(t)

	require.NoError(t, c.run("grid --show"))
	assert.True(t, *c.grid)
	require.NoError(t, c.run("grid --hide"))
	assert.False(t, *c.grid)
	assert.Error(t, c.run("grid"))
	assert.Error(t, c.run("grid --verbose"))
}

func TestPlayStop(t *testing.T) {
	c := newConsole(t)
	require.NoError(t, c.run("map LongRoad"))

	require.NoError(t, c.run("play --scheme immersive"))
	assert.True(t, c.deps.Machine.Playing())
	assert.Equal(t, playmode.Desktop, c.deps.Machine.ActiveScheme())
	assert.Equal(t, gamemap.MainMenuID, c.deps.Scene.MapID())
	assert.Error(t, c.run("map LongRoad"))
	assert.Error(t, c.run("scheme desktop"))

	require.NoError(t, c.run("pause"))
	assert.Equal(t, game.Paused, c.deps.Scene.GameMode().Base().Phase())
	assert.Error(t, c.run("pause"))
	require.NoError(t, c.run("resume"))

	require.NoError(t, c.run("stop"))
	require.NoError(t, c.run("stop"))
	assert.False(t, c.deps.Machine.Playing())
}

func TestConfig(t *testing.T) {
	c := newConsole(t)

	require.NoError(t, c.run("config startupMap LongRoad"))
	assert.Equal(t, gamemap.LongRoadID, c.deps.Persist.LoadConfig().StartupMap)
	assert.Error(t, c.run("config startupMap Atlantis"))
	assert.Error(t, c.run("config gameState Chaos"))
	assert.Error(t, c.run("config gameState"))

	c.out = nil
	require.NoError(t, c.run("config"))
	assert.Equal(t, []string{"startupMap=LongRoad gameState=MainMenu"}, c.out)
}

func TestSaveLoad(t *testing.T) {
	c := newConsole(t)
	c.deps.Editor.SetAutoSave(false)
	require.NoError(t, c.run("spawn Pawn"))
	require.NoError(t, c.run("save"))
	require.NoError(t, c.run("spawn Pawn"))
	require.Len(t, c.deps.Editor.Entities(), 2)

	require.NoError(t, c.run("load"))
	assert.Len(t, c.deps.Editor.Entities(), 1)
}

func TestTerrain(t *testing.T) {
	c := newConsole(t)
	before := len(c.deps.Scene.Map().Root().Props())

	require.NoError(t, c.run("terrain --size 4 --seed 9"))
	assert.Len(t, c.deps.Scene.Map().Root().Props(), before+16)
	assert.Error(t, c.run("terrain --size 0"))
}

func TestHelp(t *testing.T) {
	c := newConsole(t)
	require.NoError(t, c.run("help"))
	assert.Len(t, c.out, len(c.reg.Names()))
	assert.Contains(t, c.reg.Names(), "play")
}
