package agent

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox-engine/internal/camera"
	"sandbox-engine/internal/commands"
	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/kv"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/scene"
)

func newAgent(t *testing.T) (*Agent, *editor.Editor, *commands.Registry) {
	t.Helper()
	store, err := kv.NewMemStore()
	require.NoError(t, err)
	cat, err := gamemap.DefaultCatalog()
	require.NoError(t, err)
	reg, err := entity.DefaultRegistry()
	require.NoError(t, err)
	eng := persist.New(store, nil)
	sc := scene.New(scene.Options{Catalog: cat, Persist: eng})
	ed := editor.New(editor.Options{Scene: sc, Persist: eng, Registry: reg, Camera: camera.New()})

	cmds := commands.NewRegistry()
	a := New()
	RegisterEditorHandlers(a, ed, cmds)
	return a, ed, cmds
}

func TestApply_SingleAction(t *testing.T) {
	a, ed, _ := newAgent(t)

	summary, err := a.Apply([]byte(`{"action":"spawn","type":"PlayerStart","name":"start","position":[1,0,2],"properties":{"color":"#112233"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Done. Applied 1 action(s).", summary)

	e, ok := ed.Find("start")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 2}, e.Base().Position())
	assert.Equal(t, "#112233", e.(*entity.PlayerStart).Color())
}

func TestApply_ActionList(t *testing.T) {
	a, ed, _ := newAgent(t)

	summary, err := a.Apply([]byte(`{"actions":[
		{"action":"spawn","type":"Pawn","name":"p1"},
		{"action":"set_transform","name":"p1","position":[4,5,6],"scale":[2,2,2]},
		{"action":"set_properties","name":"p1","properties":{"team":3}}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, "Done. Applied 3 action(s).", summary)

	e, ok := ed.Find("p1")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, e.Base().Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, e.Base().Scale())
	assert.Equal(t, 3, e.(*entity.Pawn).Team())
}

func TestApply_ReportsFailuresAndContinues(t *testing.T) {
	a, ed, _ := newAgent(t)

	summary, err := a.Apply([]byte(`{"actions":[
		{"action":"spawn","type":"Dragon"},
		{"action":"teleport"},
		{"type":"Pawn"},
		{"action":"delete","name":"ghost"},
		{"action":"spawn","type":"Pawn"}
	]}`))
	require.NoError(t, err)
	assert.Contains(t, summary, `action 1 (spawn): cannot spawn "Dragon"`)
	assert.Contains(t, summary, `action 2: unknown action "teleport"`)
	assert.Contains(t, summary, "action 3: missing action")
	assert.Contains(t, summary, "action 4 (delete)")
	assert.Len(t, ed.Entities(), 1)
}

func TestApply_DeleteSelected(t *testing.T) {
	a, ed, _ := newAgent(t)
	_, err := a.Apply([]byte(`{"action":"spawn","type":"Pawn"}`))
	require.NoError(t, err)

	_, err = a.Apply([]byte(`{"action":"delete","name":"selected"}`))
	require.NoError(t, err)
	assert.Empty(t, ed.Entities())
}

func TestApply_RunCmd(t *testing.T) {
	a, _, cmds := newAgent(t)
	var ran []string
	fs := commands.NewFlagSet("ping")
	cmds.Register("ping", "ping", fs, func() error {
		ran = append(ran, fs.Args()...)
		return nil
	})

	summary, err := a.Apply([]byte(`{"action":"run_cmd","args":["ping","a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Done. Applied 1 action(s).", summary)
	assert.Equal(t, []string{"a", "b"}, ran)

	summary, err = a.Apply([]byte(`{"action":"run_cmd","args":["ping",1]}`))
	require.NoError(t, err)
	assert.Contains(t, summary, "args must be strings")
}

func TestApply_InvalidMessage(t *testing.T) {
	a, _, _ := newAgent(t)

	_, err := a.Apply([]byte(`not json`))
	assert.Error(t, err)
	_, err = a.Apply([]byte(`{"hello":1}`))
	assert.Error(t, err)

	summary, err := a.Apply([]byte(`{"actions":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "No actions to apply.", summary)
}
