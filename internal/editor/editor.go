// Package editor places, edits and removes editor-owned actors in the live scene and keeps
// each map's scene record in step with them.
package editor

import (
	"log/slog"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/scene"
)

// Notifications. Spawned, Deleted and Selected carry the entity.Entity (Selected may carry
// nil); Saved and Restored carry the gamemap.ID.
const (
	EntitySpawned    event.Name = "entitySpawned"
	EntityDeleted    event.Name = "entityDeleted"
	SelectionChanged event.Name = "selectionChanged"
	EditorSaved      event.Name = "editorSaved"
	EditorRestored   event.Name = "editorRestored"
)

// SpawnDistance is how far in front of the camera a spawn without a transform lands.
const SpawnDistance = 5

// Camera is the editor camera: persisted with the scene and used to place new actors.
type Camera interface {
	persist.Camera
	PointAhead(distance float32) mgl32.Vec3
}

// Options configure an editor. Scene, Persist and Registry are required.
type Options struct {
	Scene    *scene.Scene
	Persist  *persist.Engine
	Registry *entity.Registry
	Camera   Camera
	Logger   *slog.Logger
}

// Editor is driven from the tick goroutine only.
type Editor struct {
	Events event.Emitter

	scene    *scene.Scene
	persist  *persist.Engine
	registry *entity.Registry
	cam      Camera
	log      *slog.Logger

	selected entity.Entity
	enabled  bool
	autoSave bool
}

// New returns an enabled editor with auto-save on and installs it as the scene's restorer,
// which restores the mounted map right away.
func New(opts Options) *Editor {
	ed := &Editor{
		scene:    opts.Scene,
		persist:  opts.Persist,
		registry: opts.Registry,
		cam:      opts.Camera,
		log:      opts.Logger,
		enabled:  true,
		autoSave: true,
	}
	if ed.log == nil {
		ed.log = slog.Default()
	}
	ed.scene.SetRestorer(ed)
	return ed
}

// Enabled reports whether edits are accepted.
func (ed *Editor) Enabled() bool { return ed.enabled }

// SetEnabled turns editing on or off. Disabling clears the selection.
func (ed *Editor) SetEnabled(v bool) {
	ed.enabled = v
	if !v {
		ed.Select(nil)
	}
}

// SetAutoSave controls whether spawn, delete and edits save the scene record.
func (ed *Editor) SetAutoSave(v bool) { ed.autoSave = v }

// Registry returns the actor registry used for spawning.
func (ed *Editor) Registry() *entity.Registry { return ed.registry }

// Spawn creates an editor-owned actor of type tag and mounts it. A nil transform places
// the actor SpawnDistance units in front of the camera at unit scale.
func (ed *Editor) Spawn(tag entity.Tag, tr *entity.Transform) (entity.Entity, bool) {
	if !ed.enabled {
		return nil, false
	}
	if tr == nil {
		t := entity.IdentityTransform()
		if ed.cam != nil {
			t.Position = ed.cam.PointAhead(SpawnDistance)
		}
		tr = &t
	}
	def, ok := ed.registry.Definition(tag)
	if !ok {
		ed.log.Warn("editor: unknown actor type", "type", tag)
		return nil, false
	}
	base := def.Name
	if base == "" {
		base = string(tag)
	}
	e, ok := ed.registry.Spawn(tag, &entity.SpawnOptions{Transform: tr, Name: ed.uniqueName(base), EditorOwned: true})
	if !ok {
		ed.log.Warn("editor: unknown actor type", "type", tag)
		return nil, false
	}
	ed.scene.AddEntity(e)
	ed.log.Info("editor: spawned", "type", tag, "name", e.Base().Name(), "map", ed.scene.MapID())
	ed.Events.Emit(EntitySpawned, e)
	ed.Select(e)
	ed.changed()
	return e, true
}

// Delete removes an editor-owned entity from the scene. Entities the map itself placed
// cannot be deleted.
func (ed *Editor) Delete(e entity.Entity) bool {
	if !ed.enabled || !ed.owns(e) {
		return false
	}
	ed.scene.RemoveEntity(e)
	if ed.selected == e {
		ed.Select(nil)
	}
	ed.Events.Emit(EntityDeleted, e)
	ed.changed()
	return true
}

// DeleteSelected deletes the selected entity, if any.
func (ed *Editor) DeleteSelected() bool {
	return ed.Delete(ed.selected)
}

// Select makes e the edit target. nil clears the selection.
func (ed *Editor) Select(e entity.Entity) {
	if ed.selected == e {
		return
	}
	ed.selected = e
	ed.Events.Emit(SelectionChanged, e)
}

// Selected returns the edit target, or nil.
func (ed *Editor) Selected() entity.Entity { return ed.selected }

// Entities returns the editor-owned entities of the mounted map.
func (ed *Editor) Entities() []entity.Entity { return ed.scene.EditorEntities() }

// Find returns the first editor-owned entity named name.
func (ed *Editor) Find(name string) (entity.Entity, bool) {
	for _, e := range ed.scene.EditorEntities() {
		if e.Base().Name() == name {
			return e, true
		}
	}
	return nil, false
}

// uniqueName returns base when no editor actor uses it, otherwise base_N with the smallest
// free N from 2.
func (ed *Editor) uniqueName(base string) string {
	taken := make(map[string]bool)
	for _, e := range ed.scene.EditorEntities() {
		taken[e.Base().Name()] = true
	}
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		if name := base + "_" + strconv.Itoa(n); !taken[name] {
			return name
		}
	}
}

// SetTransform moves an editor-owned entity. Non-finite components are ignored by the
// entity itself.
func (ed *Editor) SetTransform(e entity.Entity, t entity.Transform) bool {
	if !ed.enabled || !ed.owns(e) {
		return false
	}
	e.Base().SetTransform(t)
	e.Base().UpdateBounds()
	ed.changed()
	return true
}

// SetProperties applies serializable properties to an editor-owned entity.
func (ed *Editor) SetProperties(e entity.Entity, props entity.Properties) bool {
	if !ed.enabled || !ed.owns(e) {
		return false
	}
	e.LoadProperties(props)
	ed.changed()
	return true
}

// Save writes the mounted map's scene record.
func (ed *Editor) Save() error {
	if err := ed.persist.SaveEditorState(ed.scene, ed.cam); err != nil {
		return err
	}
	ed.Events.Emit(EditorSaved, ed.scene.MapID())
	return nil
}

// Restore replaces the editor-owned entities of the mounted map with its saved record.
// Nothing changes when id has no record.
func (ed *Editor) Restore(id gamemap.ID) {
	if ed.selected != nil && !ed.owns(ed.selected) {
		ed.Select(nil)
	}
	n, ok := ed.persist.LoadEditorState(ed.scene, ed.cam, ed.registry)
	if !ok {
		return
	}
	ed.Select(nil)
	ed.log.Info("editor: restored", "map", id, "actors", n)
	ed.Events.Emit(EditorRestored, id)
}

// Clear removes the mounted map's scene record. Live entities stay.
func (ed *Editor) Clear() error {
	return ed.persist.ClearScene(ed.scene.MapID())
}

func (ed *Editor) owns(e entity.Entity) bool {
	if e == nil {
		return false
	}
	for _, x := range ed.scene.EditorEntities() {
		if x == e {
			return true
		}
	}
	return false
}

func (ed *Editor) changed() {
	if !ed.autoSave {
		return
	}
	if err := ed.Save(); err != nil {
		ed.log.Error("editor: auto-save failed", "map", ed.scene.MapID(), "err", err)
	}
}
