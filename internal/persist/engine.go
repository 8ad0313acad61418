// Package persist saves and restores editor scenes, game mode state and app settings
// as JSON records in a kv.Store.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/kv"
)

// Engine reads and writes records. Unreadable records are treated as absent and logged.
type Engine struct {
	store kv.Store
	log   *slog.Logger
}

// New returns an engine over store.
func New(store kv.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, log: log}
}

// Store returns the backing store.
func (e *Engine) Store() kv.Store { return e.store }

func (e *Engine) read(key string, v any) bool {
	raw, ok, err := e.store.Get(key)
	if err != nil {
		e.log.Warn("persist: read failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		e.log.Warn("persist: ignoring corrupt record", "key", key, "err", err)
		return false
	}
	return true
}

func (e *Engine) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", key, err)
	}
	if err := e.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("persist: write %s: %w", key, err)
	}
	return nil
}

// SaveScene replaces the saved scene for id.
func (e *Engine) SaveScene(id gamemap.ID, rec SceneRecord) error {
	rec.Version = SceneVersion
	if rec.Actors == nil {
		rec.Actors = []ActorRecord{}
	}
	return e.write(SceneKey(id), rec)
}

// LoadScene returns the saved scene for id.
func (e *Engine) LoadScene(id gamemap.ID) (SceneRecord, bool) {
	var rec SceneRecord
	if !e.read(SceneKey(id), &rec) {
		return SceneRecord{}, false
	}
	if rec.Version > SceneVersion {
		e.log.Warn("persist: scene from a newer version", "map", id, "version", rec.Version)
	}
	return rec, true
}

// HasScene reports whether a readable scene exists for id.
func (e *Engine) HasScene(id gamemap.ID) bool {
	_, ok := e.LoadScene(id)
	return ok
}

// ClearScene deletes the saved scene for id.
func (e *Engine) ClearScene(id gamemap.ID) error {
	if err := e.store.Remove(SceneKey(id)); err != nil {
		return fmt.Errorf("persist: clear scene %s: %w", id, err)
	}
	return nil
}

// LoadState implements game.StateStore. Unknown state types restore into the base state.
func (e *Engine) LoadState(kind game.Kind) (game.State, bool) {
	var rec ModeStateRecord
	if !e.read(StateKey(kind), &rec) {
		return nil, false
	}
	st, known := game.NewState(rec.Type)
	if !known {
		e.log.Warn("persist: unknown state type, using base", "mode", kind, "type", rec.Type)
	}
	if len(rec.State) > 0 && string(rec.State) != "null" {
		if err := st.Restore(rec.State); err != nil {
			e.log.Warn("persist: ignoring corrupt state", "mode", kind, "err", err)
			return nil, false
		}
	}
	return st, true
}

// SaveState implements game.StateStore.
func (e *Engine) SaveState(kind game.Kind, st game.State) error {
	data, err := json.Marshal(st.Snapshot())
	if err != nil {
		return fmt.Errorf("persist: encode state: %w", err)
	}
	return e.write(StateKey(kind), ModeStateRecord{Type: st.Type(), State: data})
}

// ClearState implements game.StateStore.
func (e *Engine) ClearState(kind game.Kind) error {
	if err := e.store.Remove(StateKey(kind)); err != nil {
		return fmt.Errorf("persist: clear state %s: %w", kind, err)
	}
	return nil
}

// LoadConfig returns the saved settings layered over the defaults.
func (e *Engine) LoadConfig() AppConfig {
	cfg := DefaultConfig()
	if !e.read(ConfigKey, &cfg) {
		return DefaultConfig()
	}
	if cfg.Version == 0 {
		cfg.Version = ConfigVersion
	}
	if cfg.StartupMap == "" {
		cfg.StartupMap = gamemap.MainMenuID
	}
	return cfg
}

// SaveConfig replaces the saved settings.
func (e *Engine) SaveConfig(cfg AppConfig) error {
	cfg.Version = ConfigVersion
	return e.write(ConfigKey, cfg)
}

// UpdateConfig loads the settings, overlays the non-empty fields of patch and saves.
func (e *Engine) UpdateConfig(patch AppConfig) (AppConfig, error) {
	cfg := e.LoadConfig()
	if err := copier.CopyWithOption(&cfg, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return cfg, fmt.Errorf("persist: merge config: %w", err)
	}
	if err := e.SaveConfig(cfg); err != nil {
		return cfg, err
	}
	cfg.Version = ConfigVersion
	return cfg, nil
}

// SetConfigValue updates one settings key by its record name.
func (e *Engine) SetConfigValue(key, value string) (AppConfig, error) {
	var patch AppConfig
	switch key {
	case "startupMap":
		patch.StartupMap = gamemap.ID(value)
	case "gameState":
		if !game.Preset(value).Valid() {
			return e.LoadConfig(), fmt.Errorf("persist: unknown game state %q", value)
		}
		patch.GameState = game.Preset(value)
	default:
		return e.LoadConfig(), fmt.Errorf("persist: unknown setting %q", key)
	}
	return e.UpdateConfig(patch)
}

// Camera is the editor camera as far as saving is concerned.
type Camera interface {
	Pose() (position mgl32.Vec3, orientation mgl32.Quat)
	SetPose(position mgl32.Vec3, orientation mgl32.Quat)
}

// Target is the live scene the editor state is saved from and restored into.
type Target interface {
	MapID() gamemap.ID
	EditorEntities() []entity.Entity
	AddEntity(e entity.Entity)
	RemoveEntity(e entity.Entity)
}

// Capture builds the scene record for the editor-owned entities of t and the camera pose.
func Capture(t Target, cam Camera) SceneRecord {
	rec := SceneRecord{Actors: []ActorRecord{}}
	for _, ent := range t.EditorEntities() {
		a := ent.Base()
		tr := a.Transform()
		rec.Actors = append(rec.Actors, ActorRecord{
			Type:       ent.Tag(),
			Name:       a.Name(),
			Position:   tr.Position,
			Rotation:   Euler(tr.Rotation),
			Scale:      tr.Scale,
			Properties: ent.Properties(),
		})
	}
	if cam != nil {
		pos, q := cam.Pose()
		rec.CameraState = &CameraRecord{Position: pos, Rotation: QuaternionOf(q)}
	}
	return rec
}

// SaveEditorState writes every editor-owned entity of t and the camera as the scene
// record of t's map. The previous record is replaced.
func (e *Engine) SaveEditorState(t Target, cam Camera) error {
	return e.SaveScene(t.MapID(), Capture(t, cam))
}

// LoadEditorState restores t's map from its scene record. Without a record nothing
// changes and ok is false. Otherwise the camera is restored, every mounted editor-owned
// entity is removed and each saved actor is spawned; unknown types are skipped.
func (e *Engine) LoadEditorState(t Target, cam Camera, reg *entity.Registry) (restored int, ok bool) {
	rec, ok := e.LoadScene(t.MapID())
	if !ok {
		return 0, false
	}
	if cam != nil && rec.CameraState != nil {
		cam.SetPose(rec.CameraState.Position, rec.CameraState.Rotation.Quat())
	}
	for _, ent := range t.EditorEntities() {
		t.RemoveEntity(ent)
	}
	for _, ar := range rec.Actors {
		tr := ar.Transform()
		if tr.Scale == (mgl32.Vec3{}) {
			tr.Scale = mgl32.Vec3{1, 1, 1}
		}
		ent, ok := reg.Spawn(ar.Type, &entity.SpawnOptions{
			Transform:   &tr,
			Name:        ar.Name,
			Properties:  ar.Properties,
			EditorOwned: true,
		})
		if !ok {
			e.log.Warn("persist: skipping unknown actor type", "map", t.MapID(), "type", ar.Type)
			continue
		}
		t.AddEntity(ent)
		restored++
	}
	return restored, true
}
