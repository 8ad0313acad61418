// Package scene owns the mounted map and switches between maps while keeping
// editor-placed entities alive.
package scene

import (
	"log/slog"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/game"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/physics"
)

// MapLoaded is emitted after every map switch. Payload is the gamemap.ID actually mounted.
const MapLoaded event.Name = "mapLoaded"

// Restorer re-applies saved editor state to a freshly mounted map.
type Restorer interface {
	Restore(id gamemap.ID)
}

// Options configure a scene. Catalog and Persist are required.
type Options struct {
	Catalog *gamemap.Catalog
	Persist *persist.Engine
	Modes   game.Options
	Logger  *slog.Logger
}

// Scene holds exactly one mounted map, the id it was loaded for, and auxiliary objects
// that are not part of any map. It is driven from a single tick goroutine.
type Scene struct {
	Events event.Emitter

	catalog *gamemap.Catalog
	persist *persist.Engine
	modes   game.Options
	log     *slog.Logger

	current  gamemap.Instance
	mapID    gamemap.ID
	pending  *gamemap.ID
	restorer Restorer
	objects  []*entity.Object
	contacts []physics.Contact[entity.Entity]
}

// New builds a scene and mounts the configured startup map.
func New(opts Options) *Scene {
	s := &Scene{
		catalog: opts.Catalog,
		persist: opts.Persist,
		modes:   opts.Modes,
		log:     opts.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.modes.Store == nil {
		s.modes.Store = opts.Persist
	}
	if s.modes.Logger == nil {
		s.modes.Logger = s.log
	}
	s.LoadMap(s.StartupMap())
	return s
}

// SetRestorer installs the hook run at the end of every map switch and runs it once for
// the map mounted now.
func (s *Scene) SetRestorer(r Restorer) {
	s.restorer = r
	if r != nil && s.current != nil {
		r.Restore(s.mapID)
	}
}

// StartupMap returns the configured startup map.
func (s *Scene) StartupMap() gamemap.ID {
	return s.persist.LoadConfig().StartupMap
}

// MapID returns the id of the mounted map.
func (s *Scene) MapID() gamemap.ID { return s.mapID }

// Map returns the mounted map.
func (s *Scene) Map() *gamemap.Map { return s.current.Base() }

// Instance returns the mounted map with its concrete type.
func (s *Scene) Instance() gamemap.Instance { return s.current }

// Catalog returns the map catalog.
func (s *Scene) Catalog() *gamemap.Catalog { return s.catalog }

// GameMode returns the mounted map's game mode, or nil.
func (s *Scene) GameMode() game.GameMode {
	if s.current == nil {
		return nil
	}
	return s.current.Base().GameMode()
}

// LoadMap replaces the mounted map. Editor-owned entities move to the new map's root;
// everything else in the old map is discarded. The configured game state preset is applied
// (None leaves the map's own state) and the restorer runs last. Unknown ids load the
// catalog fallback.
func (s *Scene) LoadMap(id gamemap.ID) {
	s.pending = nil

	var keep []entity.Entity
	if s.current != nil {
		keep = s.current.Base().EditorEntities()
		s.current.Base().Dispose()
		s.current = nil
	}

	inst, resolved := s.catalog.Build(id, gamemap.BuildOptions{
		Modes:       s.modes,
		Logger:      s.log,
		OnMapChange: s.RequestMap,
	})
	m := inst.Base()
	if st := s.persist.LoadConfig().GameState.NewState(); st != nil {
		m.SetGameState(st)
	}

	s.current = inst
	s.mapID = resolved
	for _, e := range keep {
		m.Mount(e)
	}
	s.log.Info("scene: map loaded", "map", resolved, "kept", len(keep))

	if s.restorer != nil {
		s.restorer.Restore(resolved)
	}
	s.Events.Emit(MapLoaded, resolved)
}

// RequestMap schedules a map switch for the start of the next Update. Map code calls it
// from inside the mounted map's own notifications, where switching immediately would
// dispose the map mid-call.
func (s *Scene) RequestMap(id gamemap.ID) {
	s.pending = &id
}

// Pending returns the scheduled map switch, if any.
func (s *Scene) Pending() (gamemap.ID, bool) {
	if s.pending == nil {
		return "", false
	}
	return *s.pending, true
}

// Entities returns every entity mounted in the current map.
func (s *Scene) Entities() []entity.Entity { return s.current.Base().Entities() }

// EditorEntities returns the mounted editor-owned entities.
func (s *Scene) EditorEntities() []entity.Entity { return s.current.Base().EditorEntities() }

// AddEntity mounts e in the current map.
func (s *Scene) AddEntity(e entity.Entity) { s.current.Base().Mount(e) }

// RemoveEntity unmounts e from the current map.
func (s *Scene) RemoveEntity(e entity.Entity) { s.current.Base().Unmount(e) }

// AddObject adds an auxiliary object that survives map switches.
func (s *Scene) AddObject(o *entity.Object) { s.objects = append(s.objects, o) }

// Objects returns the auxiliary objects.
func (s *Scene) Objects() []*entity.Object { return s.objects }

// Update runs one tick: a scheduled map switch, the map's game mode, then integration of
// every mounted entity followed by the collision sweep.
func (s *Scene) Update(dt float32) {
	if s.pending != nil {
		s.LoadMap(*s.pending)
	}
	m := s.current.Base()
	m.Update(dt)
	s.contacts = physics.Step(dt, m.Entities())
}

// Contacts returns the overlaps found by the last Update.
func (s *Scene) Contacts() []physics.Contact[entity.Entity] { return s.contacts }
