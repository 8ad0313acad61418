package gamemap

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/game"
)

// ID names a map in the catalog and keys its saved scene.
type ID string

const (
	MainMenuID ID = "MainMenu"
	LongRoadID ID = "LongRoad"
)

// Default grid dimensions for a map built without explicit ones.
const (
	DefaultWidth    = 20
	DefaultHeight   = 20
	DefaultCellSize = 1
	wallHeight      = 3
)

// Cell is a grid coordinate. Y runs along world Z.
type Cell struct {
	X, Y int
}

// Hooks receive the lifecycle notifications of the map's game mode.
// Embed BaseHooks and override the ones a map cares about.
type Hooks interface {
	OnGameStart()
	OnGameEnd(summary game.EndSummary)
	OnGamePause()
	OnGameResume()
	OnScoreUpdate(score int)
}

// BaseHooks ignores every notification.
type BaseHooks struct{}

// OnGameStart does nothing.
func (BaseHooks) OnGameStart() {}

// OnGameEnd does nothing.
func (BaseHooks) OnGameEnd(game.EndSummary) {}

// OnGamePause does nothing.
func (BaseHooks) OnGamePause() {}

// OnGameResume does nothing.
func (BaseHooks) OnGameResume() {}

// OnScoreUpdate does nothing.
func (BaseHooks) OnScoreUpdate(int) {}

// Map is a bounded occupancy grid with a root group, at most one game mode and at most
// one game state. Cells outside [0,width)x[0,height) are never walkable.
type Map struct {
	id       ID
	width    int
	height   int
	cellSize float32
	occupied map[Cell]bool
	root     *Group

	mode  game.GameMode
	state game.State
	hooks Hooks
	offs  []func()

	log *slog.Logger
	now func() time.Time
}

// New returns an empty map with a ground prop. Non-positive dimensions fall back to the
// defaults.
func New(id ID, width, height int, cellSize float32) *Map {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	m := &Map{
		id:       id,
		width:    width,
		height:   height,
		cellSize: cellSize,
		occupied: map[Cell]bool{},
		root:     &Group{},
		hooks:    BaseHooks{},
		log:      slog.Default(),
		now:      time.Now,
	}
	m.root.AddProp(Prop{
		Kind:  PropGround,
		Size:  mgl32.Vec3{float32(width) * cellSize, 0.01, float32(height) * cellSize},
		Color: "#808080",
	})
	return m
}

// ID returns the catalog id the map was built for.
func (m *Map) ID() ID { return m.id }

// Width returns the grid width in cells.
func (m *Map) Width() int { return m.width }

// Height returns the grid height in cells.
func (m *Map) Height() int { return m.height }

// CellSize returns the world size of one cell.
func (m *Map) CellSize() float32 { return m.cellSize }

// Root returns the group holding the map's props and mounted entities.
func (m *Map) Root() *Group { return m.root }

// Base returns m, so concrete maps embedding *Map satisfy Instance.
func (m *Map) Base() *Map { return m }

// Logger returns the map logger.
func (m *Map) Logger() *slog.Logger { return m.log }

// SetLogger replaces the map logger.
func (m *Map) SetLogger(l *slog.Logger) {
	if l != nil {
		m.log = l
	}
}

// SetClock replaces the clock used to tick a mode-less game state.
func (m *Map) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// SetHooks installs the receiver of game mode notifications.
func (m *Map) SetHooks(h Hooks) {
	if h == nil {
		h = BaseHooks{}
	}
	m.hooks = h
}

// InBounds reports whether (x, y) is a cell of the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// AddWall occupies cell (x, y) and adds a wall prop there. Out-of-bounds cells are ignored.
func (m *Map) AddWall(x, y int) {
	if !m.Occupy(x, y) {
		return
	}
	wx, wz := m.GridToWorld(x, y)
	m.root.AddProp(Prop{
		Kind:     PropWall,
		Position: mgl32.Vec3{wx, wallHeight / 2, wz},
		Size:     mgl32.Vec3{m.cellSize, wallHeight, m.cellSize},
		Color:    "#505050",
	})
}

// Occupy marks cell (x, y) as blocked without adding a prop. It reports false when the
// cell is out of bounds.
func (m *Map) Occupy(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	m.occupied[Cell{x, y}] = true
	return true
}

// IsWalkable reports whether (x, y) is in bounds and free.
func (m *Map) IsWalkable(x, y int) bool {
	return m.InBounds(x, y) && !m.occupied[Cell{x, y}]
}

// OccupiedCells returns the number of blocked cells.
func (m *Map) OccupiedCells() int { return len(m.occupied) }

// WorldToGrid returns the cell containing world point (wx, wz). The result may be out of bounds.
func (m *Map) WorldToGrid(wx, wz float32) (x, y int) {
	x = int(math32.Floor((wx + float32(m.width)*m.cellSize/2) / m.cellSize))
	y = int(math32.Floor((wz + float32(m.height)*m.cellSize/2) / m.cellSize))
	return x, y
}

// GridToWorld returns the world position of the center of cell (x, y), so
// WorldToGrid(GridToWorld(x, y)) is always (x, y).
func (m *Map) GridToWorld(x, y int) (wx, wz float32) {
	wx = (float32(x) + 0.5 - float32(m.width)/2) * m.cellSize
	wz = (float32(y) + 0.5 - float32(m.height)/2) * m.cellSize
	return wx, wz
}

// SetGameMode installs mode, initializes it and routes its notifications to the hooks.
// A previous mode is unsubscribed. nil removes the mode.
func (m *Map) SetGameMode(mode game.GameMode) {
	m.unsubscribe()
	m.mode = mode
	if mode == nil {
		return
	}
	base := mode.Base()
	base.Init()
	ev := &base.Events
	m.offs = append(m.offs,
		ev.On(event.GameStart, func(event.Event) { m.hooks.OnGameStart() }),
		ev.On(event.GameEnd, func(e event.Event) {
			summary, _ := e.Payload.(game.EndSummary)
			m.hooks.OnGameEnd(summary)
		}),
		ev.On(event.GamePause, func(event.Event) { m.hooks.OnGamePause() }),
		ev.On(event.GameResume, func(event.Event) { m.hooks.OnGameResume() }),
		ev.On(event.ScoreUpdate, func(e event.Event) {
			score, _ := e.Payload.(int)
			m.hooks.OnScoreUpdate(score)
		}),
	)
}

// GameMode returns the installed mode, or nil.
func (m *Map) GameMode() game.GameMode { return m.mode }

// SetGameState sets the map's game state. With a mode installed the mode owns it.
func (m *Map) SetGameState(s game.State) {
	m.state = s
	if m.mode != nil {
		m.mode.Base().SetState(s)
	}
}

// GameState returns the active game state: the mode's when a mode is installed.
func (m *Map) GameState() game.State {
	if m.mode != nil {
		return m.mode.Base().State()
	}
	return m.state
}

// Mount adds e to the root group.
func (m *Map) Mount(e entity.Entity) { m.root.Add(e) }

// Unmount removes e from the root group.
func (m *Map) Unmount(e entity.Entity) bool { return m.root.Remove(e) }

// Entities returns every mounted entity.
func (m *Map) Entities() []entity.Entity { return m.root.Entities() }

// EditorEntities returns the mounted entities the editor owns.
func (m *Map) EditorEntities() []entity.Entity {
	var out []entity.Entity
	for _, e := range m.root.Entities() {
		if e.Base().EditorOwned() {
			out = append(out, e)
		}
	}
	return out
}

// Update ticks the game mode, or the bare game state when there is no mode.
func (m *Map) Update(dt float32) {
	if m.mode != nil {
		m.mode.Base().Update(dt)
		return
	}
	if m.state != nil {
		m.state.Update(m.now())
	}
}

// Dispose unsubscribes from the mode and empties the root group. The map must not be
// used afterwards.
func (m *Map) Dispose() {
	m.unsubscribe()
	m.root = &Group{}
}

func (m *Map) unsubscribe() {
	for _, off := range m.offs {
		off()
	}
	m.offs = nil
}
