package gamemap

import (
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"sandbox-engine/internal/game"
)

//go:embed maps.yaml
var defaultCatalog []byte

// Definition is the YAML description of a map.
type Definition struct {
	ID       ID        `yaml:"id"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	CellSize float32   `yaml:"cellSize"`
	Mode     game.Kind `yaml:"mode,omitempty"`
}

// Instance is a constructed map of any concrete type.
type Instance interface {
	Base() *Map
}

// BuildOptions carry what a constructed map needs from its host.
type BuildOptions struct {
	Modes       game.Options
	Logger      *slog.Logger
	OnMapChange func(ID)
}

// builders are the maps with behavior beyond a plain grid and mode.
var builders = map[ID]func(*Map, Definition, BuildOptions) Instance{
	MainMenuID: newMainMenu,
	LongRoadID: newLongRoad,
}

// Catalog resolves map ids to constructed maps.
type Catalog struct {
	defs     map[ID]Definition
	order    []ID
	fallback ID
}

// LoadCatalog parses map definitions. The first definition is the fallback map.
func LoadCatalog(data []byte) (*Catalog, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("gamemap: parse catalog: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("gamemap: catalog is empty")
	}
	c := &Catalog{defs: make(map[ID]Definition, len(defs)), fallback: defs[0].ID}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("gamemap: map without id")
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("gamemap: duplicate map %q", d.ID)
		}
		if d.Mode != "" {
			if _, ok := game.NewByKind(d.Mode, game.Options{}); !ok {
				return nil, fmt.Errorf("gamemap: map %q: unknown mode %q", d.ID, d.Mode)
			}
		}
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// DefaultCatalog returns the built-in maps.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalog)
}

// IDs returns the map ids in catalog order.
func (c *Catalog) IDs() []ID { return c.order }

// Fallback returns the id used for unknown maps.
func (c *Catalog) Fallback() ID { return c.fallback }

// Resolve maps id to a known map id. Unknown ids resolve to the fallback with ok=false.
func (c *Catalog) Resolve(id ID) (ID, bool) {
	if _, ok := c.defs[id]; ok {
		return id, true
	}
	return c.fallback, false
}

// Build constructs the map for id, resolving unknown ids to the fallback.
// It returns the map and the id it was actually built for.
func (c *Catalog) Build(id ID, opts BuildOptions) (Instance, ID) {
	resolved, ok := c.Resolve(id)
	if !ok && opts.Logger != nil {
		opts.Logger.Warn("gamemap: unknown map, using fallback", "map", id, "fallback", resolved)
	}
	def := c.defs[resolved]
	m := New(def.ID, def.Width, def.Height, def.CellSize)
	if opts.Logger != nil {
		m.SetLogger(opts.Logger)
	}
	if opts.Modes.Now != nil {
		m.SetClock(opts.Modes.Now)
	}
	if build, ok := builders[def.ID]; ok {
		return build(m, def, opts), resolved
	}
	if def.Mode != "" {
		mode, _ := game.NewByKind(def.Mode, opts.Modes)
		m.SetGameMode(mode)
	}
	return m, resolved
}
