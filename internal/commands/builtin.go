package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/mapgen"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/playmode"
	"sandbox-engine/internal/scene"
)

// Deps is what the built-in commands drive. SetGrid and Out may be nil.
type Deps struct {
	Context context.Context
	Machine *playmode.Machine
	Scene   *scene.Scene
	Editor  *editor.Editor
	Persist *persist.Engine
	SetGrid func(visible bool)
	Out     func(line string)
}

func (d Deps) print(format string, args ...any) {
	if d.Out != nil {
		d.Out(fmt.Sprintf(format, args...))
	}
}

var errEditing = errors.New("not available while playing; run stop first")

// Install registers the console commands on r.
func Install(r *Registry, d Deps) {
	if d.Context == nil {
		d.Context = context.Background()
	}

	playFS := NewFlagSet("play")
	playScheme := playFS.String("scheme", "", "desktop or immersive")
	r.Register("play", "play [--scheme desktop|immersive]", playFS, func() error {
		if *playScheme != "" {
			s, err := playmode.ParseScheme(*playScheme)
			if err != nil {
				return err
			}
			if err := d.Machine.SetScheme(s); err != nil {
				return err
			}
		}
		d.Machine.Start(d.Context)
		d.print("playing %s (%s)", d.Scene.MapID(), d.Machine.ActiveScheme())
		return nil
	})

	r.Register("stop", "stop", NewFlagSet("stop"), func() error {
		d.Machine.Stop()
		return nil
	})

	schemeFS := NewFlagSet("scheme")
	r.Register("scheme", "scheme [desktop|immersive]", schemeFS, func() error {
		if schemeFS.NArg() == 0 {
			d.print("scheme: %s", d.Machine.Scheme())
			return nil
		}
		s, err := playmode.ParseScheme(schemeFS.Arg(0))
		if err != nil {
			return err
		}
		return d.Machine.SetScheme(s)
	})

	mapFS := NewFlagSet("map")
	r.Register("map", "map [id]", mapFS, func() error {
		if mapFS.NArg() == 0 {
			d.print("map: %s (available: %s)", d.Scene.MapID(), joinIDs(d.Scene.Catalog().IDs()))
			return nil
		}
		if d.Machine.Playing() {
			return errEditing
		}
		d.Scene.LoadMap(gamemap.ID(mapFS.Arg(0)))
		d.print("map: %s", d.Scene.MapID())
		return nil
	})

	spawnFS := NewFlagSet("spawn")
	r.Register("spawn", "spawn <type> [x y z [sx sy sz]]", spawnFS, func() error {
		if spawnFS.NArg() == 0 {
			return fmt.Errorf("spawn: missing type (one of %s)", joinTags(d.Editor.Registry().Tags()))
		}
		if d.Machine.Playing() {
			return errEditing
		}
		var tr *entity.Transform
		rest := spawnFS.Args()[1:]
		if len(rest) > 0 {
			t := entity.IdentityTransform()
			pos, err := parseVec3(rest)
			if err != nil {
				return fmt.Errorf("spawn: position: %w", err)
			}
			t.Position = pos
			if len(rest) > 3 {
				scale, err := parseVec3(rest[3:])
				if err != nil {
					return fmt.Errorf("spawn: scale: %w", err)
				}
				t.Scale = scale
			}
			tr = &t
		}
		e, ok := d.Editor.Spawn(entity.Tag(spawnFS.Arg(0)), tr)
		if !ok {
			return fmt.Errorf("spawn: unknown type %q", spawnFS.Arg(0))
		}
		d.print("spawned %s at %v", e.Base().Name(), e.Base().Position())
		return nil
	})

	deleteFS := NewFlagSet("delete")
	r.Register("delete", "delete selected|<name>", deleteFS, func() error {
		if deleteFS.NArg() == 0 {
			return fmt.Errorf("delete: missing target")
		}
		target := deleteFS.Arg(0)
		if target == "selected" {
			if !d.Editor.DeleteSelected() {
				return fmt.Errorf("delete: nothing selected")
			}
			return nil
		}
		e, ok := d.Editor.Find(target)
		if !ok || !d.Editor.Delete(e) {
			return fmt.Errorf("delete: no editor actor named %q", target)
		}
		return nil
	})

	r.Register("save", "save", NewFlagSet("save"), func() error {
		if err := d.Editor.Save(); err != nil {
			return err
		}
		d.print("saved %d actor(s) for %s", len(d.Editor.Entities()), d.Scene.MapID())
		return nil
	})

	r.Register("load", "load", NewFlagSet("load"), func() error {
		if d.Machine.Playing() {
			return errEditing
		}
		d.Editor.Restore(d.Scene.MapID())
		d.print("loaded %d actor(s) for %s", len(d.Editor.Entities()), d.Scene.MapID())
		return nil
	})

	configFS := NewFlagSet("config")
	r.Register("config", "config [startupMap|gameState value]", configFS, func() error {
		switch configFS.NArg() {
		case 0:
			cfg := d.Persist.LoadConfig()
			d.print("startupMap=%s gameState=%s", cfg.StartupMap, cfg.GameState)
			return nil
		case 2:
			key, value := configFS.Arg(0), configFS.Arg(1)
			if key == "startupMap" {
				if _, ok := d.Scene.Catalog().Resolve(gamemap.ID(value)); !ok {
					return fmt.Errorf("config: unknown map %q", value)
				}
			}
			cfg, err := d.Persist.SetConfigValue(key, value)
			if err != nil {
				return err
			}
			d.print("startupMap=%s gameState=%s", cfg.StartupMap, cfg.GameState)
			return nil
		}
		return fmt.Errorf("config: expected no arguments or a key and a value")
	})

	gridFS := NewFlagSet("grid")
	gridShow := gridFS.Bool("show", false, "show the editor grid")
	gridHide := gridFS.Bool("hide", false, "hide the editor grid")
	r.Register("grid", "grid --show|--hide", gridFS, func() error {
		if *gridShow == *gridHide {
			return fmt.Errorf("grid: use exactly one of --show or --hide")
		}
		if d.SetGrid != nil {
			d.SetGrid(*gridShow)
		}
		return nil
	})

	terrainFS := NewFlagSet("terrain")
	terrainSize := terrainFS.Int("size", 32, "tiles per side")
	terrainHeight := terrainFS.Float64("height", 3, "tallest tile")
	terrainSeed := terrainFS.Int64("seed", 0, "noise seed, 0 for random")
	r.Register("terrain", "terrain [--size n] [--height h] [--seed s]", terrainFS, func() error {
		if d.Machine.Playing() {
			return errEditing
		}
		if *terrainSize <= 0 {
			return fmt.Errorf("terrain: size must be positive")
		}
		opts := mapgen.DefaultOptions()
		opts.Width, opts.Depth = *terrainSize, *terrainSize
		opts.HeightScale = float32(*terrainHeight)
		opts.Seed = *terrainSeed
		n := mapgen.Apply(d.Scene.Map().Root(), opts)
		d.print("terrain: %d tiles on %s", n, d.Scene.MapID())
		return nil
	})

	r.Register("pause", "pause", NewFlagSet("pause"), func() error {
		mode := d.Scene.GameMode()
		if mode == nil || !mode.Base().Pause() {
			return fmt.Errorf("pause: no game in progress")
		}
		return nil
	})

	r.Register("resume", "resume", NewFlagSet("resume"), func() error {
		mode := d.Scene.GameMode()
		if mode == nil || !mode.Base().Resume() {
			return fmt.Errorf("resume: game is not paused")
		}
		return nil
	})

	r.Register("help", "help", NewFlagSet("help"), func() error {
		for _, name := range r.Names() {
			usage, _ := r.Usage(name)
			d.print("  %s", usage)
		}
		return nil
	})
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(args) < 3 {
		return v, fmt.Errorf("expected x y z")
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return v, fmt.Errorf("%q is not a number", args[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}

func joinIDs(ids []gamemap.ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}

func joinTags(tags []entity.Tag) string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}
