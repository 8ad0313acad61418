package main

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sandbox-engine/internal/bridge"
	"sandbox-engine/internal/commands"
	"sandbox-engine/internal/debug"
	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/engineconfig"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/fonts"
	"sandbox-engine/internal/playmode"
	"sandbox-engine/internal/scene"
	"sandbox-engine/internal/terminal"
)

// handleHotkeys handles F5 (toggle play), Tab (cycle the editor selection) and Delete.
func handleHotkeys(ctx context.Context, m *playmode.Machine, ed *editor.Editor) {
	if rl.IsKeyPressed(rl.KeyF5) {
		m.Toggle(ctx)
	}
	if m.Playing() {
		return
	}
	if ents := ed.Entities(); rl.IsKeyPressed(rl.KeyTab) && len(ents) > 0 {
		next := 0
		for i, e := range ents {
			if e == ed.Selected() {
				next = (i + 1) % len(ents)
			}
		}
		ed.Select(ents[next])
	}
	if rl.IsKeyPressed(rl.KeyDelete) {
		ed.DeleteSelected()
	}
}

func statusLines(scn *scene.Scene, m *playmode.Machine) []string {
	scheme := string(m.ActiveScheme())
	if mode := scn.GameMode(); mode != nil {
		st := mode.Base().Status()
		return debug.StatusLines(string(scn.MapID()), m.Playing(), scheme, &st)
	}
	return debug.StatusLines(string(scn.MapID()), m.Playing(), scheme, nil)
}

// forwardEvents broadcasts scene, machine, editor and game mode notifications. The mode
// subscription follows map switches.
func forwardEvents(hub *bridge.Hub, scn *scene.Scene, m *playmode.Machine, ed *editor.Editor) {
	hub.Forward(&scn.Events)
	hub.Forward(&m.Events)
	hub.Forward(&ed.Events)
	offMode := func() {}
	follow := func() {
		offMode()
		offMode = func() {}
		if mode := scn.GameMode(); mode != nil {
			offMode = hub.Forward(&mode.Base().Events)
		}
	}
	follow()
	scn.Events.On(scene.MapLoaded, func(event.Event) { follow() })
}

// registerDebugCommands adds the fps and memalloc overlay toggles. Both persist to the engine config.
func registerDebugCommands(reg *commands.Registry, hud *debug.Debug, prefs *engineconfig.EnginePrefs, log *slog.Logger) {
	fpsFS := commands.NewFlagSet("fps")
	fpsShow := fpsFS.Bool("show", false, "show the FPS counter")
	fpsHide := fpsFS.Bool("hide", false, "hide the FPS counter")
	reg.Register("fps", "fps --show|--hide", fpsFS, func() error {
		if *fpsShow == *fpsHide {
			return fmt.Errorf("fps: use exactly one of --show or --hide")
		}
		hud.SetShowFPS(*fpsShow)
		prefs.ShowFPS = *fpsShow
		savePrefs(*prefs, log)
		return nil
	})

	memFS := commands.NewFlagSet("memalloc")
	memShow := memFS.Bool("show", false, "show heap usage")
	memHide := memFS.Bool("hide", false, "hide heap usage")
	reg.Register("memalloc", "memalloc --show|--hide", memFS, func() error {
		if *memShow == *memHide {
			return fmt.Errorf("memalloc: use exactly one of --show or --hide")
		}
		hud.SetShowMemAlloc(*memShow)
		prefs.ShowMemAlloc = *memShow
		savePrefs(*prefs, log)
		return nil
	})
}

// loadFont resolves the configured font under assets/fonts and hands it to the console and
// overlays. Needs an open window.
func loadFont(name string, term *terminal.Terminal, hud *debug.Debug, log *slog.Logger) {
	path, err := fonts.Locate(name)
	if err != nil {
		log.Warn("font not found, using default", "font", name)
		return
	}
	font := rl.LoadFont(path)
	term.SetFont(font)
	hud.SetFont(font)
	log.Info("font loaded", "path", path)
}
