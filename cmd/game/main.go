package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"sandbox-engine/internal/agent"
	"sandbox-engine/internal/bridge"
	"sandbox-engine/internal/camera"
	"sandbox-engine/internal/commands"
	"sandbox-engine/internal/debug"
	"sandbox-engine/internal/editor"
	"sandbox-engine/internal/engineconfig"
	"sandbox-engine/internal/entity"
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/gamemap"
	"sandbox-engine/internal/graphics"
	"sandbox-engine/internal/immersive"
	"sandbox-engine/internal/logger"
	"sandbox-engine/internal/persist"
	"sandbox-engine/internal/playmode"
	"sandbox-engine/internal/render"
	"sandbox-engine/internal/scene"
	"sandbox-engine/internal/terminal"
)

// maxFrameStep caps how much simulation time one slow frame may queue.
const maxFrameStep = 0.25

func main() {
	prefs, prefsErr := engineconfig.Load(engineconfig.EngineConfigPath)
	logs := logger.New(prefs.Log.File)
	log := logger.NewSlog(logs, logger.ParseLevel(prefs.Log.Level))
	slog.SetDefault(log)
	if prefsErr != nil {
		log.Warn("engine config unreadable, using defaults", "err", prefsErr)
	}

	store, err := openStore(prefs.Store)
	if err != nil {
		log.Error("cannot open save store", "backend", prefs.Store.Backend, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	catalog, err := gamemap.DefaultCatalog()
	if err != nil {
		log.Error("map catalog", "err", err)
		os.Exit(1)
	}
	actors, err := entity.DefaultRegistry()
	if err != nil {
		log.Error("actor definitions", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	saves := persist.New(store, log)
	scn := scene.New(scene.Options{Catalog: catalog, Persist: saves, Logger: log})
	cam := camera.New()
	ed := editor.New(editor.Options{Scene: scn, Persist: saves, Registry: actors, Camera: cam, Logger: log})
	machine := playmode.New(scn, cam, immersive.Unsupported{}, log)
	if s, err := playmode.ParseScheme(prefs.Scheme); err == nil {
		_ = machine.SetScheme(s)
	} else {
		log.Warn("ignoring configured scheme", "err", err)
	}
	machine.Events.On(playmode.PlayStateChanged, func(ev event.Event) {
		playing, _ := ev.Payload.(bool)
		ed.SetEnabled(!playing)
	})

	view := graphics.NewViewport()
	view.SetGridVisible(prefs.GridVisible)
	hud := debug.New()
	hud.SetShowFPS(prefs.ShowFPS)
	hud.SetShowMemAlloc(prefs.ShowMemAlloc)

	reg := commands.NewRegistry()
	commands.Install(reg, commands.Deps{
		Context: ctx,
		Machine: machine,
		Scene:   scn,
		Editor:  ed,
		Persist: saves,
		SetGrid: func(visible bool) {
			view.SetGridVisible(visible)
			prefs.GridVisible = visible
			savePrefs(prefs, log)
		},
		Out: logs.Log,
	})
	registerDebugCommands(reg, hud, &prefs, log)
	term := terminal.New(logs, reg)

	var hub *bridge.Hub
	var actions *agent.Agent
	if prefs.Bridge.Enabled {
		hub = bridge.New(log)
		actions = agent.New()
		agent.RegisterEditorHandlers(actions, ed, reg)
		forwardEvents(hub, scn, machine, ed)
		go func() {
			if err := hub.ListenAndServe(ctx, prefs.Bridge.Addr, prefs.Bridge.Path); err != nil {
				log.Error("bridge stopped", "err", err)
			}
		}()
	}

	binder := render.NewBinder(actors)
	step := 1 / float32(prefs.TickRate)
	var pending float32
	fontPending := prefs.Font != ""

	update := func(dt float32) {
		if fontPending {
			fontPending = false
			loadFont(prefs.Font, term, hud, log)
		}
		term.Update()
		graphics.DriveCamera(cam, dt, !term.IsOpen())
		if !term.IsOpen() {
			handleHotkeys(ctx, machine, ed)
		}
		if hub != nil {
			hub.Drain(func(msg []byte) string {
				summary, err := actions.Apply(msg)
				if err != nil {
					return err.Error()
				}
				return summary
			})
		}
		pending += min(dt, maxFrameStep)
		for pending >= step {
			scn.Update(step)
			pending -= step
		}
		hud.SetStatus(statusLines(scn, machine))
	}
	draw := func() {
		view.Draw(cam, render.Boxes(scn.Map().Root().Props()), binder.Bind(scn.Entities(), ed.Selected()))
		term.Draw()
		hud.Draw()
	}

	graphics.Run(graphics.Window{Title: "Sandbox", FPS: prefs.TickRate}, update, draw)
	machine.Stop()
	if hub != nil {
		hub.Close()
	}
}
