package gamemap

import (
	"sandbox-engine/internal/event"
	"sandbox-engine/internal/game"
)

// MainMenu is the landing map. Choosing "Long Road" asks the host to switch maps.
type MainMenu struct {
	*Map
	Menu *game.MainMenuMode

	highlighted string
	onMapChange func(ID)
}

func newMainMenu(m *Map, _ Definition, opts BuildOptions) Instance {
	mm := &MainMenu{Map: m, onMapChange: opts.OnMapChange}
	mm.Menu = game.NewMainMenuMode(opts.Modes)
	m.SetGameMode(mm.Menu)
	if opt, ok := mm.Menu.Selected(); ok {
		mm.highlighted = opt.Text
	}
	mm.Menu.Events.On(game.OptionSelected, func(ev event.Event) {
		if opt, ok := ev.Payload.(game.MenuOption); ok {
			mm.highlighted = opt.Text
		}
	})
	mm.Menu.Events.On(game.OptionChosen, func(ev event.Event) {
		if opt, ok := ev.Payload.(game.MenuOption); ok {
			mm.choose(opt)
		}
	})
	return mm
}

// Highlighted returns the text of the highlighted menu option.
func (mm *MainMenu) Highlighted() string { return mm.highlighted }

// SetMapChange sets the callback that performs a map switch.
func (mm *MainMenu) SetMapChange(fn func(ID)) { mm.onMapChange = fn }

func (mm *MainMenu) choose(opt game.MenuOption) {
	switch opt.Text {
	case "Long Road":
		if mm.onMapChange != nil {
			mm.onMapChange(LongRoadID)
		}
	case "Settings":
		mm.log.Info("menu: opening settings")
	case "Credits":
		mm.log.Info("menu: showing credits")
	}
}
