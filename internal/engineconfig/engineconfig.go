package engineconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/engine.json"

// EnvPrefix prefixes environment overrides, e.g. SANDBOX_STORE_BACKEND=sqlite.
const EnvPrefix = "SANDBOX"

// Store backends.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// StorePrefs selects where editor saves, mode state and game settings are kept.
type StorePrefs struct {
	Backend    string `json:"backend" mapstructure:"backend"`
	Dir        string `json:"dir" mapstructure:"dir"`
	SQLitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// LogPrefs configures the structured log.
type LogPrefs struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
}

// BridgePrefs configures the websocket editor bridge.
type BridgePrefs struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
	Path    string `json:"path" mapstructure:"path"`
}

// EnginePrefs holds engine-only preferences (debug overlays, grid, storage, etc.). Persisted across runs.
// In-game settings (startup map, default game state) live in the save store instead.
type EnginePrefs struct {
	ShowFPS      bool        `json:"show_fps" mapstructure:"show_fps"`
	ShowMemAlloc bool        `json:"show_memalloc" mapstructure:"show_memalloc"`
	GridVisible  bool        `json:"grid_visible" mapstructure:"grid_visible"`
	TickRate     int         `json:"tick_rate" mapstructure:"tick_rate"`
	Scheme       string      `json:"scheme" mapstructure:"scheme"`
	Font         string      `json:"font" mapstructure:"font"`
	Store        StorePrefs  `json:"store" mapstructure:"store"`
	Log          LogPrefs    `json:"log" mapstructure:"log"`
	Bridge       BridgePrefs `json:"bridge" mapstructure:"bridge"`
}

// Default returns default engine preferences (debug overlays off, grid on, files under data/).
func Default() EnginePrefs {
	return EnginePrefs{
		GridVisible: true,
		TickRate:    60,
		Scheme:      "desktop",
		Store:       StorePrefs{Backend: BackendFS, Dir: "data", SQLitePath: "data/sandbox.db"},
		Log:         LogPrefs{Level: "info", File: "logs/terminal.txt"},
		Bridge:      BridgePrefs{Addr: "127.0.0.1:8787", Path: "/ws"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("show_fps", d.ShowFPS)
	v.SetDefault("show_memalloc", d.ShowMemAlloc)
	v.SetDefault("grid_visible", d.GridVisible)
	v.SetDefault("tick_rate", d.TickRate)
	v.SetDefault("scheme", d.Scheme)
	v.SetDefault("font", d.Font)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("store.sqlitePath", d.Store.SQLitePath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("bridge.enabled", d.Bridge.Enabled)
	v.SetDefault("bridge.addr", d.Bridge.Addr)
	v.SetDefault("bridge.path", d.Bridge.Path)
}

// Load reads engine preferences from the JSON file at path, layered over Default() and
// under SANDBOX_* environment overrides. A missing file is not an error. An unreadable
// or invalid file returns Default() together with the error.
func Load(path string) (EnginePrefs, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Default(), fmt.Errorf("engineconfig: read %s: %w", path, err)
		}
	}
	var p EnginePrefs
	if err := v.Unmarshal(&p); err != nil {
		return Default(), fmt.Errorf("engineconfig: decode: %w", err)
	}
	if p.TickRate <= 0 {
		p.TickRate = Default().TickRate
	}
	return p, nil
}

// Save writes engine preferences to path, creating the directory if needed.
func Save(path string, p EnginePrefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
