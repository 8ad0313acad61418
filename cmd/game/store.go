package main

import (
	"fmt"
	"log/slog"

	"sandbox-engine/internal/engineconfig"
	"sandbox-engine/internal/kv"
)

type closableStore interface {
	kv.Store
	Close() error
}

func openStore(p engineconfig.StorePrefs) (closableStore, error) {
	switch p.Backend {
	case engineconfig.BackendFS:
		return kv.OpenDir(p.Dir)
	case engineconfig.BackendSQLite:
		return kv.OpenSQLite(p.SQLitePath)
	case engineconfig.BackendMemory:
		return kv.NewMemStore()
	}
	return nil, fmt.Errorf("unknown store backend %q", p.Backend)
}

func savePrefs(p engineconfig.EnginePrefs, log *slog.Logger) {
	if err := engineconfig.Save(engineconfig.EngineConfigPath, p); err != nil {
		log.Warn("cannot save engine config", "err", err)
	}
}
