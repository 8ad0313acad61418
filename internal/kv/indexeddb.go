//go:build js && wasm

package kv

import (
	"context"
	"fmt"

	"github.com/hack-pad/hackpadfs/indexeddb"
)

// OpenIndexedDB returns a store backed by the browser's IndexedDB database name.
func OpenIndexedDB(ctx context.Context, name string) (*FSStore, error) {
	fsys, err := indexeddb.NewFS(ctx, name, indexeddb.Options{})
	if err != nil {
		return nil, fmt.Errorf("kv: indexeddb %q: %w", name, err)
	}
	return NewFSStore(fsys)
}
