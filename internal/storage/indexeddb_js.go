//go:build js && wasm

package storage

import (
	"context"
	"fmt"

	"github.com/hack-pad/hackpadfs/indexeddb"
)

// NewBrowserStore returns a store backed by the browser's IndexedDB database name.
func NewBrowserStore(ctx context.Context, name, prefix string) (*FSStore, error) {
	fsys, err := indexeddb.NewFS(ctx, name, indexeddb.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: opening indexeddb %q: %w", name, err)
	}
	return NewFSStore(fsys, prefix), nil
}
