// Package preferences keeps per-user bookmarks and theme choice in a key/value store.
package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"collegeevents/internal/domain"
)

const bookmarksPrefix = "bookmarkedEvents:"

// Bookmarks stores each owner's bookmarked event ids as a JSON array.
type Bookmarks struct {
	store domain.KeyValueStore
	mu    sync.Mutex
}

func NewBookmarks(store domain.KeyValueStore) *Bookmarks {
	return &Bookmarks{store: store}
}

// List returns the owner's bookmarks in the order they were added.
func (b *Bookmarks) List(ctx context.Context, owner string) ([]string, error) {
	raw, ok, err := b.store.Get(ctx, bookmarksPrefix+owner)
	if err != nil {
		return nil, fmt.Errorf("get bookmarks: %w", err)
	}
	ids := []string{}
	if !ok || raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode bookmarks: %w", err)
	}
	return ids, nil
}

// Add appends eventID unless already present. added is false for a duplicate.
func (b *Bookmarks) Add(ctx context.Context, owner, eventID string) (added bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids, err := b.List(ctx, owner)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == eventID {
			return false, nil
		}
	}
	raw, err := json.Marshal(append(ids, eventID))
	if err != nil {
		return false, fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := b.store.Set(ctx, bookmarksPrefix+owner, string(raw)); err != nil {
		return false, fmt.Errorf("set bookmarks: %w", err)
	}
	return true, nil
}
