package cart

import (
	"context"

	"github.com/iliyamo/cinemax-booking/internal/model"
	"github.com/iliyamo/cinemax-booking/internal/storage"
)

// SessionSource resolves a session id to its joined details.
type SessionSource interface {
	SessionDetails(id string) (model.SessionDetails, error)
}

type snapshot struct {
	SessionID string           `json:"sessionId,omitempty"`
	Items     []model.CartItem `json:"items"`
}

// Save writes the cart under the cart key.
func (c *Cart) Save(ctx context.Context, kv storage.Store) error {
	c.mu.Lock()
	snap := snapshot{Items: append([]model.CartItem{}, c.items...)}
	if c.session != nil {
		snap.SessionID = c.session.ID
	}
	c.mu.Unlock()
	return storage.SetJSON(ctx, kv, storage.KeyCart, snap)
}

// Restore reloads a saved cart against current catalog state.  A
// session that no longer resolves empties the cart, and seats sold
// since the save are dropped.
func (c *Cart) Restore(ctx context.Context, kv storage.Store, src SessionSource) error {
	var snap snapshot
	ok, err := storage.GetJSON(ctx, kv, storage.KeyCart, &snap)
	if err != nil {
		return err
	}
	c.Clear()
	if !ok || snap.SessionID == "" {
		return nil
	}
	details, err := src.SessionDetails(snap.SessionID)
	if err != nil {
		return nil
	}
	c.SetSession(details)
	for _, it := range snap.Items {
		// items that can no longer be booked are dropped
		_ = c.AddItem(it)
	}
	return nil
}
