package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
)

var _ timeclock.StatusCache = (*StatusCache)(nil)

// StatusCache caché de estado en memoria que cuenta invalidaciones. Invalidations hace de
// generación por usuario.
type StatusCache struct {
	mu            sync.Mutex
	entries       map[string]dto.TimeStatusResponse
	Invalidations map[string]int
	Err           error // si no es nil, toda operación falla
}

// NewStatusCache crea la caché vacía.
func NewStatusCache() *StatusCache {
	return &StatusCache{entries: map[string]dto.TimeStatusResponse{}, Invalidations: map[string]int{}}
}

func (c *StatusCache) Generation(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	return int64(c.Invalidations[userID]), nil
}

func (c *StatusCache) Get(_ context.Context, userID string) (*dto.TimeStatusResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	st, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (c *StatusCache) Set(_ context.Context, st *dto.TimeStatusResponse, generation int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if int64(c.Invalidations[st.UserID]) != generation {
		return nil
	}
	c.entries[st.UserID] = *st
	return nil
}

func (c *StatusCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations[userID]++
	if c.Err != nil {
		return c.Err
	}
	delete(c.entries, userID)
	return nil
}

// Has informa si hay entrada para userID.
func (c *StatusCache) Has(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[userID]
	return ok
}
