package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"movie-discovery-client/internal/metrics"
	"movie-discovery-client/internal/models"
)

// WatchlistRepository holds the saved movies in memory and rewrites the whole
// list to its StateStore after every mutation.
type WatchlistRepository struct {
	store StateStore
	key   string

	mu    sync.RWMutex
	items []models.Movie
	ids   map[int]struct{}
}

// NewWatchlistRepository creates an empty watchlist persisted under key.
func NewWatchlistRepository(store StateStore, key string) *WatchlistRepository {
	return &WatchlistRepository{store: store, key: key, ids: make(map[int]struct{})}
}

// Load reads the persisted watchlist. A missing or malformed value leaves the
// watchlist empty and is not an error.
func (r *WatchlistRepository) Load(ctx context.Context) error {
	data, err := r.store.Load(ctx, r.key)
	switch {
	case errors.Is(err, ErrStateNotFound):
		r.replace(nil)
		return nil
	case errors.Is(err, ErrMalformedState):
		slog.Warn("persisted state is malformed, starting with an empty watchlist", "key", r.key, "error", err)
		r.replace(nil)
		return nil
	case err != nil:
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	items, err := decodeWatchlist(data)
	if err != nil {
		slog.Warn("persisted watchlist is malformed, starting empty", "key", r.key, "error", err)
		items = nil
	}
	r.replace(items)
	slog.Info("watchlist loaded", "key", r.key, "count", len(items))
	return nil
}

// Add saves m unless a movie with the same id is already present.
func (r *WatchlistRepository) Add(ctx context.Context, m models.Movie) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[m.ID]; ok {
		return false, nil
	}

	next := append(r.snapshotLocked(), m)
	if err := r.persistLocked(ctx, next); err != nil {
		return false, err
	}
	r.items = next
	r.ids[m.ID] = struct{}{}
	metrics.WatchlistSize.Set(float64(len(r.items)))
	return true, nil
}

// Remove deletes the movie with id.
func (r *WatchlistRepository) Remove(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[id]; !ok {
		return false, nil
	}

	next := make([]models.Movie, 0, len(r.items))
	for _, m := range r.items {
		if m.ID != id {
			next = append(next, m)
		}
	}
	if err := r.persistLocked(ctx, next); err != nil {
		return false, err
	}
	r.items = next
	delete(r.ids, id)
	metrics.WatchlistSize.Set(float64(len(r.items)))
	return true, nil
}

// Contains reports whether id is saved.
func (r *WatchlistRepository) Contains(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[id]
	return ok
}

// All returns the saved movies in insertion order.
func (r *WatchlistRepository) All() []models.Movie {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Len returns the number of saved movies.
func (r *WatchlistRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *WatchlistRepository) replace(items []models.Movie) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make([]models.Movie, 0, len(items))
	r.ids = make(map[int]struct{}, len(items))
	for _, m := range items {
		if _, dup := r.ids[m.ID]; dup {
			continue
		}
		r.ids[m.ID] = struct{}{}
		r.items = append(r.items, m)
	}
	metrics.WatchlistSize.Set(float64(len(r.items)))
}

func (r *WatchlistRepository) snapshotLocked() []models.Movie {
	out := make([]models.Movie, len(r.items))
	copy(out, r.items)
	return out
}

func (r *WatchlistRepository) persistLocked(ctx context.Context, items []models.Movie) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}
	if err := r.store.Save(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}
	return nil
}

func decodeWatchlist(data []byte) ([]models.Movie, error) {
	var items []models.Movie
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return items, nil
}
