package discovery

import "movie-discovery-client/internal/models"

// Aggregator merges fetched batches into a collection unique on movie id.
// Items keep the position of their first appearance; a later copy of the same id
// replaces the stored fields.
type Aggregator struct {
	index map[int]int
	items []models.Movie
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[int]int)}
}

// Add merges one batch.
func (a *Aggregator) Add(batch []models.Movie) {
	for _, m := range batch {
		if i, ok := a.index[m.ID]; ok {
			a.items[i] = m
			continue
		}
		a.index[m.ID] = len(a.items)
		a.items = append(a.items, m)
	}
}

// Len returns the number of distinct ids.
func (a *Aggregator) Len() int {
	return len(a.items)
}

// Items returns a copy of the merged collection.
func (a *Aggregator) Items() []models.Movie {
	out := make([]models.Movie, len(a.items))
	copy(out, a.items)
	return out
}

// Aggregate merges batches in order.
func Aggregate(batches ...[]models.Movie) []models.Movie {
	agg := NewAggregator()
	for _, b := range batches {
		agg.Add(b)
	}
	return agg.Items()
}
