package server

import (
	"sync"
	"time"

	"github.com/ryosk0315/manga-price-tarcker/internal/scraper"
)

// historyLimit bounds the number of retained history entries.
const historyLimit = 50

// Favorite is a saved listing.
type Favorite struct {
	scraper.Item
	AddedAt time.Time `json:"addedAt"`
}

// FavoritesStore is an in-memory favorites collection keyed by
// (title, store). State does not survive a restart.
type FavoritesStore struct {
	mu    sync.RWMutex
	items map[string]Favorite
}

// NewFavoritesStore creates an empty favorites store
func NewFavoritesStore() *FavoritesStore {
	return &FavoritesStore{items: make(map[string]Favorite)}
}

// Add saves or replaces a favorite
func (f *FavoritesStore) Add(item scraper.Item, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.Title+"|"+item.Store] = Favorite{Item: item, AddedAt: now}
}

// Remove deletes a favorite; returns false when it was absent
func (f *FavoritesStore) Remove(title, store string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := title + "|" + store
	_, ok := f.items[key]
	delete(f.items, key)
	return ok
}

// List returns all favorites, newest first
func (f *FavoritesStore) List() []Favorite {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Favorite, 0, len(f.items))
	for _, fav := range f.items {
		out = append(out, fav)
	}
	sortFavorites(out)
	return out
}

func sortFavorites(favs []Favorite) {
	for i := 1; i < len(favs); i++ {
		for j := i; j > 0 && favs[j].AddedAt.After(favs[j-1].AddedAt); j-- {
			favs[j], favs[j-1] = favs[j-1], favs[j]
		}
	}
}

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	Title      string    `json:"title"`
	Currency   string    `json:"currency"`
	SearchedAt time.Time `json:"searchedAt"`
}

// HistoryStore is a bounded in-memory log of searches, newest first.
type HistoryStore struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// NewHistoryStore creates an empty history store
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record prepends a search to the history, dropping the oldest entry
// beyond the limit
func (h *HistoryStore) Record(title, currency string, now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]HistoryEntry{{Title: title, Currency: currency, SearchedAt: now}}, h.entries...)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[:historyLimit]
	}
}

// List returns the recorded searches, newest first
func (h *HistoryStore) List() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes all history entries
func (h *HistoryStore) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
