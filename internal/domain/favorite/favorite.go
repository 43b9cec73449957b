// Package favorite keeps the device-local set of liked products. Favorites
// are not tied to an account and never leave the device.
package favorite

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/storage"
	"github.com/xenking/storefront/internal/ui"
)

// Key is the storage key holding the full set.
const Key = "favorites"

// ErrAdminFavorites is returned when an admin session toggles a favorite.
var ErrAdminFavorites = errors.New("admins cannot keep favorites")

// Entry is a liked product. ProductID is the set key.
type Entry struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
}

// Sessions exposes the current session.
type Sessions interface {
	Get() session.Session
}

// Store is a set of entries persisted in full after every change.
type Store struct {
	kv       storage.Store
	sessions Sessions
	reporter *ui.Reporter

	mu      sync.RWMutex
	entries []Entry
}

// NewStore returns an empty Store. Call Load to restore the persisted set.
func NewStore(kv storage.Store, sessions Sessions, reporter *ui.Reporter) *Store {
	return &Store{kv: kv, sessions: sessions, reporter: reporter}
}

// Load reads the persisted set. Duplicate ids in storage collapse to the
// first occurrence.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		s.mu.Lock()
		s.entries = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "load favorites")
	}

	var stored []Entry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return errors.Wrap(err, "decode favorites")
	}

	seen := make(map[string]struct{}, len(stored))
	entries := make([]Entry, 0, len(stored))
	for _, e := range stored {
		if _, dup := seen[e.ProductID]; dup || e.ProductID == "" {
			continue
		}
		seen[e.ProductID] = struct{}{}
		entries = append(entries, e)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// List returns the entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Has reports whether productID is a favorite.
func (s *Store) Has(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index(productID) >= 0
}

// Toggle adds e if absent and removes it if present, then persists the set.
// It reports whether e is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, e Entry) (bool, error) {
	if s.sessions.Get().IsAdmin() {
		return false, s.reporter.Fail(ctx, ErrAdminFavorites, "Admins cannot add favorites", "")
	}
	if e.ProductID == "" {
		return false, errors.New("favorite without product id")
	}

	s.mu.Lock()
	prev := append([]Entry(nil), s.entries...)
	added := false
	if i := s.index(e.ProductID); i >= 0 {
		s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	} else {
		s.entries = append(s.entries, e)
		added = true
	}
	snapshot := append([]Entry(nil), s.entries...)
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		s.mu.Lock()
		s.entries = prev
		s.mu.Unlock()
		return added, s.reporter.Fail(ctx, err, "Could not save your favorites", "")
	}

	if added {
		s.reporter.Notify(ctx, ui.LevelSuccess, "Added to favorites")
	} else {
		s.reporter.Notify(ctx, ui.LevelInfo, "Removed from favorites")
	}
	return added, nil
}

func (s *Store) persist(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encode favorites")
	}
	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return errors.Wrap(err, "persist favorites")
	}
	return nil
}

// index must be called with mu held.
func (s *Store) index(productID string) int {
	for i, e := range s.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
