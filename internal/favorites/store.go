package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/reel/internal/domain"
)

// StorageKey is the single key the whole favorites list is written under.
const StorageKey = "reel_favorites"

// Store is the process-wide favorites set. It is the only writer of the
// favorites key, so UI components share one instance instead of touching
// storage directly.
type Store struct {
	storage  domain.KVStorage
	notifier domain.Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	items []domain.CatalogItem // insertion order
	index map[int]int          // item ID -> position in items

	// loadFailed is set while the stored list could not be read. Writes
	// are refused until a re-read succeeds so the stored list is never
	// overwritten by a partial one.
	loadFailed bool
}

// NewStore loads the favorites list once from storage. A missing or
// corrupt value starts an empty list. A failed read also starts empty but
// is reported, and the next write retries it.
func NewStore(storage domain.KVStorage, notifier domain.Notifier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	s := &Store{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
		index:    make(map[int]int),
	}

	stored, err := s.readStored()
	if err != nil {
		s.loadFailed = true
		s.logger.Error("failed to read favorites", "error", err)
		s.notifier.Notify(domain.Notification{
			Title:       "Favorites unavailable",
			Description: "Saved favorites could not be loaded.",
			Severity:    domain.SeverityWarning,
		})
		return s
	}
	s.mergeLocked(stored)
	s.logger.Debug("loaded favorites", "count", len(s.items))
	return s
}

// readStored returns the stored list. Only a storage failure is an error;
// an absent or corrupt value reads as empty.
func (s *Store) readStored() ([]domain.CatalogItem, error) {
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("corrupt favorites data, starting empty", "error", err, "bytes", len(raw))
		return nil, nil
	}
	return items, nil
}

// mergeLocked appends stored items ahead of the in-memory ones. Duplicates a
// foreign writer left behind collapse with the last snapshot winning, and
// items already in memory keep their in-memory snapshot.
func (s *Store) mergeLocked(stored []domain.CatalogItem) {
	current := s.items
	s.items = nil
	s.index = make(map[int]int, len(stored)+len(current))

	for _, item := range stored {
		if pos, exists := s.index[item.ID]; exists {
			s.items[pos] = item
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	for _, item := range current {
		if pos, exists := s.index[item.ID]; exists {
			s.items[pos] = item
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
}

// recoverLocked re-reads storage after a failed load and merges what it
// finds. It returns an error while storage stays unreadable.
func (s *Store) recoverLocked() error {
	if !s.loadFailed {
		return nil
	}
	stored, err := s.readStored()
	if err != nil {
		return err
	}
	s.loadFailed = false
	s.mergeLocked(stored)
	s.logger.Info("recovered favorites", "stored", len(stored), "count", len(s.items))
	return nil
}

// List returns the favorites in insertion order
func (s *Store) List() []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CatalogItem(nil), s.items...)
}

// Len returns the number of favorites
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains reports whether id is a favorite
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// Add inserts item, or refreshes the stored snapshot in place when the ID is
// already present. The write is synchronous. On a persistence failure the
// in-memory change is kept and an error wrapping
// domain.ErrPersistenceUnavailable is returned.
func (s *Store) Add(item domain.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(item)
}

// Remove deletes id from the favorites. Removing an absent ID is a no-op.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// Toggle adds item if absent, removes it if present, and returns whether it
// is a favorite afterwards.
func (s *Store) Toggle(item domain.CatalogItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[item.ID]; ok {
		return false, s.removeLocked(item.ID)
	}
	return true, s.addLocked(item)
}

func (s *Store) addLocked(item domain.CatalogItem) error {
	recoverErr := s.recoverLocked()

	_, existed := s.index[item.ID]
	if existed {
		s.items[s.index[item.ID]] = item
	} else {
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}

	if recoverErr != nil {
		return s.persistenceFailed(recoverErr)
	}
	if err := s.persistLocked(); err != nil {
		return err
	}

	if !existed {
		s.logger.Info("added favorite", "id", item.ID, "title", item.Title)
		s.notifier.Notify(domain.Notification{
			Title:       "Added to favorites",
			Description: fmt.Sprintf("%s has been added to your favorites.", item.Title),
			Severity:    domain.SeverityInfo,
		})
	}
	return nil
}

func (s *Store) removeLocked(id int) error {
	recoverErr := s.recoverLocked()

	pos, ok := s.index[id]
	if !ok {
		return nil
	}
	removed := s.items[pos]

	s.items = append(s.items[:pos], s.items[pos+1:]...)
	s.reindexLocked()

	if recoverErr != nil {
		return s.persistenceFailed(recoverErr)
	}
	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Info("removed favorite", "id", id, "title", removed.Title)
	s.notifier.Notify(domain.Notification{
		Title:       "Removed from favorites",
		Description: fmt.Sprintf("%s has been removed from your favorites.", removed.Title),
		Severity:    domain.SeverityInfo,
	})
	return nil
}

// Clear removes every favorite and deletes the storage key
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[int]int)

	if err := s.storage.Delete(StorageKey); err != nil {
		return s.persistenceFailed(err)
	}
	// The stored list is known to be empty now
	s.loadFailed = false

	s.logger.Info("cleared favorites")
	s.notifier.Notify(domain.Notification{
		Title:       "Favorites cleared",
		Description: "All movies have been removed from your favorites.",
		Severity:    domain.SeverityInfo,
	})
	return nil
}

// Filter returns favorites whose titles fuzzy-match query, best match first.
// A blank query returns the full list.
func (s *Store) Filter(query string) []domain.CatalogItem {
	query = strings.TrimSpace(query)
	items := s.List()
	if query == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	// RankFindFold yields matches in target order; a stable sort keeps
	// insertion order among equal distances
	ranks := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	results := make([]domain.CatalogItem, len(ranks))
	for i, r := range ranks {
		results[i] = items[r.OriginalIndex]
	}
	return results
}

func (s *Store) reindexLocked() {
	s.index = make(map[int]int, len(s.items))
	for i, item := range s.items {
		s.index[item.ID] = i
	}
}

func (s *Store) persistLocked() error {
	items := s.items
	if items == nil {
		items = []domain.CatalogItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return s.persistenceFailed(err)
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		return s.persistenceFailed(err)
	}
	return nil
}

func (s *Store) persistenceFailed(err error) error {
	s.logger.Error("failed to persist favorites", "error", err)
	s.notifier.Notify(domain.Notification{
		Title:       "Favorites not saved",
		Description: "Changes may be lost when you quit.",
		Severity:    domain.SeverityWarning,
	})
	if errors.Is(err, domain.ErrPersistenceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
}
