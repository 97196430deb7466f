// Package history owns the persisted mood history: one JSON array kept in a
// single durable key-value slot and replaced wholesale on every append.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/storage"
)

// DefaultKey is the slot holding the serialized history.
const DefaultKey = "wellness-mood-history"

// ErrMalformedHistory is returned when the slot holds text that is not a JSON
// array of entries, or an entry whose value is outside 1..5.
var ErrMalformedHistory = errors.New("malformed mood history")

// Slot is the durable key-value storage the Store needs. Get returns
// storage.ErrNotFound for an absent key. Implemented by storage.Store and
// storage.Memory.
type Slot interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// CorruptPolicy decides what Open does with an unreadable slot.
type CorruptPolicy string

const (
	// PolicyReset keeps a copy of the unreadable blob under <key>.corrupt and
	// starts from an empty history.
	PolicyReset CorruptPolicy = "reset"
	// PolicyFail returns the decode error from Open.
	PolicyFail CorruptPolicy = "fail"
)

// Options configures a Store. Zero values select DefaultKey, PolicyReset and
// slog.Default().
type Options struct {
	Key       string
	OnCorrupt CorruptPolicy
	Logger    *slog.Logger
}

// Store holds the in-memory copy of the history and writes through to the
// slot on every append. Safe for concurrent use within one process; separate
// processes sharing a slot race with last-write-wins.
type Store struct {
	slot   Slot
	key    string
	logger *slog.Logger

	mu      sync.Mutex
	entries mood.History
}

// Open creates a Store and loads the history once.
func Open(slot Slot, opts Options) (*Store, error) {
	s := &Store{
		slot:   slot,
		key:    opts.Key,
		logger: opts.Logger,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	h, err := s.Load()
	switch {
	case err == nil:
		s.entries = h
	case errors.Is(err, ErrMalformedHistory) && opts.OnCorrupt != PolicyFail:
		s.quarantine()
		s.entries = mood.History{}
	default:
		return nil, err
	}
	return s, nil
}

// Load reads and decodes the slot. An absent slot is an empty history.
func (s *Store) Load() (mood.History, error) {
	raw, err := s.slot.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return mood.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading mood history: %w", err)
	}
	return decode(raw)
}

// Append persists the current history plus e and returns the new history.
// On a write failure the in-memory history is left unchanged.
func (s *Store) Append(e mood.Entry) (mood.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(mood.History, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, e)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encoding mood history: %w", err)
	}
	if err := s.slot.Put(s.key, string(data)); err != nil {
		return nil, fmt.Errorf("saving mood history: %w", err)
	}

	s.entries = next
	s.logger.Debug("mood recorded", "label", e.Label, "entries", len(next))
	return copyHistory(next), nil
}

// History returns a copy of all entries, oldest first.
func (s *Store) History() mood.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyHistory(s.entries)
}

// Key returns the slot key the Store persists to.
func (s *Store) Key() string {
	return s.key
}

// BackupKey is the slot an unreadable history is copied to by PolicyReset.
func (s *Store) BackupKey() string {
	return s.key + ".corrupt"
}

// DiscardBackup deletes the copy of an unreadable history. It returns
// storage.ErrNotFound when there is none.
func (s *Store) DiscardBackup() error {
	if err := s.slot.Delete(s.BackupKey()); err != nil {
		return fmt.Errorf("discarding %s: %w", s.BackupKey(), err)
	}
	return nil
}

func (s *Store) quarantine() {
	raw, err := s.slot.Get(s.key)
	if err != nil {
		s.logger.Warn("mood history unreadable, starting empty", "key", s.key, "error", err)
		return
	}
	backup := s.BackupKey()
	if err := s.slot.Put(backup, raw); err != nil {
		s.logger.Warn("mood history unreadable and backup failed, starting empty", "key", s.key, "error", err)
		return
	}
	s.logger.Warn("mood history unreadable, starting empty", "key", s.key, "backup", backup)
}

func decode(raw string) (mood.History, error) {
	var h mood.History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	for i, e := range h {
		if _, err := mood.LevelFor(e.Value); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedHistory, i, err)
		}
	}
	if h == nil {
		h = mood.History{}
	}
	return h, nil
}

func copyHistory(h mood.History) mood.History {
	out := make(mood.History, len(h))
	copy(out, h)
	return out
}
