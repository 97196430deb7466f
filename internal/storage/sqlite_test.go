package storage

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestMigrationsOrdered verifies migrations are applied in ascending numeric order.
func TestMigrationsOrdered(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(versions) == 0 {
		t.Fatal("expected at least one applied migration")
	}

	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("migrations not in ascending order: %v", versions)
			break
		}
	}
}

// TestIndexesExist verifies that the slot indexes are created by the migrations.
func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_slots_updated"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

// TestSlotRoundTrip stores a blob and reads it back byte for byte.
func TestSlotRoundTrip(t *testing.T) {
	s := openTestStore(t)

	blob := `[{"value":4,"label":"Good","emoji":"😊","notes":"ok","timestamp":"2025-01-01T00:00:00.000Z"}]`
	if err := s.Put("wellness-mood-history", blob); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get("wellness-mood-history")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != blob {
		t.Errorf("Get = %q, want %q", got, blob)
	}
}

func TestGetSlotNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	_, err = s.GetSlot("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSlot(missing) error = %v, want ErrNotFound", err)
	}
}

// TestPutOverwrites verifies last write wins for a key.
func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("k", "first"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("k", "second"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	sl, err := s.GetSlot("k")
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if sl.Value != "second" {
		t.Errorf("Value = %q, want %q", sl.Value, "second")
	}
	if time.Since(sl.UpdatedAt) > time.Minute {
		t.Errorf("UpdatedAt = %v, want recent", sl.UpdatedAt)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys = %v, want [k]", keys)
	}
}

func TestKeys_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, row := range []struct{ key, at string }{
		{"a", "2025-01-01T00:00:00Z"},
		{"b", "2025-03-01T00:00:00Z"},
		{"c", "2025-02-01T00:00:00Z"},
		{"d", "2025-03-01T00:00:00Z"},
	} {
		if _, err := s.db.Exec("INSERT INTO slots (key, value, updated_at) VALUES (?, '', ?)", row.key, row.at); err != nil {
			t.Fatalf("insert %s: %v", row.key, err)
		}
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if got := strings.Join(keys, ","); got != "b,d,c,a" {
		t.Errorf("Keys = %s, want b,d,c,a", got)
	}
}

func TestDeleteSlot(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

// TestSlotPersistsAcrossOpen verifies the slot survives closing the database.
func TestSlotPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := s1.Put("k", "durable"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "durable" {
		t.Errorf("Get = %q, want %q", got, "durable")
	}
}

func TestMemoryMatchesStoreSemantics(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty = %v, want ErrNotFound", err)
	}
	m.Put("k", "a")
	m.Put("k", "b")
	if got, _ := m.Get("k"); got != "b" {
		t.Errorf("Get = %q, want b", got)
	}
	if err := m.Delete("k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := m.Delete("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
