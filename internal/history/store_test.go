package history

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/storage"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func openMemory(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	slot := storage.NewMemory()
	s, err := Open(slot, Options{Logger: quiet})
	require.NoError(t, err)
	return s, slot
}

func mustEntry(t *testing.T, value int, notes string, at time.Time) mood.Entry {
	t.Helper()
	e, err := mood.NewEntry(value, notes, at)
	require.NoError(t, err)
	return e
}

type failingSlot struct {
	*storage.Memory
	putErr error
}

func (f *failingSlot) Put(key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Memory.Put(key, value)
}

func TestOpen_AbsentSlotIsEmpty(t *testing.T) {
	s, _ := openMemory(t)
	assert.Empty(t, s.History())
	assert.NotNil(t, s.History())
	assert.Equal(t, DefaultKey, s.Key())
}

func TestAppend_GrowsByOneAndKeepsPrefix(t *testing.T) {
	s, _ := openMemory(t)
	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	var prev mood.History
	for i := 0; i < 4; i++ {
		e := mustEntry(t, i+1, "", base.AddDate(0, 0, i))
		next, err := s.Append(e)
		require.NoError(t, err)

		require.Len(t, next, len(prev)+1)
		for j := range prev {
			assert.Equal(t, prev[j], next[j], "entry %d changed", j)
		}
		assert.Equal(t, e, next[len(next)-1])
		prev = next
	}
}

func TestAppend_DuplicatesAreKept(t *testing.T) {
	s, _ := openMemory(t)
	e := mustEntry(t, 3, "same", time.Now())

	_, err := s.Append(e)
	require.NoError(t, err)
	h, err := s.Append(e)
	require.NoError(t, err)

	assert.Len(t, h, 2)
	assert.Equal(t, h[0], h[1])
}

func TestLoadAfterAppend_RoundTrip(t *testing.T) {
	s, slot := openMemory(t)
	e := mood.Entry{Value: 2, Label: "Low", Emoji: "😕", Notes: "exam week\nline two", Timestamp: "2025-05-05T21:07:33.120Z"}

	_, err := s.Append(e)
	require.NoError(t, err)

	reopened, err := Open(slot, Options{Logger: quiet})
	require.NoError(t, err)

	loaded, err := reopened.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(mood.History{e}, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, loaded, reopened.History())
}

func TestAppend_WireFormat(t *testing.T) {
	s, slot := openMemory(t)
	e := mood.Entry{Value: 5, Label: "Excellent", Emoji: "😄", Notes: "", Timestamp: "2025-05-05T21:07:33.120Z"}

	_, err := s.Append(e)
	require.NoError(t, err)

	raw, err := slot.Get(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"value":5,"label":"Excellent","emoji":"😄","notes":"","timestamp":"2025-05-05T21:07:33.120Z"}]`, raw)
}

func TestAppend_WriteFailureLeavesHistory(t *testing.T) {
	slot := &failingSlot{Memory: storage.NewMemory()}
	s, err := Open(slot, Options{Logger: quiet})
	require.NoError(t, err)

	_, err = s.Append(mustEntry(t, 4, "", time.Now()))
	require.NoError(t, err)

	slot.putErr = errors.New("disk full")
	_, err = s.Append(mustEntry(t, 1, "", time.Now()))
	require.Error(t, err)
	assert.Len(t, s.History(), 1)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s, _ := openMemory(t)
	_, err := s.Append(mustEntry(t, 4, "original", time.Now()))
	require.NoError(t, err)

	h := s.History()
	h[0].Notes = "changed"
	assert.Equal(t, "original", s.History()[0].Notes)
}

func TestOpen_MalformedResetsAndKeepsBackup(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Put(DefaultKey, "{not json"))

	s, err := Open(slot, Options{Logger: quiet})
	require.NoError(t, err)
	assert.Empty(t, s.History())

	backup, err := slot.Get(DefaultKey + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", backup)

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrMalformedHistory)
}

func TestOpen_MalformedFailPolicy(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Put(DefaultKey, `{"value":3}`))

	_, err := Open(slot, Options{OnCorrupt: PolicyFail, Logger: quiet})
	assert.ErrorIs(t, err, ErrMalformedHistory)
}

func TestOpen_OutOfRangeValueIsMalformed(t *testing.T) {
	for _, blob := range []string{
		`[{"value":6,"label":"Excellent","emoji":"😄","notes":"","timestamp":"2025-01-01T00:00:00.000Z"}]`,
		`[{"value":-2,"label":"Poor","emoji":"😢","notes":"","timestamp":"2025-01-01T00:00:00.000Z"}]`,
		`[{"value":0,"label":"","emoji":"","notes":"","timestamp":"2025-01-01T00:00:00.000Z"}]`,
	} {
		slot := storage.NewMemory()
		require.NoError(t, slot.Put(DefaultKey, blob))

		_, err := Open(slot, Options{OnCorrupt: PolicyFail, Logger: quiet})
		assert.ErrorIs(t, err, ErrMalformedHistory, blob)

		s, err := Open(slot, Options{Logger: quiet})
		require.NoError(t, err)
		assert.Empty(t, s.History(), blob)
		backup, err := slot.Get(s.BackupKey())
		require.NoError(t, err)
		assert.Equal(t, blob, backup)
	}
}

func TestDiscardBackup(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Put(DefaultKey, "{not json"))

	s, err := Open(slot, Options{Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, DefaultKey+".corrupt", s.BackupKey())

	require.NoError(t, s.DiscardBackup())
	_, err = slot.Get(s.BackupKey())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DiscardBackup(), storage.ErrNotFound)
}

func TestOpen_NullIsEmpty(t *testing.T) {
	slot := storage.NewMemory()
	require.NoError(t, slot.Put("custom", "null"))

	s, err := Open(slot, Options{Key: "custom", Logger: quiet})
	require.NoError(t, err)
	assert.Empty(t, s.History())
	assert.Equal(t, "custom", s.Key())
}

func TestStore_SQLiteSlot(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := Open(db, Options{Logger: quiet})
	require.NoError(t, err)

	e := mustEntry(t, 4, "via sqlite", time.Now())
	_, err = s.Append(e)
	require.NoError(t, err)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, mood.History{e}, loaded)
}
