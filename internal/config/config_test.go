package config

import (
	"errors"
	"strings"
	"testing"
)

// mapBackend is an in-memory ConfigBackend.
type mapBackend struct {
	strs map[string]string
	ints map[string]int
	err  error
}

func newMapBackend() *mapBackend {
	return &mapBackend{strs: map[string]string{}, ints: map[string]int{}}
}

func (m *mapBackend) GetString(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.strs[key]
	return v, ok, nil
}

func (m *mapBackend) GetInt(key string) (int, bool, error) {
	if m.err != nil {
		return 0, false, m.err
	}
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *mapBackend) SetString(key, val string) error {
	m.strs[key] = val
	return nil
}

func (m *mapBackend) SetInt(key string, val int) error {
	m.ints[key] = val
	return nil
}

func (m *mapBackend) Delete(key string) error {
	delete(m.strs, key)
	delete(m.ints, key)
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies all default values are applied when the backend is empty.
func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMapBackend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Server.Port = %d, want 4100", cfg.Server.Port)
	}
	if cfg.Storage.HistoryKey != "wellness-mood-history" {
		t.Errorf("Storage.HistoryKey = %q, want %q", cfg.Storage.HistoryKey, "wellness-mood-history")
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
	if cfg.History.OnCorrupt != "reset" {
		t.Errorf("History.OnCorrupt = %q, want %q", cfg.History.OnCorrupt, "reset")
	}
	if cfg.Trends.Window != 7 {
		t.Errorf("Trends.Window = %d, want 7", cfg.Trends.Window)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

// TestBackendValues verifies values stored in the backend replace defaults.
func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := newMapBackend()
	b.ints["server.port"] = 5100
	b.ints["trends.window"] = 14
	b.strs["storage.data_dir"] = "/tmp/studentwell-test"
	b.strs["history.on_corrupt"] = "fail"
	b.strs["log.level"] = "DEBUG"

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5100 {
		t.Errorf("Server.Port = %d, want 5100", cfg.Server.Port)
	}
	if cfg.Trends.Window != 14 {
		t.Errorf("Trends.Window = %d, want 14", cfg.Trends.Window)
	}
	if cfg.Storage.DataDir != "/tmp/studentwell-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.History.OnCorrupt != "fail" {
		t.Errorf("History.OnCorrupt = %q", cfg.History.OnCorrupt)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want lower-cased %q", cfg.Log.Level, "debug")
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)

	b := newMapBackend()
	b.ints["server.port"] = 5100
	b.strs["storage.history_key"] = "from-backend"

	t.Setenv("STUDENTWELL_SERVER_PORT", "6100")
	t.Setenv("STUDENTWELL_STORAGE_HISTORY_KEY", "from-env")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6100 {
		t.Errorf("Server.Port = %d, want 6100", cfg.Server.Port)
	}
	if cfg.Storage.HistoryKey != "from-env" {
		t.Errorf("Storage.HistoryKey = %q, want %q", cfg.Storage.HistoryKey, "from-env")
	}
}

// TestEnvOverrideBadInt verifies an unparsable integer env var keeps the prior value.
func TestEnvOverrideBadInt(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDENTWELL_TRENDS_WINDOW", "seven")

	cfg, err := loadWith(newMapBackend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Trends.Window != 7 {
		t.Errorf("Trends.Window = %d, want 7", cfg.Trends.Window)
	}
}

func TestBackendError(t *testing.T) {
	clearEnv(t)

	b := newMapBackend()
	b.err = errors.New("boom")

	if _, err := loadWith(b); err == nil {
		t.Fatal("expected error from failing backend, got nil")
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		set  func(b *mapBackend)
		want string
	}{
		{"bad log level", func(b *mapBackend) { b.strs["log.level"] = "loud" }, "Level"},
		{"bad corrupt policy", func(b *mapBackend) { b.strs["history.on_corrupt"] = "ignore" }, "OnCorrupt"},
		{"port out of range", func(b *mapBackend) { b.ints["server.port"] = 70000 }, "Port"},
		{"zero window", func(b *mapBackend) { b.ints["trends.window"] = 0 }, "Window"},
		{"empty history key", func(b *mapBackend) { b.strs["storage.history_key"] = "" }, "HistoryKey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			b := newMapBackend()
			tt.set(b)

			_, err := loadWith(b)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSetKey(t *testing.T) {
	b := newMapBackend()

	if err := setKeyWith(b, "server.port", "4200"); err != nil {
		t.Fatalf("setKeyWith port: %v", err)
	}
	if b.ints["server.port"] != 4200 {
		t.Errorf("stored port = %d, want 4200", b.ints["server.port"])
	}

	if err := setKeyWith(b, "history.on_corrupt", "fail"); err != nil {
		t.Fatalf("setKeyWith on_corrupt: %v", err)
	}
	if b.strs["history.on_corrupt"] != "fail" {
		t.Errorf("stored on_corrupt = %q", b.strs["history.on_corrupt"])
	}

	if err := setKeyWith(b, "server.port", "many"); err == nil {
		t.Error("expected error for non-integer port")
	}
	if err := setKeyWith(b, "log.level", "loud"); err == nil {
		t.Error("expected validation error for bad log level")
	}
	if _, ok := b.strs["log.level"]; ok {
		t.Error("invalid value was persisted")
	}
	if err := setKeyWith(b, "log.level", "DEBUG"); err != nil {
		t.Fatalf("setKeyWith uppercase log level: %v", err)
	}
	if b.strs["log.level"] != "debug" {
		t.Errorf("stored log.level = %q, want %q", b.strs["log.level"], "debug")
	}
	if err := setKeyWith(b, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestShowAllAndValidKeys(t *testing.T) {
	cfg := defaults()
	infos := ShowAll(cfg)
	keys := ValidKeys()

	if len(infos) != len(keys) {
		t.Fatalf("ShowAll returned %d keys, ValidKeys %d", len(infos), len(keys))
	}
	for i, info := range infos {
		if info.Key != keys[i] {
			t.Errorf("key %d = %q, want %q", i, info.Key, keys[i])
		}
		if !strings.HasPrefix(info.EnvVar, "STUDENTWELL_") {
			t.Errorf("env var for %s = %q", info.Key, info.EnvVar)
		}
		if info.Key == "server.port" && info.Value != "4100" {
			t.Errorf("server.port value = %q, want 4100", info.Value)
		}
	}
}
