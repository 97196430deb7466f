package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kalambet/studentwell/internal/api"
	"github.com/kalambet/studentwell/internal/config"
	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/history"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/storage"
	"github.com/kalambet/studentwell/internal/trends"
)

// moodService is what the one-shot commands need. It is served either by a
// running server over HTTP or by the local database directly.
type moodService interface {
	History(ctx context.Context, limit int) (mood.History, error)
	CheckIn(ctx context.Context, value int, notes string) (api.CheckInResponse, error)
	Trends(ctx context.Context) (trends.Report, error)
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
	Close() error
}

// loadConfig loads configuration and installs the default slog handler.
var loadConfig = func() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func setupLogging(level string) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// localApp owns the database and the dashboard built on it.
type localApp struct {
	store *storage.Store
	hist  *history.Store
	dash  *dashboard.Dashboard
}

func openLocal(cfg config.Config) (*localApp, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	hist, err := history.Open(store, history.Options{
		Key:       cfg.Storage.HistoryKey,
		OnCorrupt: history.CorruptPolicy(cfg.History.OnCorrupt),
		Logger:    slog.Default(),
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading mood history: %w", err)
	}

	dash := dashboard.New(hist, dashboard.Options{Window: cfg.Trends.Window})
	return &localApp{store: store, hist: hist, dash: dash}, nil
}

func (a *localApp) History(_ context.Context, limit int) (mood.History, error) {
	h := a.dash.History()
	if limit > 0 {
		h = mood.RecentWindow(h, limit)
	}
	return h, nil
}

func (a *localApp) CheckIn(_ context.Context, value int, notes string) (api.CheckInResponse, error) {
	entry, note, err := a.dash.CheckIn(value, notes)
	if err != nil {
		return api.CheckInResponse{}, err
	}
	return api.CheckInResponse{Entry: entry, Notification: note}, nil
}

func (a *localApp) Trends(_ context.Context) (trends.Report, error) {
	return a.dash.Trends(), nil
}

func (a *localApp) Snapshot(_ context.Context) (dashboard.Snapshot, error) {
	return a.dash.Snapshot(), nil
}

func (a *localApp) Close() error {
	return a.store.Close()
}

// openService prefers a running server so its in-memory history stays
// current, and falls back to the local database.
var openService = func(ctx context.Context, cfg config.Config) (moodService, error) {
	client := newAPIClient(cfg.Server.Port)
	if client.healthy(ctx) {
		slog.Debug("using running server", "port", cfg.Server.Port)
		return client, nil
	}
	return openLocal(cfg)
}
