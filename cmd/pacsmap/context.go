package main

import (
	"log/slog"
	"sync"

	"github.com/guillaume-flambard/pacs-dog-map/internal/config"
	"github.com/guillaume-flambard/pacs-dog-map/internal/observability"
	"github.com/guillaume-flambard/pacs-dog-map/internal/render"
	"github.com/guillaume-flambard/pacs-dog-map/internal/snapshot"
	"github.com/guillaume-flambard/pacs-dog-map/internal/store"
	syncpkg "github.com/guillaume-flambard/pacs-dog-map/internal/sync"
)

// appContext lazily builds shared dependencies so that commands which never
// touch the store or the network do not pay for them.
type appContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger

	metricsOnce sync.Once
	metrics     *observability.Metrics
}

func newAppContext() *appContext {
	return &appContext{}
}

func (a *appContext) ensureConfig() (*config.Config, error) {
	a.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			a.configErr = err
			return
		}
		a.config = cfg
		a.logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	})
	return a.config, a.configErr
}

func (a *appContext) ensureMetrics() *observability.Metrics {
	a.metricsOnce.Do(func() {
		a.metrics = observability.NewMetrics()
	})
	return a.metrics
}

// withStore opens the record store, runs fn, and closes it afterwards.
func (a *appContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := a.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

func (a *appContext) newSyncer(cfg *config.Config, st *store.Store) *syncpkg.Syncer {
	client := snapshot.NewClient(cfg.SnapshotURLs(), cfg.SnapshotTimeout, a.logger)
	return syncpkg.New(client, st, a.logger, a.ensureMetrics())
}

func (a *appContext) mapOptions(cfg *config.Config) render.MapOptions {
	return render.MapOptions{
		CenterLat: cfg.MapCenterLat,
		CenterLng: cfg.MapCenterLng,
		Zoom:      cfg.MapZoom,
	}
}
