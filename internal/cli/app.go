// Package cli implements the interactive REPL for mindscale: login, submit,
// list, delete, status, and settings management. All rendering is plain text;
// the workflow logic lives in the journal and session packages.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/mindscale/mindscale/internal/analysis"
	"github.com/mindscale/mindscale/internal/cache"
	"github.com/mindscale/mindscale/internal/clock"
	"github.com/mindscale/mindscale/internal/config"
	"github.com/mindscale/mindscale/internal/journal"
	"github.com/mindscale/mindscale/internal/logging"
	"github.com/mindscale/mindscale/internal/remote"
	"github.com/mindscale/mindscale/internal/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	cache  cache.Repository
	clock  clock.Clock
	reader *bufio.Reader

	store    remote.Store
	sessions *session.Manager
	coord    *journal.Coordinator
	orch     *journal.Orchestrator
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := cache.Open(ctx, cfg.CacheDSN)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		log:    logger,
		db:     db,
		cache:  cache.NewSQLiteRepository(db),
		clock:  clock.New(),
		reader: bufio.NewReader(os.Stdin),
	}

	a.overlayCachedSettings(ctx)
	a.buildServices(ctx)
	return a, nil
}

// overlayCachedSettings fills config fields that flags, env, and the JSON
// file left empty with values the user previously saved from the settings
// command.
func (a *App) overlayCachedSettings(ctx context.Context) {
	load := func(key string, dst *string) {
		if *dst != "" {
			return
		}
		if data, err := a.cache.Get(ctx, key); err == nil && data != nil {
			*dst = string(data)
		}
	}
	load(cache.KeyRemoteURL, &a.config.RemoteURL)
	load(cache.KeyRemoteKey, &a.config.RemoteKey)
	load(cache.KeyAnalysisKey, &a.config.AnalysisKey)
}

// buildServices (re)wires the service graph from the current config. Called
// at startup and again after the settings command changes endpoints.
func (a *App) buildServices(ctx context.Context) {
	var store remote.Store
	if a.config.RemoteConfigured() {
		store = remote.NewRESTStore(a.config.RemoteURL, a.config.RemoteKey)
	}
	a.store = store

	a.sessions = session.NewManager(store, a.cache, a.clock, a.log)
	a.sessions.Restore(ctx)

	var ledger *session.Ledger
	if store != nil {
		ledger = session.NewLedger(store, a.clock)
	}

	var analyzer analysis.Analyzer
	if a.config.AnalysisKey != "" {
		analyzer = analysis.NewClient(
			a.config.AnalysisBaseURL,
			a.config.AnalysisKey,
			a.config.AnalysisModel,
			a.config.AnalysisTimeout,
		)
	}

	a.coord = journal.NewCoordinator(store, a.cache, a.config.ListLimit, a.log)
	a.coord.Initialize(ctx)
	if cur := a.sessions.Current(); cur != nil {
		a.coord.SetOwner(cur.ID)
	}

	a.orch = journal.NewOrchestrator(a.sessions, ledger, a.coord, analyzer, a.clock, a.config.AnalysisTimeout, a.log)
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}
