package cli

import (
	"context"
	"os"
	"strings"

	"github.com/mindscale/mindscale/internal/cache"
	"github.com/mindscale/mindscale/internal/dbx"
)

// Settings prompts for the remote endpoint and credentials, persists them in
// the local cache, and rewires the service graph. An empty answer keeps the
// current value.
func (a *App) Settings(ctx context.Context) error {
	remoteURL, err := GetSimpleText(a.reader, "Remote store URL (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	remoteKey, err := GetSimpleText(a.reader, "Remote store key (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	analysisKey, err := GetSimpleText(a.reader, "Analysis service key (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(remoteURL); v != "" {
		a.config.RemoteURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(remoteKey); v != "" {
		a.config.RemoteKey = v
	}
	if v := strings.TrimSpace(analysisKey); v != "" {
		a.config.AnalysisKey = v
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := cache.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, cache.KeyRemoteURL, []byte(a.config.RemoteURL)); err != nil {
			return err
		}
		if err := repo.Set(ctx, cache.KeyRemoteKey, []byte(a.config.RemoteKey)); err != nil {
			return err
		}
		return repo.Set(ctx, cache.KeyAnalysisKey, []byte(a.config.AnalysisKey))
	})
	if err != nil {
		printlnFn("Failed to save settings:", err.Error())
		return err
	}

	a.buildServices(ctx)
	printlnFn("Settings saved. Connection:", string(a.coord.Status()))
	return nil
}

// ClearCache erases the local record backup. Remote data is untouched.
func (a *App) ClearCache(ctx context.Context) error {
	if err := a.coord.ClearLocalCache(ctx); err != nil {
		printlnFn("Failed to clear local cache:", err.Error())
		return err
	}
	printlnFn("Local cache cleared.")
	return nil
}
