package cli

import (
	"context"
	"fmt"
)

func (a *App) ShowStatus(ctx context.Context) error {
	printlnFn("Connection:", string(a.coord.Status()))
	if !a.config.RemoteConfigured() {
		printlnFn("Remote store: not configured (local-only mode)")
	}
	if a.config.AnalysisKey == "" {
		printlnFn("Analysis service: key not configured")
	}
	printlnFn("Records in session:", len(a.coord.Records()))

	if !a.isLoggedIn() {
		return nil
	}
	info, err := a.sessions.AccountInfo(ctx)
	if err != nil {
		printlnFn("Account info unavailable:", err.Error())
		return nil
	}
	printlnFn(fmt.Sprintf("Account %s: used %d of %d today (%d remaining), total %d, expires %s",
		info.Username,
		info.TodayUsage,
		info.DailyLimit,
		info.Remaining,
		info.TotalUsage,
		info.ExpiresAt.Format("2006-01-02")))
	return nil
}
