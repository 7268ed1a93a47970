package cli

import (
	"context"
	"fmt"
)

// GenAccounts provisions a batch of trial accounts on the remote store and
// prints their credentials. Intended for the project owner, not end users.
func (a *App) GenAccounts(ctx context.Context) error {
	if a.store == nil {
		printlnFn("Remote store is not configured. Run 'settings' first.")
		return nil
	}

	accounts, err := a.store.GenerateTestAccounts(ctx, 10)
	if err != nil {
		printlnFn("Failed to generate accounts:", err.Error())
		return err
	}
	for _, acc := range accounts {
		printlnFn(fmt.Sprintf("%s / %s (daily limit %d, valid until %s)",
			acc.Username, acc.Password, acc.DailyLimit, acc.ExpiresAt.Format("2006-01-02")))
	}
	return nil
}
