package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mindscale/mindscale/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}

	acc, err := a.sessions.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, common.ErrRemoteNotConfigured):
		printlnFn("Remote store is not configured. Run 'settings' first.")
		return err
	case errors.Is(err, common.ErrInvalidCredentials):
		printlnFn("Invalid username or password.")
		return err
	case errors.Is(err, common.ErrAccountExpired):
		printlnFn("This account has expired.")
		return err
	case err != nil:
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.coord.SetOwner(acc.ID)
	printlnFn(fmt.Sprintf("Logged in as %s (daily limit %d, valid until %s)",
		acc.Username, acc.DailyLimit, acc.ExpiresAt.Format("2006-01-02")))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.sessions.EndSession(ctx)
	a.coord.SetOwner("")
	printlnFn("Logged out.")
	return nil
}
