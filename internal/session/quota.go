package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindscale/mindscale/internal/clock"
	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/remote"
)

// Decision is the outcome of the read-only quota gate.
type Decision struct {
	Allowed   bool
	Remaining int
	Reason    string
	Expired   bool
}

// Ledger enforces the per-account daily submission quota and account expiry.
type Ledger struct {
	store remote.Store
	clock clock.Clock
}

func NewLedger(store remote.Store, clk clock.Clock) *Ledger {
	return &Ledger{store: store, clock: clk}
}

// CheckCanSubmit reads the account's expiry and today's usage counter and
// fails closed on either. It never mutates state and is callable repeatedly
// without side effects. Transport failures are returned as errors, distinct
// from a denied Decision.
func (l *Ledger) CheckCanSubmit(ctx context.Context, accountID string) (Decision, error) {
	acc, err := l.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Decision{Reason: "account not found"}, nil
		}
		return Decision{}, fmt.Errorf("quota: %w", err)
	}
	if acc.Expired(l.clock.Now()) {
		return Decision{Reason: "account expired", Expired: true}, nil
	}

	count, err := l.store.GetUsage(ctx, accountID, today(l.clock))
	if err != nil {
		return Decision{}, fmt.Errorf("quota: %w", err)
	}
	if count >= acc.DailyLimit {
		return Decision{Reason: fmt.Sprintf("daily limit reached (%d)", acc.DailyLimit)}, nil
	}
	return Decision{Allowed: true, Remaining: acc.DailyLimit - count}, nil
}

// RecordUsage increments today's counter for the account (creating the row at
// 1 when absent) and the account's lifetime total. Callers invoke it at most
// once per completed submission; it is never rolled back once a record has
// been persisted.
func (l *Ledger) RecordUsage(ctx context.Context, accountID string) error {
	return l.store.IncrementUsage(ctx, accountID, today(l.clock))
}
