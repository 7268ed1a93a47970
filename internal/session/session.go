// Package session holds the authenticated identity for the process lifetime
// and gates quota-checked work. Accounts and usage counters are owned by the
// remote store; nothing here is cached longer than one check except the
// identity itself.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mindscale/mindscale/internal/cache"
	"github.com/mindscale/mindscale/internal/clock"
	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/logging"
	"github.com/mindscale/mindscale/internal/models"
	"github.com/mindscale/mindscale/internal/remote"
)

// Manager validates credentials against the account store and holds the
// current identity. The identity is persisted in the local cache so a restart
// resumes the same session without re-prompting.
type Manager struct {
	store remote.Store // nil in local-only mode
	cache cache.Repository
	clock clock.Clock
	log   logging.Logger

	mu      sync.RWMutex
	current *models.Account
}

func NewManager(store remote.Store, repo cache.Repository, clk clock.Clock, log logging.Logger) *Manager {
	return &Manager{store: store, cache: repo, clock: clk, log: log}
}

// Restore loads a previously persisted identity from the cache. Missing or
// unreadable data just means no session.
func (m *Manager) Restore(ctx context.Context) {
	data, err := m.cache.Get(ctx, cache.KeyAccount)
	if err != nil || data == nil {
		return
	}
	var acc models.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		m.log.Warn(ctx, "discarding unreadable cached identity", "error", err)
		return
	}
	m.mu.Lock()
	m.current = &acc
	m.mu.Unlock()
}

// Authenticate matches credentials exactly against the active accounts.
// Returns common.ErrInvalidCredentials on a mismatch and
// common.ErrAccountExpired when the matched account's expiry has passed.
// Transport failures are surfaced as-is, not retried.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	if m.store == nil {
		return nil, common.ErrRemoteNotConfigured
	}

	acc, err := m.store.FindAccount(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if acc.Expired(m.clock.Now()) {
		return nil, common.ErrAccountExpired
	}

	m.mu.Lock()
	m.current = acc
	m.mu.Unlock()

	if data, err := json.Marshal(acc); err == nil {
		if err := m.cache.Set(ctx, cache.KeyAccount, data); err != nil {
			m.log.Warn(ctx, "failed to persist identity", "error", err)
		}
	}
	return acc, nil
}

// EndSession clears the current identity. Idempotent.
func (m *Manager) EndSession(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.cache.Delete(ctx, cache.KeyAccount); err != nil {
		m.log.Warn(ctx, "failed to clear persisted identity", "error", err)
	}
}

// Current returns the authenticated account, or nil. Pure read.
func (m *Manager) Current() *models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AccountInfo fetches the current account fresh from the store together with
// today's usage, for status display.
func (m *Manager) AccountInfo(ctx context.Context) (*models.AccountInfo, error) {
	cur := m.Current()
	if cur == nil {
		return nil, common.ErrNotAuthenticated
	}
	if m.store == nil {
		return nil, common.ErrRemoteNotConfigured
	}

	acc, err := m.store.GetAccount(ctx, cur.ID)
	if err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}
	count, err := m.store.GetUsage(ctx, cur.ID, today(m.clock))
	if err != nil {
		return nil, fmt.Errorf("account usage: %w", err)
	}
	remaining := acc.DailyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return &models.AccountInfo{Account: *acc, TodayUsage: count, Remaining: remaining}, nil
}

// today renders the current calendar date in the local zone; counters roll
// over by the date changing, never by a reset.
func today(clk clock.Clock) string {
	return clk.Now().Format("2006-01-02")
}
