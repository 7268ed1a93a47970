// Package remote implements the client for the remote store collaborator:
// a PostgREST-style HTTP API holding reflection records, accounts, and
// per-day usage counters. The store owns accounts and counters; this client
// only reads and increments them.
package remote

import (
	"context"

	"github.com/mindscale/mindscale/internal/models"
)

// Store is the remote surface the core depends on. Transport failures map to
// common.ErrRemoteUnavailable; missing rows map to common.ErrNotFound.
type Store interface {
	// ListRecent returns at most limit records, newest first by creation time.
	ListRecent(ctx context.Context, limit int) ([]models.Record, error)

	// Insert persists a record with its client-supplied timestamp (server
	// clocks are not trusted) and returns the stored record, including any
	// identifier the store assigned.
	Insert(ctx context.Context, rec models.Record, accountID string) (models.Record, error)

	// Delete removes a record by id. Deleting an id the store does not have
	// returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// FindAccount returns the active account matching the credentials
	// exactly, or common.ErrNotFound.
	FindAccount(ctx context.Context, username, password string) (*models.Account, error)

	// GetAccount returns an account by id, or common.ErrNotFound.
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// GetUsage returns the usage count for (accountID, date). A missing row
	// counts as zero.
	GetUsage(ctx context.Context, accountID, date string) (int, error)

	// IncrementUsage bumps the usage counter for (accountID, date), creating
	// the row at 1 when absent, and increments the account's lifetime total.
	IncrementUsage(ctx context.Context, accountID, date string) error

	// GenerateTestAccounts provisions n sequentially named trial accounts
	// and returns them with their credentials.
	GenerateTestAccounts(ctx context.Context, n int) ([]models.Account, error)
}
