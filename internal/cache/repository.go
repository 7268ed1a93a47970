// Package cache implements the local cache collaborator: a small key-value
// store over sqlite holding the session record snapshot, the current
// identity, and remote/analysis settings. It is the only durable state the
// client owns; the remote store stays canonical whenever it is reachable.
package cache

import "context"

// Keys the client stores. The cache is not transactional across keys.
const (
	KeyRecords     = "records"
	KeyAccount     = "current_account"
	KeyRemoteURL   = "remote_url"
	KeyRemoteKey   = "remote_key"
	KeyAnalysisKey = "analysis_key"
)

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
