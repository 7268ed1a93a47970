// Package journal contains the core of the client: the persistence
// coordinator that decides whether a record is durable remotely or only in
// the local cache, and the submission orchestrator that sequences
// quota check → analysis → persistence → usage recording.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mindscale/mindscale/internal/cache"
	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/logging"
	"github.com/mindscale/mindscale/internal/models"
	"github.com/mindscale/mindscale/internal/remote"
)

// Status is the coordinator's belief about remote reachability. It is
// transitioned only by the coordinator's own I/O outcomes.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Coordinator owns the canonical record list for the session. All writes go
// through it; it serializes its own operations so no two appends or removals
// interleave their read-modify-write of the cache.
type Coordinator struct {
	store     remote.Store // nil when remote storage is not configured
	cache     cache.Repository
	log       logging.Logger
	listLimit int

	mu      sync.Mutex
	records []models.Record
	status  Status
	owner   string
}

func NewCoordinator(store remote.Store, repo cache.Repository, listLimit int, log logging.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		cache:     repo,
		log:       log,
		listLimit: listLimit,
		status:    StatusDisconnected,
	}
}

// SetOwner records the account id new remote writes are attributed to.
func (c *Coordinator) SetOwner(accountID string) {
	c.mu.Lock()
	c.owner = accountID
	c.mu.Unlock()
}

// Initialize loads the most recent records from the remote store when it is
// configured and reachable, marking the session connected and treating the
// remote set as canonical. On any failure — including "not configured" — it
// falls back to the last locally cached snapshot and marks the session
// disconnected. The fallback is not an error; callers surface it only as a
// status indicator.
func (c *Coordinator) Initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		c.status = StatusDisconnected
		c.loadSnapshotLocked(ctx)
		return
	}

	recs, err := c.store.ListRecent(ctx, c.listLimit)
	if err != nil {
		c.log.Warn(ctx, "remote load failed, using local cache", "error", err)
		c.status = StatusDisconnected
		c.loadSnapshotLocked(ctx)
		return
	}

	c.records = recs
	c.status = StatusConnected
	c.writeSnapshotLocked(ctx)
}

// Append persists a new record. When remote storage is configured it tries a
// remote write first regardless of the last outcome, so a recovered store
// reconnects on the next submission; on success the remote-assigned identity
// is adopted, on failure the session flips to disconnected and the record
// keeps its locally generated id. Either way the record lands at the head of
// the list and the cache snapshot is rewritten.
func (c *Coordinator) Append(ctx context.Context, rec models.Record) (models.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	persisted := false
	if c.store != nil {
		saved, err := c.store.Insert(ctx, rec, c.owner)
		if err != nil {
			c.log.Warn(ctx, "remote append failed, keeping record locally", "id", rec.ID, "error", err)
			c.status = StatusDisconnected
		} else {
			rec = saved
			persisted = true
			c.status = StatusConnected
		}
	}

	c.records = append([]models.Record{rec}, c.records...)
	c.writeSnapshotLocked(ctx)
	return rec, persisted
}

// AppendLocal stores a record in the in-memory list and local cache only,
// without touching the remote store or the connection state. Used for the
// degraded path after a failed analysis.
func (c *Coordinator) AppendLocal(ctx context.Context, rec models.Record) models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append([]models.Record{rec}, c.records...)
	c.writeSnapshotLocked(ctx)
	return rec
}

// Remove deletes a record. While connected the remote deletion runs first and
// its failure is surfaced as-is — reporting success while the remote copy
// still exists would break the user's expectation of a delete. The record
// stays in the visible list in that case.
func (c *Coordinator) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil && c.status == StatusConnected {
		if err := c.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("remote delete: %w", err)
		}
	}

	found := false
	kept := c.records[:0]
	for _, rec := range c.records {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	c.records = kept
	if !found {
		return fmt.Errorf("remove %s: %w", id, common.ErrNotFound)
	}

	c.writeSnapshotLocked(ctx)
	return nil
}

// ClearLocalCache erases only the local backup, never the remote store. When
// disconnected the in-memory list is cleared with it, since the cache was its
// only source; when connected the visible list is untouched.
func (c *Coordinator) ClearLocalCache(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cache.Delete(ctx, cache.KeyRecords); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if c.status == StatusDisconnected {
		c.records = nil
	}
	return nil
}

// Records returns the session's records, newest first by insertion. The list
// is never re-sorted by timestamp after the fact.
func (c *Coordinator) Records() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) loadSnapshotLocked(ctx context.Context) {
	data, err := c.cache.Get(ctx, cache.KeyRecords)
	if err != nil {
		c.log.Warn(ctx, "failed to read cache snapshot", "error", err)
		return
	}
	if data == nil {
		return
	}
	var recs []models.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		c.log.Warn(ctx, "discarding unreadable cache snapshot", "error", err)
		return
	}
	c.records = recs
}

// writeSnapshotLocked mirrors the full in-memory list into the local cache.
// The backup is best effort; a write failure is logged, never propagated.
func (c *Coordinator) writeSnapshotLocked(ctx context.Context) {
	data, err := json.Marshal(c.records)
	if err != nil {
		c.log.Error(ctx, "failed to encode cache snapshot", "error", err)
		return
	}
	if err := c.cache.Set(ctx, cache.KeyRecords, data); err != nil {
		c.log.Warn(ctx, "failed to write cache snapshot", "error", err)
	}
}
