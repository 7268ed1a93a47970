package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mindscale/mindscale/internal/analysis"
	"github.com/mindscale/mindscale/internal/clock"
	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/logging"
	"github.com/mindscale/mindscale/internal/models"
	"github.com/mindscale/mindscale/internal/session"
)

// QuotaError carries the quota gate's verbatim denial reason to the caller.
// It matches common.ErrQuotaExceeded with errors.Is, and additionally
// common.ErrAccountExpired when the denial was an expiry.
type QuotaError struct {
	Reason  string
	Expired bool
}

func (e *QuotaError) Error() string { return e.Reason }

func (e *QuotaError) Is(target error) bool {
	if target == common.ErrQuotaExceeded {
		return true
	}
	return e.Expired && target == common.ErrAccountExpired
}

// SubmitResult reports which path a submission took.
type SubmitResult struct {
	Record            models.Record
	PersistedRemotely bool
	Degraded          bool
	QuotaRecorded     bool
}

// Orchestrator runs the submission workflow. Submissions are serialized: a
// second Submit for the same session queues behind the first, so two records
// never race to increment the same usage counter row.
type Orchestrator struct {
	sessions *session.Manager
	quota    *session.Ledger // nil in local-only mode, together with store
	coord    *Coordinator
	analyzer analysis.Analyzer // nil until an analysis key is configured
	clock    clock.Clock
	log      logging.Logger
	timeout  time.Duration

	mu sync.Mutex
}

func NewOrchestrator(
	sessions *session.Manager,
	quota *session.Ledger,
	coord *Coordinator,
	analyzer analysis.Analyzer,
	clk clock.Clock,
	timeout time.Duration,
	log logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		quota:    quota,
		coord:    coord,
		analyzer: analyzer,
		clock:    clk,
		timeout:  timeout,
		log:      log,
	}
}

// Submit runs one reflection through the full workflow:
//
//	quota check → analysis → persistence → usage recording
//
// The timestamp is captured before the analysis call, so the record carries
// the moment the user submitted, not when a downstream step completed. A
// failed analysis degrades to a placeholder record persisted locally only —
// user-authored text is never lost. Usage is recorded only when the analysis
// succeeded AND the record reached the remote store: local-only submissions
// do not consume quota. (An offline user can therefore submit without limit;
// that asymmetry is inherited behavior, kept on purpose.) A usage-recording
// failure is logged and swallowed, it never discards the record.
func (o *Orchestrator) Submit(ctx context.Context, input string) (*SubmitResult, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, common.ErrEmptyInput
	}
	acct := o.sessions.Current()
	if acct == nil {
		return nil, common.ErrNotAuthenticated
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	log := o.log.With("trace_id", o.clock.TraceID())

	// Checking. The gate is read-only; a denial reaches the caller verbatim
	// and an expiry additionally ends the session.
	if o.quota != nil {
		dec, err := o.quota.CheckCanSubmit(ctx, acct.ID)
		if err != nil {
			return nil, fmt.Errorf("quota check: %w", err)
		}
		if !dec.Allowed {
			if dec.Expired {
				log.Info(ctx, "account expired mid-session, logging out", "account", acct.ID)
				o.sessions.EndSession(ctx)
			}
			return nil, &QuotaError{Reason: dec.Reason, Expired: dec.Expired}
		}
	}

	if o.analyzer == nil {
		return nil, common.ErrAnalysisKeyMissing
	}

	// Capture identity and instant before calling out.
	rec := models.Record{
		ID:        o.clock.NewID(),
		Timestamp: o.clock.Now(),
		UserInput: text,
	}

	// Analyzing. A timeout counts the same as any other analysis failure.
	actx, cancel := context.WithTimeout(ctx, o.timeout)
	result, err := o.analyzer.Analyze(actx, text)
	cancel()

	degraded := false
	if err != nil {
		log.Warn(ctx, "analysis failed, storing degraded record", "error", err)
		rec.Analysis = models.DegradedAnalysis()
		degraded = true
	} else {
		rec.Analysis = result
	}

	// Persisting. The degraded path goes straight to the local cache; the
	// normal path is remote-first with local fallback inside the coordinator.
	var persisted bool
	if degraded {
		rec = o.coord.AppendLocal(ctx, rec)
	} else {
		rec, persisted = o.coord.Append(ctx, rec)
	}

	// RecordingUsage. Quota tracks durable, analyzed submissions only.
	recorded := false
	if !degraded && persisted {
		if err := o.quota.RecordUsage(ctx, acct.ID); err != nil {
			log.Warn(ctx, "usage recording failed", "account", acct.ID, "error", err)
		} else {
			recorded = true
		}
	}

	log.Info(ctx, "submission done",
		"id", rec.ID,
		"remote", persisted,
		"degraded", degraded,
		"usage_recorded", recorded,
	)
	return &SubmitResult{
		Record:            rec,
		PersistedRemotely: persisted,
		Degraded:          degraded,
		QuotaRecorded:     recorded,
	}, nil
}
