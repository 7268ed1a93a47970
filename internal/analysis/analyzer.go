// Package analysis implements the client for the external analysis
// collaborator: a chat-completions service that turns free-text reflections
// into structured scores. Any failure — transport, non-2xx, empty or
// malformed content — is one failure class; the caller degrades to a
// placeholder record instead of retrying.
package analysis

import (
	"context"

	"github.com/mindscale/mindscale/internal/models"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.Analysis, error)
}
