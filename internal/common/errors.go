// Package common defines sentinel errors shared across the mindscale client.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound            = errors.New("not found")
	ErrRemoteUnavailable   = errors.New("remote store unavailable")
	ErrRemoteNotConfigured = errors.New("remote store not configured")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountExpired     = errors.New("account expired")
	ErrNotAuthenticated   = errors.New("not logged in")

	// Quota errors.
	ErrQuotaExceeded = errors.New("daily limit reached")

	// Submission errors.
	ErrEmptyInput         = errors.New("empty input")
	ErrAnalysisFailed     = errors.New("analysis failed")
	ErrAnalysisKeyMissing = errors.New("analysis service key not configured")
)
