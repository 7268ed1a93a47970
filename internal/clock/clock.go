// Package clock supplies timestamps and locally-unique identifiers for
// records created before a remote identifier exists.
package clock

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time and id generation so tests can pin both.
type Clock interface {
	// Now returns the submission instant in the local zone, preserving the
	// UTC offset the user submitted under.
	Now() time.Time

	// NewID returns a locally-unique, time-based record identifier. Used
	// until (unless) the remote store assigns its own.
	NewID() string

	// TraceID returns a random identifier for correlating log lines of a
	// single submission.
	TraceID() string
}

type systemClock struct {
	mu   sync.Mutex
	last int64
}

func New() Clock {
	return &systemClock{}
}

func (c *systemClock) Now() time.Time {
	return time.Now()
}

// NewID is millisecond-based; consecutive calls within the same millisecond
// are bumped so ids never repeat within the process.
func (c *systemClock) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10)
}

func (c *systemClock) TraceID() string {
	return uuid.NewString()
}
