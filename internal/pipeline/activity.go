package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultActivityLimit bounds how many entries the log keeps in memory.
const DefaultActivityLimit = 500

// Activity is one step recorded by the pipeline.
type Activity struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Step    string    `json:"step"`
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
}

// ActivityLog is the in-memory, append-only trail the admin console shows
// after a publish. Oldest entries are dropped past the limit.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []Activity
	limit   int
	now     func() time.Time
}

// NewActivityLog creates an activity log. limit <= 0 uses DefaultActivityLimit.
func NewActivityLog(limit int) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return &ActivityLog{limit: limit, now: time.Now}
}

// Record appends an entry and returns it.
func (l *ActivityLog) Record(step string, ok bool, message string) Activity {
	a := Activity{
		ID:      uuid.New().String(),
		Time:    l.now().UTC(),
		Step:    step,
		OK:      ok,
		Message: message,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append([]Activity(nil), l.entries[over:]...)
	}
	return a
}

// Entries returns a copy of the log, oldest first.
func (l *ActivityLog) Entries() []Activity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Activity, len(l.entries))
	copy(out, l.entries)
	return out
}
