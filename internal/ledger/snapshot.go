package ledger

import (
	"sync/atomic"
	"time"
)

// Snapshot is one immutable view of the event ledger. A request holds a
// single snapshot for its whole lifetime; concurrent swaps never affect it.
type Snapshot struct {
	events   []ChangeEvent
	loadedAt time.Time
}

// NewSnapshot copies events into an immutable snapshot.
func NewSnapshot(events []ChangeEvent) *Snapshot {
	copied := make([]ChangeEvent, len(events))
	copy(copied, events)
	return &Snapshot{events: copied, loadedAt: time.Now()}
}

// Events returns the snapshot's events. Callers must treat the slice as
// read-only; the snapshot is shared between requests.
func (s *Snapshot) Events() []ChangeEvent {
	return s.events
}

// Len returns the number of events in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.events)
}

// Earliest returns the earliest event date. ok is false for an empty ledger.
func (s *Snapshot) Earliest() (time.Time, bool) {
	if len(s.events) == 0 {
		return time.Time{}, false
	}
	earliest := s.events[0].Date
	for _, e := range s.events[1:] {
		if e.Date.Before(earliest) {
			earliest = e.Date
		}
	}
	return earliest, true
}

// LoadedAt reports when this snapshot was constructed.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Ledger publishes the current snapshot and serializes replacements. Readers
// call Snapshot once per request; Replace swaps the whole snapshot atomically.
type Ledger struct {
	current atomic.Pointer[Snapshot]
}

// New creates a ledger publishing the given initial snapshot.
func New(initial *Snapshot) *Ledger {
	l := &Ledger{}
	l.current.Store(initial)
	return l
}

// Snapshot returns the current snapshot. Never nil after New.
func (l *Ledger) Snapshot() *Snapshot {
	return l.current.Load()
}

// Replace atomically publishes a new snapshot. In-flight readers keep the
// snapshot they already hold.
func (l *Ledger) Replace(next *Snapshot) {
	l.current.Store(next)
}
