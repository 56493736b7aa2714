package display

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/share-dashboard/internal/render"
)

// SubscriberBufferSize is the per-subscriber frame buffer.
const SubscriberBufferSize = 1

// Frame is one rendered version of the table.
type Frame struct {
	CycleID   uuid.UUID
	Table     render.Table
	HTML      string
	UpdatedAt time.Time
}

// Status summarizes the surface for health reporting.
type Status struct {
	HasFrame      bool
	Rows          int
	Alerts        int
	LastCycleID   uuid.UUID
	LastSuccessAt time.Time
	LastFailureAt time.Time
	LastError     string
	Failures      int64
}

// Surface is the thread-safe holder of the current frame.
type Surface struct {
	mu sync.RWMutex

	current  Frame
	hasFrame bool

	// Diagnostics from failed cycles; never shown in the table.
	lastFailureAt time.Time
	lastError     string
	failures      int64

	subs   map[int]chan Frame
	nextID int
}

// New creates an empty Surface.
func New() *Surface {
	return &Surface{
		subs: make(map[int]chan Frame),
	}
}

// Replace swaps in a newly rendered table and notifies subscribers.
func (s *Surface) Replace(cycleID uuid.UUID, tbl render.Table, at time.Time) Frame {
	f := Frame{
		CycleID:   cycleID,
		Table:     tbl,
		HTML:      tbl.HTML(),
		UpdatedAt: at,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = f
	s.hasFrame = true
	for _, ch := range s.subs {
		notify(ch, f)
	}
	return f
}

// RecordFailure notes a failed cycle. The current frame is left untouched.
func (s *Surface) RecordFailure(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFailureAt = at
	s.lastError = err.Error()
	s.failures++
}

// Current returns the latest frame, if any cycle has succeeded yet.
func (s *Surface) Current() (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current, s.hasFrame
}

// Status returns a summary of the surface (read-locked).
func (s *Surface) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		HasFrame:      s.hasFrame,
		LastFailureAt: s.lastFailureAt,
		LastError:     s.lastError,
		Failures:      s.failures,
	}
	if s.hasFrame {
		st.Rows = len(s.current.Table.Rows)
		st.Alerts = s.current.Table.Alerts()
		st.LastCycleID = s.current.CycleID
		st.LastSuccessAt = s.current.UpdatedAt
	}
	return st
}

// Subscribe returns a channel receiving every subsequent frame and a cancel
// func. Slow subscribers only ever see the most recent frame.
func (s *Surface) Subscribe() (<-chan Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Frame, SubscriberBufferSize)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions.
func (s *Surface) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subs)
}

// notify sends a frame to the channel (non-blocking).
func notify(ch chan Frame, f Frame) {
	select {
	case ch <- f:
	default:
		// Channel full, drop oldest by consuming one and retrying.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}
