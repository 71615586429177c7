package ws

import (
	"sort"
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 500
	defaultBufferMaxAge = 30 * time.Minute
)

// sessionLog is the replay window of one session, ordered by event ID.
type sessionLog struct {
	events []Event
}

// trim drops events older than cutoff and keeps at most maxLen of the newest.
func (l *sessionLog) trim(cutoff time.Time, maxLen int) {
	i := sort.Search(len(l.events), func(i int) bool { return !l.events[i].Time.Before(cutoff) })
	if n := len(l.events) - maxLen; n > i {
		i = n
	}

	if i > 0 {
		l.events = append(l.events[:0:0], l.events[i:]...)
	}
}

// EventBuffer keeps a bounded, time-limited window of recent events for each
// session so a reconnecting watcher can resume from its last seen ID.
type EventBuffer struct {
	mu     sync.RWMutex
	logs   map[string]*sessionLog
	maxAge time.Duration
	maxLen int
	stop   chan struct{}
}

// NewEventBuffer creates an EventBuffer and starts a sweeper that forgets
// sessions whose newest event has aged out.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	eb := &EventBuffer{
		logs:   make(map[string]*sessionLog),
		maxAge: maxAge,
		maxLen: maxLen,
		stop:   make(chan struct{}),
	}

	go eb.sweep(sweepInterval(maxAge))

	return eb
}

func sweepInterval(maxAge time.Duration) time.Duration {
	d := maxAge / 3
	if d < time.Second {
		d = time.Second
	}

	return d
}

// Stop halts the sweeper.
func (eb *EventBuffer) Stop() {
	close(eb.stop)
}

func (eb *EventBuffer) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stop:
			return
		case now := <-ticker.C:
			eb.forgetIdle(now.Add(-eb.maxAge))
		}
	}
}

func (eb *EventBuffer) forgetIdle(cutoff time.Time) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for id, l := range eb.logs {
		if len(l.events) == 0 || l.events[len(l.events)-1].Time.Before(cutoff) {
			delete(eb.logs, id)
		}
	}
}

// Append records an event. Events must arrive in ID order per session, which
// the hub's sequence guarantees.
func (eb *EventBuffer) Append(sessionID string, event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	l, ok := eb.logs[sessionID]
	if !ok {
		l = &sessionLog{}
		eb.logs[sessionID] = l
	}

	l.events = append(l.events, *event)
	l.trim(time.Now().Add(-eb.maxAge), eb.maxLen)
}

// Since returns a copy of the session's events with ID > lastEventID, or nil
// when there are none.
func (eb *EventBuffer) Since(sessionID string, lastEventID uint64) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	l, ok := eb.logs[sessionID]
	if !ok {
		return nil
	}

	i := sort.Search(len(l.events), func(i int) bool { return l.events[i].ID > lastEventID })
	if i == len(l.events) {
		return nil
	}

	return append([]Event(nil), l.events[i:]...)
}

// Drop discards every buffered event of a session.
func (eb *EventBuffer) Drop(sessionID string) {
	eb.mu.Lock()
	delete(eb.logs, sessionID)
	eb.mu.Unlock()
}

// OldestID returns the oldest replayable event ID of a session, or 0.
func (eb *EventBuffer) OldestID(sessionID string) uint64 {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	l, ok := eb.logs[sessionID]
	if !ok || len(l.events) == 0 {
		return 0
	}

	return l.events[0].ID
}
