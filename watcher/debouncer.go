package watcher

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType represents the type of filesystem event after coalescing.
type EventType int

const (
	EventWrite EventType = iota
	EventRemove
)

// Default debounce delay for coalescing rapid filesystem events.
// Transcript files are appended in bursts; 150ms balances
// responsiveness and coalescing.
const DefaultDebounceDelay = 150 * time.Millisecond

// String returns the string representation of an EventType
func (e EventType) String() string {
	switch e {
	case EventWrite:
		return "write"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// debouncer coalesces rapid filesystem events to avoid invalidating
// the same source repeatedly while it is appended to. Remove events
// are processed immediately.
type debouncer struct {
	pending   map[string]*pendingEvent
	mu        sync.Mutex
	delay     time.Duration
	onProcess func(path string, eventType EventType)
	stopping  atomic.Bool
}

type pendingEvent struct {
	path  string
	timer *time.Timer
}

func newDebouncer(delay time.Duration, onProcess func(path string, eventType EventType)) *debouncer {
	return &debouncer{
		pending:   make(map[string]*pendingEvent),
		delay:     delay,
		onProcess: onProcess,
	}
}

// Queue adds an event to the debounce queue. Remove events are
// processed immediately; write events wait for the debounce delay, and
// new events for the same path reset the timer. Returns false if the
// debouncer is stopping and the event was ignored.
func (d *debouncer) Queue(path string, eventType EventType) bool {
	if d.stopping.Load() {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping.Load() {
		return false
	}

	if eventType == EventRemove {
		if p, ok := d.pending[path]; ok {
			p.timer.Stop()
			delete(d.pending, path)
		}
		go d.onProcess(path, EventRemove)
		return true
	}

	if p, ok := d.pending[path]; ok {
		if p.timer.Reset(d.delay) {
			return true
		}
		// Timer already fired; fall through and arm a fresh one.
	}

	timer := time.AfterFunc(d.delay, func() {
		d.onTimer(path)
	})
	d.pending[path] = &pendingEvent{path: path, timer: timer}
	return true
}

func (d *debouncer) onTimer(path string) {
	d.mu.Lock()
	_, ok := d.pending[path]
	if ok {
		delete(d.pending, path)
	}
	d.mu.Unlock()

	if ok {
		d.onProcess(path, EventWrite)
	}
}

// Stop cancels all pending events and prevents new ones from being
// queued.
func (d *debouncer) Stop() {
	d.stopping.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.pending {
		p.timer.Stop()
	}
	d.pending = make(map[string]*pendingEvent)
}

// PendingCount returns the number of pending events (for testing)
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
