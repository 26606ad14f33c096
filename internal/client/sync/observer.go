package sync

import (
	gosync "sync"
	"time"
)

// State is the engine's coarse lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateDraining State = "draining"
)

// Status is the snapshot pushed to subscribers whenever the engine's
// externally visible state changes.
type Status struct {
	LastSyncAt time.Time
	State      State
	LastError  string
	QueueSize  int
	Conflicts  int
	Online     bool
}

// observers is an explicit callback list with unsubscribe handles. Scoped
// to the engine's lifetime, no global event bus.
type observers struct {
	mu    gosync.Mutex
	subs  map[int]func(Status)
	next  int
	fired Status
}

func newObservers() *observers {
	return &observers{subs: make(map[int]func(Status))}
}

// subscribe registers a callback and returns its unsubscribe handle. The
// callback immediately receives the latest published status so new
// subscribers never start from a blank screen.
func (o *observers) subscribe(fn func(Status)) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	last := o.fired
	o.mu.Unlock()

	fn(last)

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// publish pushes a status snapshot to every subscriber.
func (o *observers) publish(s Status) {
	o.mu.Lock()
	o.fired = s
	fns := make([]func(Status), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
