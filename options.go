package amb

import (
	"fmt"

	"github.com/google/uuid"
)

// EventKind identifies a lifecycle event of a race.
type EventKind int

const (
	// EventSubscribed is emitted once the coordinator has been handed to
	// the downstream observer, before any source is subscribed.
	EventSubscribed EventKind = iota

	// EventWon is emitted when a source's first signal wins the race.
	EventWon

	// EventRejected is emitted for every signal dropped because its
	// source did not win.
	EventRejected

	// EventDisposed is emitted when the downstream observer disposes the race.
	EventDisposed

	// EventUndeliverable is emitted when a losing source's error is routed
	// to the undeliverable-error handler.
	EventUndeliverable
)

func (k EventKind) String() string {
	switch k {
	case EventSubscribed:
		return "subscribed"
	case EventWon:
		return "won"
	case EventRejected:
		return "rejected"
	case EventDisposed:
		return "disposed"
	case EventUndeliverable:
		return "undeliverable"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a state change of one race subscription. It is passed
// to the hook registered via [WithOnEvent].
type Event struct {
	Kind EventKind

	// Subscription identifies the race subscription that emitted the event.
	Subscription uuid.UUID

	// Source is the index of the source involved, or -1 for events that
	// concern the race as a whole.
	Source int

	// Sources is the number of sources taking part in the race.
	Sources int

	// Err is set for EventUndeliverable.
	Err error
}

type config struct {
	onEvent func(Event)

	// errHandlerSet distinguishes an explicit nil handler (drop) from
	// "use the process-wide handler".
	errHandlerSet bool
	errHandler    func(error)
}

// Option configures a race built with [AmbSlice] or [AmbSeq].
type Option func(*config)

func defaultConfig() config {
	return config{}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("amb: nil option")
		}
		opt(&cfg)
	}
	return cfg
}

// WithOnEvent registers a hook invoked for every [Event] of the race.
// The hook runs synchronously on whichever goroutine triggered the event
// and may be called concurrently; it must not block.
func WithOnEvent(fn func(Event)) Option {
	return func(c *config) {
		c.onEvent = fn
	}
}

// WithErrorHandler overrides the process-wide undeliverable-error handler
// for errors produced by sources that lost this race. A nil fn drops
// such errors silently.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.errHandlerSet = true
		c.errHandler = fn
	}
}

func (c *config) undeliverable(err error) {
	if c.errHandlerSet {
		if c.errHandler == nil {
			return
		}
		deliverUndeliverable(c.errHandler, err)
		return
	}
	ReportUndeliverable(err)
}
