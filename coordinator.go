package amb

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Winner slot values. A positive value is the 1-based index of the
// source that won.
const (
	slotUnset    int32 = 0
	slotDisposed int32 = -1
)

// coordinator arbitrates a race between two or more sources. It owns one
// inner observer per source and is handed to the downstream observer as
// its Disposable.
type coordinator[T any] struct {
	downstream Observer[T]
	inners     []*inner[T]
	cfg        *config
	id         uuid.UUID

	// winner moves from slotUnset to either a source index or
	// slotDisposed. Once set to an index it only changes to slotDisposed.
	winner atomic.Int32
}

func newCoordinator[T any](downstream Observer[T], n int, cfg *config) *coordinator[T] {
	c := &coordinator[T]{
		downstream: downstream,
		inners:     make([]*inner[T], n),
		cfg:        cfg,
	}
	if cfg.onEvent != nil {
		c.id = uuid.New()
	}
	return c
}

// subscribe wires every source to its inner observer. All inner
// observers exist before the first source is subscribed.
func (c *coordinator[T]) subscribe(sources []Source[T]) {
	inners := c.inners
	for i := range inners {
		inners[i] = &inner[T]{
			parent:     c,
			downstream: c.downstream,
			index:      int32(i + 1),
		}
	}
	// Publishes the populated inners slice to whichever goroutine wins.
	c.winner.Store(slotUnset)

	c.emit(EventSubscribed, -1, nil)
	c.downstream.OnSubscribe(c)

	for i, src := range sources {
		if c.winner.Load() != slotUnset {
			return
		}
		src.Subscribe(inners[i])
	}
}

// win reports whether the source with the given 1-based index owns the
// race, claiming it if nobody has yet. The first claimant disposes every
// other source.
func (c *coordinator[T]) win(index int32) bool {
	w := c.winner.Load()
	if w == slotUnset {
		if !c.winner.CompareAndSwap(slotUnset, index) {
			return false
		}
		for _, in := range c.inners {
			if in.index != index {
				in.dispose()
			}
		}
		c.emit(EventWon, int(index-1), nil)
		return true
	}
	return w == index
}

// Dispose cancels the race and every source subscription. Signals that
// arrive afterwards from sources that had not won are dropped.
func (c *coordinator[T]) Dispose() {
	if c.winner.Load() == slotDisposed {
		return
	}
	if c.winner.Swap(slotDisposed) == slotDisposed {
		return
	}
	for _, in := range c.inners {
		in.dispose()
	}
	c.emit(EventDisposed, -1, nil)
}

func (c *coordinator[T]) IsDisposed() bool {
	return c.winner.Load() == slotDisposed
}

func (c *coordinator[T]) reject(index int32) {
	c.emit(EventRejected, int(index-1), nil)
}

func (c *coordinator[T]) undeliverable(index int32, err error) {
	ue := &UndeliverableError{Source: int(index - 1), Err: err}
	c.emit(EventUndeliverable, ue.Source, err)
	c.cfg.undeliverable(ue)
}

func (c *coordinator[T]) emit(kind EventKind, source int, err error) {
	if c.cfg.onEvent == nil {
		return
	}
	c.cfg.onEvent(Event{
		Kind:         kind,
		Subscription: c.id,
		Source:       source,
		Sources:      len(c.inners),
		Err:          err,
	})
}
