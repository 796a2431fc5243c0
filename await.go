package amb

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Collect subscribes to src and blocks until it terminates, returning
// every value it emitted and its error, if any.
//
// If ctx is cancelled first, the subscription is disposed and Collect
// returns the values received so far together with ctx.Err(). A source
// that has already terminated always reports its own result, even when
// ctx is done by the time Collect looks at it.
func Collect[T any](ctx context.Context, src Source[T]) ([]T, error) {
	c := &collector[T]{done: make(chan struct{})}
	src.Subscribe(c)

	select {
	case <-c.done:
		return c.values, c.err
	default:
	}

	select {
	case <-c.done:
		return c.values, c.err
	case <-ctx.Done():
	}

	c.mu.Lock()
	if c.terminated {
		values, err := c.values, c.err
		c.mu.Unlock()
		return values, err
	}
	c.stopped = true
	out := make([]T, len(c.values))
	copy(out, c.values)
	c.mu.Unlock()

	c.Dispose()
	return out, ctx.Err()
}

type collector[T any] struct {
	upstream handleSlot
	done     chan struct{}
	once     sync.Once

	mu         sync.Mutex
	stopped    bool
	terminated bool
	values     []T
	err        error
}

func (c *collector[T]) OnSubscribe(d Disposable) {
	c.upstream.setOnce(d)
}

func (c *collector[T]) OnNext(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.values = append(c.values, v)
	}
}

func (c *collector[T]) OnError(err error) {
	c.finish(err)
}

func (c *collector[T]) OnComplete() {
	c.finish(nil)
}

func (c *collector[T]) finish(err error) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.terminated = true
	c.err = err
	c.mu.Unlock()

	c.upstream.release()
	c.once.Do(func() { close(c.done) })
}

func (c *collector[T]) Dispose() {
	c.upstream.dispose()
}

func (c *collector[T]) IsDisposed() bool {
	return c.upstream.isDisposed()
}

// Race runs all tasks concurrently and returns the outcome of the first
// task to finish, whether it succeeded or failed. The contexts of the
// remaining tasks are cancelled as soon as the first one returns, and
// their results are discarded; an error from one of them is reported
// through the undeliverable-error handler.
//
// If ctx is cancelled before any task finishes, Race returns ctx.Err().
//
// If tasks is empty, Race returns (zero, nil).
//
// Race panics if any element of tasks is nil.
func Race[T any](
	ctx context.Context,
	tasks ...func(context.Context) (T, error),
) (T, error) {
	var zero T
	if len(tasks) == 0 {
		return zero, nil
	}

	sources := make([]Source[T], len(tasks))
	for i, fn := range tasks {
		if fn == nil {
			panic(fmt.Sprintf("amb: Race task[%d] must not be nil", i))
		}
		sources[i] = fromFunc[T](ctx, func(ctx context.Context, emit func(T)) error {
			v, err := fn(ctx)
			if err != nil {
				return err
			}
			emit(v)
			return nil
		})
	}

	// Losers are cancelled through their context, so a context.Canceled
	// from one of them is expected and not worth reporting.
	race := AmbSlice(sources, WithErrorHandler(func(err error) {
		if !errors.Is(err, context.Canceled) {
			ReportUndeliverable(err)
		}
	}))

	values, err := Collect(ctx, race)
	if err != nil {
		return zero, err
	}
	if len(values) == 0 {
		return zero, nil
	}
	return values[0], nil
}
