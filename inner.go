package amb

// inner observes a single source on behalf of a coordinator. Its methods
// are only ever called from that source's emitting goroutine, one at a
// time, so won needs no synchronization.
type inner[T any] struct {
	parent     *coordinator[T]
	downstream Observer[T]
	index      int32

	won      bool
	upstream handleSlot
}

func (in *inner[T]) OnSubscribe(d Disposable) {
	in.upstream.setOnce(d)
}

func (in *inner[T]) OnNext(v T) {
	if in.won || in.claim() {
		in.downstream.OnNext(v)
		return
	}
	in.lose()
}

func (in *inner[T]) OnError(err error) {
	if in.won || in.claim() {
		in.downstream.OnError(err)
		return
	}
	in.lose()
	in.parent.undeliverable(in.index, err)
}

func (in *inner[T]) OnComplete() {
	if in.won || in.claim() {
		in.downstream.OnComplete()
		return
	}
	in.lose()
}

func (in *inner[T]) claim() bool {
	if in.parent.win(in.index) {
		in.won = true
		return true
	}
	return false
}

func (in *inner[T]) lose() {
	in.upstream.dispose()
	in.parent.reject(in.index)
}

func (in *inner[T]) dispose() {
	in.upstream.dispose()
}
