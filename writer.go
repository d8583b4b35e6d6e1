package trailbus

import "context"

// Writer is a producer-side handle over a shared broadcast log. All handles
// obtained via Clone publish into the same log; writer identity is not
// tracked beyond being a valid publisher, so no per-writer ordering is
// promised, only the single total order assigned at publish time.
type Writer[M any] struct {
	core *core[M]
}

// New creates a broadcast log holding at most capacity pending messages and
// returns its initial Writer. Capacity is a message count, fixed for the
// lifetime of the log and shared by all writers and readers bound to it.
// New panics if capacity is not positive.
func New[M any](capacity int, opts ...Option) *Writer[M] {
	if capacity < 1 {
		panic("trailbus: capacity must be positive")
	}
	cfg := settings{obs: noopObservability{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer[M]{core: newCore[M](capacity, cfg)}
}

// Publish inserts m at the tail of the log, blocking the calling goroutine
// while the buffer is full. Only this goroutine suspends; readers and other
// writers proceed independently. Publish never drops a message.
func (w *Writer[M]) Publish(m M) {
	_ = w.core.publish(context.Background(), m, true)
}

// PublishContext is Publish with bounded waiting: if ctx is cancelled while
// the buffer is full, the message is not enqueued and the context error is
// returned.
func (w *Writer[M]) PublishContext(ctx context.Context, m M) error {
	return w.core.publish(ctx, m, true)
}

// TryPublish inserts m if a slot is free and returns ErrBusFull otherwise.
// On failure the message is not enqueued; the caller owns retry policy.
func (w *Writer[M]) TryPublish(m M) error {
	return w.core.publish(context.Background(), m, false)
}

// Clone returns an independent Writer sharing the same log. The clone is
// safe to hand to another goroutine; there is no limit on live writers.
func (w *Writer[M]) Clone() *Writer[M] {
	return &Writer[M]{core: w.core}
}

// Cap returns the log's fixed capacity.
func (w *Writer[M]) Cap() int {
	return len(w.core.buf)
}

// Stats returns a snapshot of the log's counters.
func (w *Writer[M]) Stats() Stats {
	return w.core.snapshot()
}

// AddReader registers a new reader at the current tail of w's log, wrapping
// initial as its local state. The reader observes only messages published
// after this call. State types are independent per reader; one log can host
// readers of differing types as long as each implements Applier for the
// log's message type.
func AddReader[T Applier[M], M any](w *Writer[M], initial T) *Reader[T, M] {
	return AddReaderFunc(w, initial, func(s T, m M) T {
		s.Apply(m)
		return s
	})
}

// AddReaderFunc is AddReader for state types that fold by replacement
// rather than in-place mutation: apply receives the current state and one
// message and returns the updated state.
func AddReaderFunc[T any, M any](w *Writer[M], initial T, apply func(T, M) T) *Reader[T, M] {
	if apply == nil {
		panic("trailbus: nil apply func")
	}
	return &Reader[T, M]{
		core:  w.core,
		id:    w.core.addCursor(),
		state: initial,
		apply: apply,
	}
}
