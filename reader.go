package trailbus

// Reader combines a cursor into a shared broadcast log with an exclusively
// owned local state of type T. The state trails the log: it reflects only
// the messages folded in by this reader's own Update, Fresh, UpdateLimited
// or UnwrapFresh calls.
//
// A Reader belongs to one logical owner at a time. Its methods must not be
// called concurrently with each other; distinct Readers are independent.
type Reader[T, M any] struct {
	core  *core[M]
	id    uint64
	state T
	apply func(T, M) T
	done  bool
}

// Update drains all messages pending for this reader and folds each into
// the local state, in publish order. It returns the number of messages
// applied and never blocks; zero means the reader was already caught up.
// With no writers left alive, Update drains whatever was buffered and then
// keeps reporting zero — absence of writers is not a fault.
func (r *Reader[T, M]) Update() int {
	r.check()
	return r.fold(r.core.drain(r.id, 0))
}

// UpdateLimited is Update bounded to at most max messages, letting a reader
// spread a large backlog over several synchronization points. It returns the
// number applied, which is less than max only when the backlog ran out.
func (r *Reader[T, M]) UpdateLimited(max int) int {
	r.check()
	if max <= 0 {
		return 0
	}
	return r.fold(r.core.drain(r.id, max))
}

func (r *Reader[T, M]) fold(msgs []M) int {
	for _, m := range msgs {
		r.state = r.apply(r.state, m)
	}
	return len(msgs)
}

// Stale returns the local state without synchronizing. It is O(1), never
// blocks and never observes a message published after the reader's last
// Update or Fresh call.
func (r *Reader[T, M]) Stale() T {
	r.check()
	return r.state
}

// Fresh synchronizes and then returns the local state, current as of the
// moment of the call. Same cost as Update plus O(1).
func (r *Reader[T, M]) Fresh() T {
	r.Update()
	return r.state
}

// Lag reports how many published messages this reader has not yet folded
// in: the reader's current staleness depth.
func (r *Reader[T, M]) Lag() int {
	r.check()
	return r.core.lag(r.id)
}

// Unwrap deregisters the reader and returns ownership of the local state as
// it stands, without a final drain. Messages the log was retaining only for
// this reader become reclaimable, which may unblock stalled publishers.
//
// The Reader must not be used afterwards; any further call panics.
func (r *Reader[T, M]) Unwrap() T {
	r.check()
	r.done = true
	r.core.removeCursor(r.id)
	return r.state
}

// UnwrapFresh drains pending messages and then unwraps, returning the state
// current as of the moment of the call.
func (r *Reader[T, M]) UnwrapFresh() T {
	r.Update()
	return r.Unwrap()
}

func (r *Reader[T, M]) check() {
	if r.done {
		panic("trailbus: reader used after Unwrap")
	}
}
