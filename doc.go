// Package trailbus provides a synchronization primitive for trailing state:
// many independent local copies of a value kept approximately in sync with a
// shared stream of change messages, without readers ever locking against
// writers.
//
// Writers publish messages into a bounded broadcast log. Each reader owns a
// private local state and a cursor into the log; it folds pending messages
// into its state only when it chooses to synchronize. Reads are always fast,
// writes may be slow and are expected to be rare.
//
// # Core Philosophy
//
// "Readers pay for freshness only when they ask for it."
//
// A reader that never calls Update observes a frozen snapshot at zero cost.
// A reader that synchronizes often stays near the tail of the log. Two
// readers may be at arbitrarily different points in the stream at any
// instant; the only guarantee is that every reader observes the same total
// order of messages, with no gaps and no duplicates.
//
// # Basic Usage
//
//	type Counter struct{ N int }
//
//	func (c *Counter) Apply(delta int) { c.N += delta }
//
//	w := trailbus.New[int](64)
//	r := trailbus.AddReader(w, &Counter{})
//
//	w.Publish(2)
//	w.Publish(3)
//
//	r.Stale().N // still 0, no synchronization yet
//	r.Fresh().N // 5
//
// Plain value types can use the fold-function variant instead of
// implementing Applier:
//
//	r := trailbus.AddReaderFunc(w, []uint32(nil),
//	    func(s []uint32, m uint32) []uint32 { return append(s, m) })
//
// # Writers and Readers
//
// Writer handles are cheap references to the shared log. Clone produces an
// independent handle that may be moved to another goroutine; there is no
// per-writer ordering, only the single total order assigned at publish time.
// Readers join at the current tail (joining is non-retroactive) and leave
// either by being garbage collected together with the log or explicitly via
// Unwrap, which returns ownership of the local state.
//
// Publish blocks while the buffer is full; TryPublish returns ErrBusFull
// instead. The buffer is full when some reader has fallen a full capacity
// behind, so a single absent reader can stall blocking publishers until it
// drains or unwraps. When no readers are registered at all the log accepts
// and discards messages, since a later reader could never observe them
// anyway.
//
// # Thread Safety
//
// All Writer methods are safe for concurrent use, as are operations on
// distinct Readers. A single Reader is owned by one logical goroutine at a
// time: its methods must not be called concurrently with each other, and its
// local state is never touched by the engine outside those calls.
package trailbus
