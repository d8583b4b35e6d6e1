package trailbus

import (
	"context"
	"sync"
)

// core is the shared broadcast log: a bounded ring buffer of pending
// messages plus the registry of reader cursors. All writer and reader
// handles bound to one log share a single core.
//
// Sequence numbers are global and monotonic. head is the sequence the next
// published message will receive; each cursor holds the sequence of the next
// message it has yet to observe; minSeq is the oldest sequence still
// retained. A slot is reclaimed only once every live cursor has passed it,
// so the retained window is always head-minSeq and the log is full when that
// window reaches capacity.
type core[M any] struct {
	mu      sync.Mutex
	buf     []M               // ring storage, len(buf) == capacity
	head    uint64            // next sequence to assign
	minSeq  uint64            // oldest retained sequence
	cursors map[uint64]uint64 // cursor id -> next sequence to deliver
	nextID  uint64
	space   chan struct{} // closed and replaced whenever slots free up

	obs   Observability
	stats counters
}

func newCore[M any](capacity int, cfg settings) *core[M] {
	return &core[M]{
		buf:     make([]M, capacity),
		cursors: make(map[uint64]uint64),
		space:   make(chan struct{}),
		obs:     cfg.obs,
	}
}

func (c *core[M]) capacity() uint64 { return uint64(len(c.buf)) }

// publish inserts m at the tail of the log. Blocking and non-blocking
// publishes share this one insert routine; they differ only in what happens
// while the buffer is full.
func (c *core[M]) publish(ctx context.Context, m M, block bool) error {
	ctx = c.obs.OnPublishStart(ctx)

	c.mu.Lock()
	for {
		if len(c.cursors) == 0 {
			// No registered readers. Joins are non-retroactive, so
			// nobody could ever observe this message; buffering it
			// would only pin a slot. Accept and discard.
			c.mu.Unlock()
			c.stats.published.Add(1)
			c.stats.dropped.Add(1)
			c.obs.OnPublishComplete(ctx, nil)
			return nil
		}

		if c.head-c.minSeq < c.capacity() {
			c.buf[c.head%c.capacity()] = m
			c.head++
			c.mu.Unlock()
			c.stats.published.Add(1)
			c.obs.OnPublishComplete(ctx, nil)
			return nil
		}

		if !block {
			c.mu.Unlock()
			c.stats.rejected.Add(1)
			c.obs.OnPublishComplete(ctx, ErrBusFull)
			return ErrBusFull
		}

		// Full: wait for a reader to drain or deregister, then retry.
		space := c.space
		c.mu.Unlock()
		select {
		case <-space:
		case <-ctx.Done():
			c.obs.OnPublishComplete(ctx, ctx.Err())
			return ctx.Err()
		}
		c.mu.Lock()
	}
}

// addCursor registers a new reader at the current tail and returns its id.
// The reader observes only messages published after this call.
func (c *core[M]) addCursor() uint64 {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.cursors[id] = c.head
	if len(c.cursors) == 1 {
		c.minSeq = c.head
	}
	total := len(c.cursors)
	c.mu.Unlock()

	c.obs.OnReaderAdded(total)
	return id
}

// removeCursor deregisters a reader. Slots that were retained only for it
// become reclaimable, which may wake blocked publishers.
func (c *core[M]) removeCursor(id uint64) {
	c.mu.Lock()
	if _, ok := c.cursors[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.cursors, id)
	c.reclaim()
	total := len(c.cursors)
	c.mu.Unlock()

	c.obs.OnReaderRemoved(total)
}

// drain returns and marks consumed all messages pending for the cursor, in
// publish order, up to max (0 means no limit). It never blocks; an empty
// result means the reader is caught up.
func (c *core[M]) drain(id uint64, max int) []M {
	c.mu.Lock()
	pos := c.cursors[id]
	n := int(c.head - pos)
	if max > 0 && n > max {
		n = max
	}
	if n == 0 {
		c.mu.Unlock()
		return nil
	}
	out := make([]M, n)
	for i := range out {
		out[i] = c.buf[(pos+uint64(i))%c.capacity()]
	}
	c.cursors[id] = pos + uint64(n)
	c.reclaim()
	c.mu.Unlock()

	c.stats.drained.Add(uint64(n))
	c.obs.OnDrain(n)
	return out
}

// lag reports how many published messages the cursor has not yet observed.
func (c *core[M]) lag(id uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.head - c.cursors[id])
}

// reclaim is called with c.mu held after a cursor advances or leaves. It
// zeroes slots every live cursor has passed (releasing references held by
// evicted messages) and wakes blocked publishers when space frees. With no
// cursors left the whole window is reclaimed.
func (c *core[M]) reclaim() {
	min := c.head
	for _, pos := range c.cursors {
		if pos < min {
			min = pos
		}
	}
	if min == c.minSeq {
		return
	}
	var zero M
	for s := c.minSeq; s < min; s++ {
		c.buf[s%c.capacity()] = zero
	}
	c.minSeq = min
	close(c.space)
	c.space = make(chan struct{})
}
