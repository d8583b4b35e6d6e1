package trailbus

import "sync/atomic"

// counters are the log's internal atomics, updated outside the core lock.
type counters struct {
	published atomic.Uint64
	rejected  atomic.Uint64
	dropped   atomic.Uint64
	drained   atomic.Uint64
}

// Stats is a point-in-time snapshot of a log's activity.
type Stats struct {
	// Published counts accepted publishes, including those discarded
	// because no reader was registered.
	Published uint64

	// Rejected counts TryPublish calls refused with ErrBusFull.
	Rejected uint64

	// Dropped counts publishes accepted while no reader was registered;
	// those messages were never buffered.
	Dropped uint64

	// Drained counts messages handed to readers, summed across readers. A
	// message delivered to three readers counts three times.
	Drained uint64

	// Buffered is the number of messages currently retained for at least
	// one reader.
	Buffered int

	// Readers is the number of currently registered readers.
	Readers int
}

func (c *core[M]) snapshot() Stats {
	c.mu.Lock()
	buffered := int(c.head - c.minSeq)
	readers := len(c.cursors)
	c.mu.Unlock()

	return Stats{
		Published: c.stats.published.Load(),
		Rejected:  c.stats.rejected.Load(),
		Dropped:   c.stats.dropped.Load(),
		Drained:   c.stats.drained.Load(),
		Buffered:  buffered,
		Readers:   readers,
	}
}
