package trailbus

import "errors"

// ErrBusFull is returned by TryPublish when the log has no free slot.
// The message is not enqueued; retry policy belongs to the caller.
var ErrBusFull = errors.New("trailbus: buffer full")
