package trailbus

import "context"

// Observability receives hooks from the engine. Implementations must be safe
// for concurrent use; hooks are called outside the engine's lock.
//
// The otel subpackage provides an OpenTelemetry-backed implementation.
type Observability interface {
	// OnPublishStart is called when a publish attempt begins. The returned
	// context is threaded through to OnPublishComplete, allowing spans to
	// be carried across a blocking wait.
	OnPublishStart(ctx context.Context) context.Context

	// OnPublishComplete is called when the attempt finishes. err is nil on
	// success, ErrBusFull for a non-blocking rejection, or the context
	// error if a blocking publish was cancelled.
	OnPublishComplete(ctx context.Context, err error)

	// OnDrain is called after a reader drains pending messages.
	// count is the number of messages handed to the reader, never zero.
	OnDrain(count int)

	// OnReaderAdded and OnReaderRemoved report registry changes; total is
	// the number of registered readers after the change.
	OnReaderAdded(total int)
	OnReaderRemoved(total int)
}

// Option configures a log at construction time.
type Option func(*settings)

type settings struct {
	obs Observability
}

// WithObservability attaches an Observability implementation to the log.
func WithObservability(obs Observability) Option {
	return func(s *settings) {
		if obs != nil {
			s.obs = obs
		}
	}
}

// noopObservability is the default when no implementation is attached.
type noopObservability struct{}

func (noopObservability) OnPublishStart(ctx context.Context) context.Context { return ctx }
func (noopObservability) OnPublishComplete(context.Context, error)           {}
func (noopObservability) OnDrain(int)                                        {}
func (noopObservability) OnReaderAdded(int)                                  {}
func (noopObservability) OnReaderRemoved(int)                                {}
