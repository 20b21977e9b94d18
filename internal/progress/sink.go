package progress

import "context"

// Sink consumes progress events. Implementations must honor ctx deadlines;
// the hub invokes them from a single dispatch goroutine.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Hub satisfies this interface so the
// scanner stays agnostic about how events are buffered or exported.
type Emitter interface {
	Emit(evt Event)
}
