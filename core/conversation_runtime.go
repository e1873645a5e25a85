package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/vela-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const conversationEventQueueCapacity = 64

type eventQueueItem struct {
	event    events.Event
	queuedAt time.Time
}

// conversationRuntime is the single-consumer event loop behind the
// orchestrator. Every session and device callback becomes an event posted
// here, so all conversation state mutation happens on one goroutine and no
// further locking is needed for ordering.
type conversationRuntime struct {
	handle func(events.Event)

	baseContext context.Context

	queue   chan eventQueueItem
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newConversationRuntime(ctx context.Context, handle func(events.Event)) *conversationRuntime {
	if ctx == nil {
		ctx = context.Background()
	}
	if handle == nil {
		handle = func(events.Event) {}
	}

	return &conversationRuntime{
		handle:      handle,
		baseContext: ctx,
		queue:       make(chan eventQueueItem, conversationEventQueueCapacity),
		closeCh:     make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (runtime *conversationRuntime) start() (started bool) {
	if runtime == nil || runtime.isClosed() {
		return false
	}

	runtime.startOnce.Do(func() {
		started = true
		runtime.started.Store(true)
		go func() {
			defer close(runtime.done)

			for {
				select {
				case <-runtime.closeCh:
					return
				case queuedEvent := <-runtime.queue:
					if runtime.isClosed() {
						return
					}
					runtime.processQueuedEvent(queuedEvent)
				}
			}
		}()
	})

	return started
}

func (runtime *conversationRuntime) end() {
	if runtime == nil {
		return
	}

	runtime.endOnce.Do(func() {
		close(runtime.closeCh)
	})
}

func (runtime *conversationRuntime) waitUntilEnded() {
	if runtime == nil {
		return
	}

	if runtime.started.Load() {
		<-runtime.done
	}
}

func (runtime *conversationRuntime) processQueuedEvent(queuedEvent eventQueueItem) {
	_, span := tracer.Start(runtime.baseContext, "process conversation event")
	defer span.End()

	queuedTime := time.Since(queuedEvent.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("conversation_event.queued_time", queuedTime)))
	span.SetAttributes(
		attribute.String("conversation_event.kind", string(queuedEvent.event.Kind())),
		attribute.Float64("conversation_event.queued_time", queuedTime),
		attribute.Int("conversation_event.queued_events", runtime.queuedEventCount()),
	)

	runtime.handle(queuedEvent.event)
}

func (runtime *conversationRuntime) enqueue(event events.Event) bool {
	if runtime == nil || runtime.isClosed() {
		return false
	}

	queueItem := eventQueueItem{event: event, queuedAt: time.Now()}
	select {
	case <-runtime.closeCh:
		return false
	case runtime.queue <- queueItem:
		return true
	}
}

func (runtime *conversationRuntime) isClosed() bool {
	if runtime == nil {
		return false
	}

	select {
	case <-runtime.closeCh:
		return true
	default:
		return false
	}
}

func (runtime *conversationRuntime) queuedEventCount() int {
	if runtime == nil {
		return 0
	}

	return len(runtime.queue)
}
