package mqtt

import (
	"errors"
	"log"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// ErrQueueFull is returned when the async queue cannot take another message.
var ErrQueueFull = errors.New("mqtt: publish queue full")

type job struct {
	event  logic.Event
	at     time.Time
	system *SystemEvent
}

// AsyncPublisher hands messages to a background goroutine so callers on the
// tick path never wait on the network.
type AsyncPublisher struct {
	next  Publisher
	queue chan job
	done  chan struct{}
}

// NewAsyncPublisher starts a worker publishing through next.
func NewAsyncPublisher(next Publisher, depth int) *AsyncPublisher {
	a := &AsyncPublisher{
		next:  next,
		queue: make(chan job, depth),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish queues a clock event.
func (a *AsyncPublisher) Publish(event logic.Event, at time.Time) error {
	return a.enqueue(job{event: event, at: at})
}

// PublishSystem queues a system event.
func (a *AsyncPublisher) PublishSystem(event SystemEvent) error {
	return a.enqueue(job{system: &event})
}

// IsConnected reports the wrapped publisher's connection state, or false if
// it does not expose one.
func (a *AsyncPublisher) IsConnected() bool {
	if cs, ok := a.next.(ConnectionStatus); ok {
		return cs.IsConnected()
	}
	return false
}

// Close publishes everything still queued, then closes the wrapped publisher.
// No Publish calls may follow.
func (a *AsyncPublisher) Close() error {
	close(a.queue)
	<-a.done
	return a.next.Close()
}

func (a *AsyncPublisher) enqueue(j job) error {
	select {
	case a.queue <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *AsyncPublisher) run() {
	defer close(a.done)
	for j := range a.queue {
		if j.system != nil {
			if err := a.next.PublishSystem(*j.system); err != nil {
				log.Printf("mqtt: publish system %s: %v", j.system.Event, err)
			}
			continue
		}
		if err := a.next.Publish(j.event, j.at); err != nil {
			log.Printf("mqtt: publish %s: %v", j.event.Type, err)
		}
	}
}
