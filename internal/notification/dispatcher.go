package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Dispatcher queues messages for a single background worker. Dispatch never
// blocks: a full queue drops the message.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	queue  chan Message

	// OnDrop is called for every dropped message.
	OnDrop func(Message)

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sender Sender, size int, log *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, size),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Warn("notification failed",
				zap.String("event", string(msg.Event)),
				zap.Uint("booking_id", msg.BookingID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil {
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping message",
			zap.String("event", string(msg.Event)),
			zap.Uint("booking_id", msg.BookingID),
		)
		if d.OnDrop != nil {
			d.OnDrop(msg)
		}
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
