package notify

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/metrics"
)

type DispatcherOptions struct {
	QueueSize int
	Workers   int
	// Retries is the number of extra attempts after the first failure.
	Retries int
	// Backoff doubles after every failed attempt.
	Backoff time.Duration
	Timeout time.Duration
}

func (o *DispatcherOptions) defaults() {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
}

// Dispatcher queues messages and delivers them in the background.
type Dispatcher struct {
	sender Sender
	opts   DispatcherOptions
	log    *zap.Logger
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, opts DispatcherOptions, log *zap.Logger) *Dispatcher {
	opts.defaults()
	d := &Dispatcher{
		sender: sender,
		opts:   opts,
		log:    log,
		queue:  make(chan Message, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue never blocks. It returns false when the message was dropped
// because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- msg:
		metrics.NotificationQueueDepth.Inc()
		return true
	default:
		metrics.Notifications.WithLabelValues(string(msg.Channel), "dropped").Inc()
		d.log.Warn("notification queue full, dropping message",
			zap.String("channel", string(msg.Channel)),
			zap.String("recipient", msg.Recipient))
		return false
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		metrics.NotificationQueueDepth.Dec()
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	channel := string(msg.Channel)
	backoff := d.opts.Backoff
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
		err := d.sender.Send(ctx, msg)
		cancel()
		if err == nil {
			metrics.Notifications.WithLabelValues(channel, "sent").Inc()
			return
		}

		fields := []zap.Field{
			zap.String("channel", channel),
			zap.String("recipient", msg.Recipient),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		}
		if errors.Is(err, ErrNoRoute) || attempt >= d.opts.Retries {
			metrics.Notifications.WithLabelValues(channel, "failed").Inc()
			d.log.Error("notification failed", fields...)
			return
		}
		d.log.Warn("notification attempt failed, retrying", fields...)
		time.Sleep(backoff)
		backoff *= 2
	}
}
