// Package notify delivers outbound messages to payers and promotion
// recipients. Delivery runs behind a Dispatcher so callers never wait on
// a remote gateway.
package notify

import (
	"context"

	"github.com/pkg/errors"
)

type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	// ChannelEvent carries machine-readable payment events.
	ChannelEvent Channel = "event"
)

type Message struct {
	Channel   Channel
	Recipient string
	Subject   string
	Body      string
	HTML      bool
	// Key partitions event messages; usually the payment id.
	Key string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Noop accepts and discards every message.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }

// ErrNoRoute is returned for a channel nobody registered; the dispatcher
// does not retry it.
var ErrNoRoute = errors.New("notify: no sender for channel")

// Router hands each message to the sender registered for its channel.
type Router struct {
	senders map[Channel]Sender
}

func NewRouter() *Router {
	return &Router{senders: make(map[Channel]Sender)}
}

func (r *Router) Route(ch Channel, s Sender) *Router {
	r.senders[ch] = s
	return r
}

func (r *Router) Send(ctx context.Context, msg Message) error {
	s, ok := r.senders[msg.Channel]
	if !ok {
		return errors.Wrapf(ErrNoRoute, "channel %q", msg.Channel)
	}
	return s.Send(ctx, msg)
}
