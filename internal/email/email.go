// Package email turns booking events into customer notifications. Delivery
// is a structured log entry; no mail server is contacted.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Domenick1991/airfare/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	log  *slog.Logger
	sent atomic.Int64
}

type Option func(*Sender)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		s.log = l
	}
}

func NewSender(opts ...Option) *Sender {
	s := &Sender{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "email")
	return s
}

// Compose renders the notification for event. It reports false when the
// event has no recipient or is not customer facing.
func Compose(event kafka.BookingEvent) (Message, bool) {
	if event.PassengerContact == "" {
		return Message{}, false
	}
	msg := Message{To: event.PassengerContact}
	greeting := "Hello"
	if event.PassengerName != "" {
		greeting += " " + event.PassengerName
	}

	switch event.Type {
	case kafka.EventBookingReserved:
		msg.Subject = fmt.Sprintf("Seats held on flight %d", event.FlightID)
		msg.Body = fmt.Sprintf("%s, %d seat(s) are held for you at %s.", greeting, event.Seats, amount(event.PriceCents))
		if event.HoldExpiresAt != nil {
			msg.Body += fmt.Sprintf(" Confirm before %s.", event.HoldExpiresAt.UTC().Format("15:04 MST"))
		}
	case kafka.EventBookingConfirmed:
		msg.Subject = fmt.Sprintf("Booking %s confirmed", event.Reference)
		msg.Body = fmt.Sprintf("%s, your booking %s for %d seat(s) is confirmed. Paid %s.",
			greeting, event.Reference, event.Seats, amount(event.PriceCents))
	case kafka.EventBookingCancelled:
		msg.Subject = fmt.Sprintf("Booking %d cancelled", event.BookingID)
		msg.Body = fmt.Sprintf("%s, your booking on flight %d was cancelled.", greeting, event.FlightID)
		if event.RefundAmountCents > 0 {
			msg.Body += fmt.Sprintf(" A refund of %s is on its way.", amount(event.RefundAmountCents))
		}
	case kafka.EventBookingExpired:
		msg.Subject = fmt.Sprintf("Hold on flight %d expired", event.FlightID)
		msg.Body = fmt.Sprintf("%s, your hold of %d seat(s) has expired.", greeting, event.Seats)
	default:
		return Message{}, false
	}
	return msg, true
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, ok := Compose(event)
	if !ok {
		s.log.DebugContext(ctx, "no notification for event", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	s.sent.Add(1)
	s.log.InfoContext(ctx, "notification sent",
		"to", msg.To,
		"subject", msg.Subject,
		"booking_id", event.BookingID,
		"event_id", event.EventID,
	)
	return nil
}

// Handle decodes a notifications topic message and sends it. Undecodable
// messages are logged and skipped so the consumer keeps moving.
func (s *Sender) Handle(ctx context.Context, msg kafkago.Message) error {
	var event kafka.BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		s.log.WarnContext(ctx, "decode notification", "offset", msg.Offset, "error", err)
		return nil
	}
	return s.Send(ctx, event)
}

// Sent returns the number of delivered notifications.
func (s *Sender) Sent() int64 {
	return s.sent.Load()
}

func amount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
