// Package notification hands booking events to the delivery collaborator.
// Delivery itself (email, SMS) happens elsewhere; failures here are logged
// and never reach the booking transaction.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

type Event string

const (
	EventBookingConfirmed   Event = "booking_confirmed"
	EventBookingRescheduled Event = "booking_rescheduled"
	EventBookingCancelled   Event = "booking_cancelled"
	EventBookingRestored    Event = "booking_restored"
)

// Message is a templated notification: the template is the event name and
// Data fills it in.
type Message struct {
	Event      Event
	BookingID  uint
	To         string
	Phone      string
	SMSConsent bool
	Data       map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewMessage snapshots what a template needs from the booking.
func NewMessage(ev Event, b *models.Booking, loc *time.Location) Message {
	data := map[string]string{
		"customer_name": b.Customer.FullName,
		"date":          b.BookingDate,
		"time":          b.StartTime.In(loc).Format("15:04"),
		"style":         b.Style.Name,
		"variation":     b.Variation.Name,
	}
	if b.Stylist != nil {
		data["stylist"] = b.Stylist.Name
	}

	return Message{
		Event:      ev,
		BookingID:  b.ID,
		To:         b.Customer.Email,
		Phone:      b.Customer.Phone,
		SMSConsent: b.Customer.SMSConsent,
		Data:       data,
	}
}

// LogSender records messages as structured log lines.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("notification",
		zap.String("event", string(msg.Event)),
		zap.Uint("booking_id", msg.BookingID),
		zap.String("to", msg.To),
		zap.Bool("sms", msg.SMSConsent && msg.Phone != ""),
		zap.Any("data", msg.Data),
	)
	return nil
}
