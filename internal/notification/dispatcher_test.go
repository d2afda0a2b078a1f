package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/models"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []Message
	err   error
	block chan struct{}
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatchDelivers(t *testing.T) {
	s := &recordingSender{}
	d := NewDispatcher(s, 10, nil)

	d.Dispatch(Message{Event: EventBookingConfirmed, BookingID: 1})
	d.Dispatch(Message{Event: EventBookingCancelled, BookingID: 1})
	d.Close()

	require.Equal(t, 2, s.count())
	assert.Equal(t, EventBookingConfirmed, s.sent[0].Event)
}

func TestSenderFailureIsSwallowed(t *testing.T) {
	s := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(s, 10, nil)

	assert.NotPanics(t, func() {
		d.Dispatch(Message{Event: EventBookingConfirmed})
		d.Close()
	})
	assert.Equal(t, 1, s.count())
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	s := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(s, 1, nil)

	var dropped int
	var mu sync.Mutex
	d.OnDrop = func(Message) {
		mu.Lock()
		dropped++
		mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			d.Dispatch(Message{BookingID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked")
	}

	close(s.block)
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, dropped, 3)
	assert.Equal(t, 5, dropped+s.count())
}

func TestNewMessage(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	b := &models.Booking{
		ID:          7,
		BookingDate: "2030-03-05",
		StartTime:   time.Date(2030, 3, 5, 15, 0, 0, 0, time.UTC),
		Customer:    models.Customer{FullName: "Ada", Email: "ada@example.com", Phone: "555", SMSConsent: true},
		Style:       models.Style{Name: "Box Braids"},
		Variation:   models.Variation{Name: "Medium"},
		Stylist:     &models.Stylist{Name: "Bea"},
	}

	msg := NewMessage(EventBookingRescheduled, b, loc)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.True(t, msg.SMSConsent)
	assert.Equal(t, "10:00", msg.Data["time"])
	assert.Equal(t, "Bea", msg.Data["stylist"])
}
