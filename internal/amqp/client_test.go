package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestNewExpenseEvent(t *testing.T) {
	event := NewExpenseEvent(ActionCreated, 42, 7)

	if event.Action != ActionCreated {
		t.Errorf("Action = %v, want %v", event.Action, ActionCreated)
	}
	if event.ID != 42 {
		t.Errorf("ID = %v, want 42", event.ID)
	}
	if event.UserID != 7 {
		t.Errorf("UserID = %v, want 7", event.UserID)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestExpenseEventJSON(t *testing.T) {
	timestamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := &ExpenseEvent{
		Action:    ActionUpdated,
		ID:        12345,
		UserID:    9,
		Timestamp: timestamp,
	}

	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := ExpenseEventFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ExpenseEventFromJSON() error = %v", err)
	}

	if parsed.Action != event.Action {
		t.Errorf("Parsed Action = %v, want %v", parsed.Action, event.Action)
	}
	if parsed.ID != event.ID {
		t.Errorf("Parsed ID = %v, want %v", parsed.ID, event.ID)
	}
	if parsed.UserID != event.UserID {
		t.Errorf("Parsed UserID = %v, want %v", parsed.UserID, event.UserID)
	}
	if !parsed.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, event.Timestamp)
	}
}

func TestExpenseEventFromJSONRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"malformed json", []byte(`{"id": "not_a_number"}`)},
		{"unknown action", []byte(`{"action":"expense.archived","id":1,"userId":2}`)},
		{"missing action", []byte(`{"id":1,"userId":2}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExpenseEventFromJSON(tt.data); err == nil {
				t.Error("ExpenseEventFromJSON() should fail")
			}
		})
	}
}

// fakeAcknowledger records the ack/nack decision taken for a delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func deliver(body []byte) (amqp091.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp091.Delivery{Acknowledger: ack, Body: body}, ack
}

func TestDispatchEventsAcksHandled(t *testing.T) {
	event := NewExpenseEvent(ActionCreated, 42, 7)
	body, err := event.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	delivery, ack := deliver(body)

	msgs := make(chan amqp091.Delivery, 1)
	msgs <- delivery

	ctx, cancel := context.WithCancel(context.Background())
	var got *ExpenseEvent
	err = dispatchEvents(ctx, msgs, func(e *ExpenseEvent) error {
		got = e
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if got == nil || got.ID != 42 || got.Action != ActionCreated {
		t.Fatalf("handler saw %+v", got)
	}
	if !ack.acked || ack.nacked {
		t.Errorf("handled event should be acked, got %+v", ack)
	}
}

func TestDispatchEventsRejectsMalformedWithoutRequeue(t *testing.T) {
	delivery, ack := deliver([]byte(`{"action":"bogus"}`))

	msgs := make(chan amqp091.Delivery, 1)
	msgs <- delivery
	close(msgs)

	err := dispatchEvents(context.Background(), msgs, func(e *ExpenseEvent) error {
		t.Error("handler should not see a malformed event")
		return nil
	})
	if err == nil {
		t.Fatal("closed channel should end consumption with an error")
	}
	if !ack.nacked || ack.requeue {
		t.Errorf("malformed event should be nacked without requeue, got %+v", ack)
	}
}

func TestDispatchEventsRequeuesHandlerFailures(t *testing.T) {
	event := NewExpenseEvent(ActionDeleted, 1, 2)
	body, err := event.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	delivery, ack := deliver(body)

	msgs := make(chan amqp091.Delivery, 1)
	msgs <- delivery
	close(msgs)

	_ = dispatchEvents(context.Background(), msgs, func(e *ExpenseEvent) error {
		return errors.New("downstream unavailable")
	})

	if !ack.nacked || !ack.requeue {
		t.Errorf("handler failure should nack with requeue, got %+v", ack)
	}
	if ack.acked {
		t.Error("failed event must not be acked")
	}
}

func TestNilClientPublishIsNoop(t *testing.T) {
	var client *Client
	if err := client.PublishExpenseEvent(context.Background(), ActionDeleted, 1, 2); err != nil {
		t.Errorf("nil client publish should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("nil client close should be a no-op, got %v", err)
	}
}
