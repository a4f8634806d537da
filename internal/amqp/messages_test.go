package amqp

import (
	"context"
	"testing"
)

func TestNotificationMessageRoundTrip(t *testing.T) {
	msg, err := NewNotificationMessage(ActionSchedule)
	if err != nil {
		t.Fatalf("NewNotificationMessage: %v", err)
	}
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := NotificationMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Action != ActionSchedule || !got.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}
}

func TestNewNotificationMessageRejectsUnknownAction(t *testing.T) {
	if _, err := NewNotificationMessage("snooze"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestNotificationMessageFromInvalidJSON(t *testing.T) {
	if _, err := NotificationMessageFromJSON([]byte("{")); err == nil {
		t.Fatal("expected error")
	}
}

func TestPublishRejectsUnknownActionBeforeNetwork(t *testing.T) {
	c := &Client{}
	if err := c.PublishNotification(context.Background(), "snooze"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	if err := (&Client{}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
