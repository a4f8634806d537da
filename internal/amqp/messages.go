package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification actions published after settings changes.
const (
	ActionSchedule = "schedule"
	ActionCancel   = "cancel"
)

// NotificationMessage asks the notification service to (re)schedule or
// cancel the user's reminders.
type NotificationMessage struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewNotificationMessage(action string) (*NotificationMessage, error) {
	if action != ActionSchedule && action != ActionCancel {
		return nil, fmt.Errorf("unknown notification action %q", action)
	}
	return &NotificationMessage{Action: action, Timestamp: time.Now().UTC()}, nil
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
