package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Expense lifecycle actions carried in event routing and payloads.
const (
	ActionCreated = "expense.created"
	ActionUpdated = "expense.updated"
	ActionDeleted = "expense.deleted"
)

// ExpenseEvent is the message published on every expense mutation. It carries
// identifiers only; consumers fetch the current row from the database, so a
// stale event never overwrites newer data.
type ExpenseEvent struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(action string, id, userID int64) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown expense event action %q", e.Action)
	}
	return &e, nil
}
