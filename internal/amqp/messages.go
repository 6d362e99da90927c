package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/core"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent is the change notification published after every successful
// Store mutation. Deleted events carry only the ID.
type ExpenseEvent struct {
	Action    string        `json:"action"`
	ID        string        `json:"id"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewExpenseEvent(action string, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ID:        e.ID,
		Expense:   &e,
		Timestamp: time.Now().UTC(),
	}
}

func NewExpenseDeletedEvent(id string) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    ActionDeleted,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var event ExpenseEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
