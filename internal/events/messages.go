package events

import (
	"encoding/json"
	"time"
)

// ExpenseEventMessage is the wire form of a store change published to the
// event bus. Consumers get enough to build a feed entry without reading
// the store.
type ExpenseEventMessage struct {
	Kind        string    `json:"kind"`
	ExpenseID   string    `json:"expense_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEventMessage stamps a message with the current time.
func NewExpenseEventMessage(kind, expenseID, category string, amountCents int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Kind:        kind,
		ExpenseID:   expenseID,
		Category:    category,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON decodes a message from JSON bytes.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
