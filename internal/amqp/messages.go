package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// LedgerEventMessage tells the report worker that a user's ledger changed.
// It carries only the coordinates of the affected monthly report; the worker
// recomputes the report from storage.
type LedgerEventMessage struct {
	UserID        int64     `json:"user_id"`
	TransactionID int64     `json:"transaction_id"`
	Action        string    `json:"action"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEventMessage builds an event for one transaction's report month.
func NewLedgerEventMessage(userID, transactionID int64, action string, createdOn time.Time) *LedgerEventMessage {
	return &LedgerEventMessage{
		UserID:        userID,
		TransactionID: transactionID,
		Action:        action,
		Year:          createdOn.UTC().Year(),
		Month:         int(createdOn.UTC().Month()),
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
