package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerEventMessage(t *testing.T) {
	createdOn := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

	msg := NewLedgerEventMessage(7, 42, ActionCreated, createdOn)

	if msg.UserID != 7 {
		t.Errorf("UserID = %d, want 7", msg.UserID)
	}
	if msg.TransactionID != 42 {
		t.Errorf("TransactionID = %d, want 42", msg.TransactionID)
	}
	if msg.Action != ActionCreated {
		t.Errorf("Action = %q, want %q", msg.Action, ActionCreated)
	}
	if msg.Year != 2025 || msg.Month != 3 {
		t.Errorf("period = %d-%d, want 2025-3", msg.Year, msg.Month)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestLedgerEventMessageJSON(t *testing.T) {
	original := NewLedgerEventMessage(3, 99, ActionDeleted, time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventMessageFromJSON() error = %v", err)
	}

	if decoded.UserID != original.UserID ||
		decoded.TransactionID != original.TransactionID ||
		decoded.Action != original.Action ||
		decoded.Year != original.Year ||
		decoded.Month != original.Month {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
	if decoded.Year != 2024 || decoded.Month != 12 {
		t.Errorf("period = %d-%d, want 2024-12", decoded.Year, decoded.Month)
	}
}

func TestLedgerEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
