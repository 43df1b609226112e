package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangeMessage tells the worker that records for one user and month
// changed. It carries only the coordinates: the worker reloads whatever it
// needs from the store.
type RecordChangeMessage struct {
	UserID     string    `json:"user_id"`
	RecordType string    `json:"record_type"`
	Period     string    `json:"period"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRecordChangeMessage creates a change message for a user, type, and period
func NewRecordChangeMessage(userID, recordType, period string) *RecordChangeMessage {
	return &RecordChangeMessage{
		UserID:     userID,
		RecordType: recordType,
		Period:     period,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON creates a message from JSON bytes
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
