package models

import "time"

// ActionRecord is a single entry of the action log.
type ActionRecord struct {
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Action     string    `json:"action"`
	Status     string    `json:"status"` // DECLINED | REJECTED | SUCCEEDED | FAILED
	Message    string    `json:"message"`
	SessionID  string    `json:"session_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
}
