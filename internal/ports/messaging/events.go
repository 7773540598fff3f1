package messaging

import "time"

// ReminderRunEvent is the JSON payload sent via SQS to the reminder queue.
type ReminderRunEvent struct {
	RunID        string    `json:"runId"`
	LookbackDays int       `json:"lookbackDays"`
	RequestedAt  time.Time `json:"requestedAt"`
	Trigger      string    `json:"trigger"`
}
