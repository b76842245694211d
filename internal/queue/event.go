package queue

import "time"

// DispenseRecordedEvent is published after a dose is successfully
// dispensed. Consumers use it for caregiver notifications and refill
// planning; the authoritative record stays in the event log table.
type DispenseRecordedEvent struct {
	UserID      uint      `json:"user_id"`
	RFIDCode    string    `json:"rfid_code"`
	Date        string    `json:"date"`
	Dosage      float64   `json:"dosage"`
	DispensedAt time.Time `json:"dispensed_at"`
}
