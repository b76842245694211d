package model

import "time"

// User represents a patient enrolled on one of the dispensing devices.
// The RFID badge and the fingerprint slot programmed into the reader must
// belong to the same person; a dispense requires both to agree.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name,omitempty" gorm:"size:100"` // Optional, devices usually enroll without it
	RFIDCode      string    `json:"rfid_code" gorm:"uniqueIndex;size:255;not null"`
	FingerprintID int64     `json:"fingerprint_id" gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
