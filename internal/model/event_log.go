package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType identifies which device operation produced an audit entry.
type EventType string

const (
	EventTypeAddUser       EventType = "ADD_USER"
	EventTypeHandleRequest EventType = "HANDLE_REQUEST"
)

// EventStatus is the recorded outcome of a device request.
type EventStatus string

const (
	EventStatusSuccess EventStatus = "Success"
	EventStatusFailed  EventStatus = "Failed"
)

// EventLog represents one audit entry for a device request.
// All requests are logged regardless of success or failure, and entries are
// never updated or deleted afterwards. UserID stays nil when the request
// could not be tied to an enrolled user; RFIDCode and FingerprintID hold the
// raw values the device submitted, not the enrolled ones.
type EventLog struct {
	ID            uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	EventType     EventType   `json:"event_type" gorm:"type:varchar(50);not null;index"`
	UserID        *uint       `json:"user_id,omitempty" gorm:"index"`
	RFIDCode      string      `json:"rfid_code,omitempty" gorm:"size:255"`
	FingerprintID *int64      `json:"fingerprint_id,omitempty"`
	Status        EventStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Message       string      `json:"message,omitempty" gorm:"type:text"`
	CreatedAt     time.Time   `json:"created_at"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (e *EventLog) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
