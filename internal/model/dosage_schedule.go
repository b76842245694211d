package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and wire format for schedule dates.
const DateLayout = "2006-01-02"

// DosageSchedule is one user's dose for one calendar day. A user has at
// most one row per date; Consumed flips to true on the first successful
// dispense and blocks every later attempt for that day.
type DosageSchedule struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_schedules_user_date"`
	Date      time.Time       `json:"date" gorm:"type:date;not null;uniqueIndex:idx_schedules_user_date"`
	Dosage    decimal.Decimal `json:"dosage" gorm:"type:decimal(10,3);not null"`
	Consumed  bool            `json:"consumed" gorm:"not null;default:false"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
