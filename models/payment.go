package models

import "time"

const (
	PaymentTypeAccommodation = "accommodation"
	PaymentTypeAtitlan       = "atitlan"
)

// AtitlanCostPerGuest is the published per-person excursion cost (USD).
const AtitlanCostPerGuest = 95.0

type Payment struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InviteID        uint      `gorm:"column:invite_id;not null;uniqueIndex:idx_payments_invite_type" json:"invite_id"`
	PaymentType     string    `gorm:"column:payment_type;size:20;not null;uniqueIndex:idx_payments_invite_type" json:"payment_type"`
	AmountCommitted float64   `gorm:"column:amount_committed;not null;default:0" json:"amount_committed"`
	AmountPaid      float64   `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	Method          string    `gorm:"column:method;size:50" json:"method"`
	Notes           string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
