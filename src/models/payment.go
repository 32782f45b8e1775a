package models

import (
	"time"

	"rentverse/src/types"
)

type Payment struct {
	ID            uint                      `gorm:"primarykey" json:"id"`
	BookingID     uint                      `json:"booking_id,omitempty"`
	Amount        float64                   `json:"amount"`
	Currency      string                    `gorm:"default:'INR'" json:"currency,omitempty"`
	TransactionID string                    `gorm:"uniqueIndex" json:"transaction_id,omitempty"`
	Status        types.PaymentRecordStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentType   types.PaymentType         `gorm:"default:'booking'" json:"payment_type,omitempty"`
	FailureReason *string                   `json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time                `json:"processed_at,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
