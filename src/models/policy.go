package models

import "rentverse/src/types"

type CancellationPolicy struct {
	ID                     uint    `gorm:"primarykey" json:"id"`
	Name                   string  `json:"name,omitempty"`
	Description            *string `json:"description,omitempty"`
	PenaltyPercentage      float64 `json:"penalty_percentage"`
	EffectiveDurationHours int     `gorm:"default:24" json:"effective_duration_hours,omitempty"`
	IsActive               bool    `gorm:"default:true" json:"is_active,omitempty"`

	Bookings []Booking `gorm:"foreignKey:cancellation_policy_id" json:"-"`

	types.Timestamps
}
