package models

import "rentverse/src/types"

type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `gorm:"default:'renter'" json:"role,omitempty"`
	Location string `json:"location,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active,omitempty"`

	Listings []Listing `gorm:"foreignKey:owner_id" json:"listings,omitempty"`
	Bookings []Booking `gorm:"foreignKey:renter_id" json:"bookings,omitempty"`

	types.Timestamps
}
