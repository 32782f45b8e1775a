package models

import "rentverse/src/types"

type Category struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	IsActive    bool    `gorm:"default:true" json:"is_active,omitempty"`
	SortOrder   int     `json:"sort_order,omitempty"`

	Listings []Listing `json:"listings,omitempty"`

	types.Timestamps
}
