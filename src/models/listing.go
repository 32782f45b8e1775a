package models

import "rentverse/src/types"

type Listing struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	Title        string              `json:"title,omitempty"`
	Slug         string              `json:"slug,omitempty"`
	Description  string              `json:"description,omitempty"`
	Price        float64             `json:"price,omitempty"`
	Location     string              `json:"location,omitempty"`
	CategoryID   uint                `json:"category_id,omitempty"`
	OwnerID      uint                `json:"owner_id,omitempty"`
	Type         types.ListingType   `gorm:"default:'product'" json:"type,omitempty"`
	Status       types.ListingStatus `gorm:"default:'draft'" json:"status,omitempty"`
	Featured     bool                `json:"featured,omitempty"`
	ViewsCount   uint                `json:"views_count,omitempty"`
	Availability types.JSONB         `gorm:"type:jsonb" json:"availability,omitempty"`

	Owner    User           `gorm:"foreignKey:owner_id" json:"-"`
	Category Category       `gorm:"foreignKey:category_id" json:"-"`
	Images   []ListingImage `json:"images,omitempty"`
	Bookings []Booking      `json:"bookings,omitempty"`

	types.Timestamps
}

// Bookable reports whether new bookings may be taken against the listing.
func (l *Listing) Bookable() bool {
	return l.Status == types.LISTING_ACTIVE
}

type ListingImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ListingID uint   `json:"listing_id,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	AltText   string `json:"alt_text,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`

	types.Timestamps
}
