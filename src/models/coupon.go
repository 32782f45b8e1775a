package models

import (
	"time"

	"rentverse/src/types"
)

type Coupon struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Code        string           `gorm:"uniqueIndex" json:"code,omitempty"`
	Name        string           `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        types.CouponType `json:"type,omitempty"`
	Value       float64          `json:"value"`
	MinAmount   float64          `json:"min_amount"`
	MaxDiscount *float64         `json:"max_discount,omitempty"`
	UsageLimit  *int             `json:"usage_limit,omitempty"`
	UsedCount   int              `json:"used_count"`
	ValidFrom   time.Time        `json:"valid_from,omitempty"`
	ValidUntil  time.Time        `json:"valid_until,omitempty"`
	IsActive    bool             `gorm:"default:true" json:"is_active,omitempty"`

	Usages []CouponUsage `json:"-"`

	types.Timestamps
}

// Expired reports whether now falls outside the coupon's validity window.
func (c *Coupon) Expired(now time.Time) bool {
	return now.Before(c.ValidFrom) || now.After(c.ValidUntil)
}

// LimitReached reports whether the redemption cap is used up. Coupons without
// a usage limit never run out.
func (c *Coupon) LimitReached() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// DiscountFor evaluates the coupon against an amount. Every ineligibility
// outcome is a silent zero discount, never an error: a coupon that cannot be
// applied must not block the booking it was attached to.
func (c *Coupon) DiscountFor(amount float64, now time.Time) float64 {
	if c == nil || !c.IsActive {
		return 0
	}
	if c.Expired(now) {
		return 0
	}
	if c.LimitReached() {
		return 0
	}
	if amount < c.MinAmount {
		return 0
	}
	var discount float64
	switch c.Type {
	case types.COUPON_PERCENTAGE:
		discount = amount * (c.Value / 100)
		cap := amount
		if c.MaxDiscount != nil {
			cap = *c.MaxDiscount
		}
		if discount > cap {
			discount = cap
		}
	case types.COUPON_FIXED:
		// Fixed discounts are not capped by the amount. The pricing step
		// clamps the total at zero.
		discount = c.Value
	}
	return Round2(discount)
}

type CouponUsage struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	CouponID       uint    `gorm:"uniqueIndex:idx_booking_coupon" json:"coupon_id,omitempty"`
	UserID         uint    `json:"user_id,omitempty"`
	BookingID      uint    `gorm:"uniqueIndex:idx_booking_coupon" json:"booking_id,omitempty"`
	DiscountAmount float64 `json:"discount_amount"`

	Coupon  *Coupon  `gorm:"foreignKey:coupon_id" json:"-"`
	User    *User    `gorm:"foreignKey:user_id" json:"-"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
