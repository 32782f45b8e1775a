package models

import (
	"time"

	"rentverse/src/types"
)

type Booking struct {
	ID                   uint                `gorm:"primarykey" json:"id"`
	ListingID            uint                `json:"listing_id,omitempty"`
	RenterID             uint                `json:"renter_id,omitempty"`
	StartDate            time.Time           `json:"start_date,omitempty"`
	EndDate              time.Time           `json:"end_date,omitempty"`
	TotalAmount          float64             `json:"total_amount"`
	ServiceFee           float64             `json:"service_fee"`
	Status               types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentStatus        types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	CancellationPolicyID *uint               `json:"cancellation_policy_id,omitempty"`
	CancellationReason   *string             `json:"cancellation_reason,omitempty"`
	CancellationDate     *time.Time          `json:"cancellation_date,omitempty"`
	SpecialRequests      string              `json:"special_requests,omitempty"`

	Listing            *Listing            `gorm:"foreignKey:listing_id" json:"listing,omitempty"`
	Renter             *User               `gorm:"foreignKey:renter_id" json:"renter,omitempty"`
	CancellationPolicy *CancellationPolicy `gorm:"foreignKey:cancellation_policy_id" json:"cancellation_policy,omitempty"`
	Payments           []Payment           `json:"payments,omitempty"`
	CouponUsages       []CouponUsage       `json:"coupon_usages,omitempty"`

	types.Timestamps
}
