package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type ListingStatus string

const (
	LISTING_DRAFT     ListingStatus = "draft"
	LISTING_ACTIVE    ListingStatus = "active"
	LISTING_INACTIVE  ListingStatus = "inactive"
	LISTING_SUSPENDED ListingStatus = "suspended"
)

type ListingType string

const (
	LISTING_PRODUCT ListingType = "product"
	LISTING_SERVICE ListingType = "service"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_DISPUTED  BookingStatus = "disputed"
)

// Terminal reports whether no further status transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BOOKING_CANCELED || s == BOOKING_COMPLETED
}

type PaymentStatus string

const (
	PAYMENT_PENDING        PaymentStatus = "pending"
	PAYMENT_PAID           PaymentStatus = "paid"
	PAYMENT_REFUNDED       PaymentStatus = "refunded"
	PAYMENT_PARTIAL_REFUND PaymentStatus = "partial_refund"
)

type PaymentRecordStatus string

const (
	PAYMENT_RECORD_PENDING PaymentRecordStatus = "pending"
	PAYMENT_RECORD_SUCCESS PaymentRecordStatus = "success"
	PAYMENT_RECORD_FAILED  PaymentRecordStatus = "failed"
)

type PaymentType string

const (
	PAYMENT_TYPE_BOOKING PaymentType = "booking"
	PAYMENT_TYPE_DEPOSIT PaymentType = "deposit"
	PAYMENT_TYPE_REFUND  PaymentType = "refund"
	PAYMENT_TYPE_PENALTY PaymentType = "penalty"
)

type CouponType string

const (
	COUPON_PERCENTAGE CouponType = "percentage"
	COUPON_FIXED      CouponType = "fixed"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateListingRequestBody struct {
	Title       string  `json:"title" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"required,min=10,max=1000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Location    string  `json:"location" binding:"required,min=3,max=100"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	Type        string  `json:"type,omitempty" binding:"omitempty,oneof=product service"`
	Images      []string `json:"images,omitempty"`
	Publish     bool    `json:"publish,omitempty"`
}

type CreateBookingRequestBody struct {
	ListingID            uint    `json:"listing_id" binding:"required"`
	StartDate            string  `json:"start_date" binding:"required,calendardate,futuredate"`
	EndDate              string  `json:"end_date" binding:"required,calendardate,gtdate=StartDate"`
	CouponCode           *string `json:"coupon_code,omitempty"`
	CancellationPolicyID *uint   `json:"cancellation_policy_id,omitempty"`
	SpecialRequests      string  `json:"special_requests,omitempty"`
}

type CancelBookingRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

type QuoteRequestQuery struct {
	StartDate  string  `form:"start" binding:"required,calendardate"`
	EndDate    string  `form:"end" binding:"required,calendardate,gtdate=StartDate"`
	CouponCode *string `form:"coupon,omitempty"`
}
