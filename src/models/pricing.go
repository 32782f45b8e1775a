package models

import (
	"math"
	"time"

	"rentverse/src/config"
	"rentverse/src/types"
)

// BookingQuote is the itemized price breakdown for a date range.
type BookingQuote struct {
	BaseAmount float64 `json:"base_amount"`
	ServiceFee float64 `json:"service_fee"`
	Discount   float64 `json:"discount"`
	Total      float64 `json:"total"`
}

// Round2 keeps monetary values at 2 fraction digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DurationDays counts rental days inclusive of both endpoints. A one-night
// stay from the 10th to the 12th is three billable days.
func DurationDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// CalculateBookingTotal computes the breakdown for renting at the given unit
// rate over [start, end]. The coupon may be nil; an ineligible coupon yields
// a zero discount rather than an error. Total never goes below zero.
func CalculateBookingTotal(rate float64, start, end time.Time, coupon *Coupon, now time.Time) (*BookingQuote, error) {
	if rate <= 0 {
		return nil, types.NewAppError(types.ErrCodeValidation, "price must be greater than 0")
	}
	if !end.After(start) {
		return nil, types.NewAppError(types.ErrCodeValidation, "end date must be after start date")
	}
	days := DurationDays(start, end)
	baseAmount := rate * float64(days)
	serviceFee := baseAmount * config.SERVICE_FEE_RATE
	discount := coupon.DiscountFor(baseAmount+serviceFee, now)
	total := baseAmount + serviceFee - discount
	if total < 0 {
		total = 0
	}
	return &BookingQuote{
		BaseAmount: Round2(baseAmount),
		ServiceFee: Round2(serviceFee),
		Discount:   Round2(discount),
		Total:      Round2(total),
	}, nil
}

// CalculateRefund splits a booking's total into refund and penalty under its
// cancellation policy. With enough notice before the start date the renter
// gets everything back; inside the policy window the penalty percentage is
// withheld. A booking without a policy carries no refund entitlement at all.
func CalculateRefund(booking *Booking, policy *CancellationPolicy, today time.Time) (refund float64, penalty float64) {
	if policy == nil {
		return 0, 0
	}
	daysUntilStart := int(booking.StartDate.Sub(today).Hours() / 24)
	if float64(daysUntilStart) >= float64(policy.EffectiveDurationHours)/24 {
		return Round2(booking.TotalAmount), 0
	}
	penalty = booking.TotalAmount * (policy.PenaltyPercentage / 100)
	refund = booking.TotalAmount - penalty
	return Round2(refund), Round2(penalty)
}
